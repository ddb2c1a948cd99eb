package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/logging"
	"github.com/hydroshop/backend/internal/service"
	"github.com/hydroshop/backend/internal/session"
	"github.com/hydroshop/backend/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Merge    *service.MergeService
	Sessions *session.Manager
}

// writeOwner resolves the identity for a mutation, issuing an anonymous
// session lazily when the shopper has none yet.
func (h *CartHTTP) writeOwner(c echo.Context) domain.Owner {
	owner := CurrentOwner(c)
	if owner.IsZero() {
		owner = domain.AnonymousOwner(h.Sessions.Issue(c))
	}
	return owner
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	owner := CurrentOwner(c)
	if owner.IsZero() {
		// No identity yet means no cart rows can exist.
		return c.JSON(http.StatusOK, transport.CartResponse{Items: []domain.CartLine{}})
	}

	cart, err := h.Svc.View(ctx, owner)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, transport.CartResponse{Items: cartItems(cart)})
}

func (h *CartHTTP) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart.summary")

	owner := CurrentOwner(c)
	if owner.IsZero() {
		return c.JSON(http.StatusOK, domain.Cart{}.Summarize())
	}

	summary, err := h.Svc.Summary(ctx, owner)
	if err != nil {
		l.Error("get_summary_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	var req transport.MutateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		l.Warn("add_to_cart_error", "status", 400)
		return c.JSON(http.StatusBadRequest, "product_id required")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	owner := h.writeOwner(c)
	cart, capped, err := h.Svc.Add(ctx, owner, req.ProductID, req.Quantity)
	if err != nil {
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "could not update cart, please retry")
	}

	l.Info("item added to cart", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, transport.CartResponse{Items: cartItems(cart), Capped: bool(capped)})
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	var req transport.MutateCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	owner := h.writeOwner(c)
	cart, capped, err := h.Svc.SetQuantity(ctx, owner, req.ProductID, req.Quantity)
	if err != nil {
		l.Error("update_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "could not update cart, please retry")
	}

	return c.JSON(http.StatusOK, transport.CartResponse{Items: cartItems(cart), Capped: bool(capped)})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart")

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid product id")
	}

	owner := CurrentOwner(c)
	if owner.IsZero() {
		// No cart means nothing to remove; deletion is idempotent.
		return c.JSON(http.StatusOK, transport.CartResponse{Items: []domain.CartLine{}})
	}

	cart, err := h.Svc.Remove(ctx, owner, productID)
	if err != nil {
		l.Error("remove_from_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "could not update cart, please retry")
	}

	return c.JSON(http.StatusOK, transport.CartResponse{Items: cartItems(cart)})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	owner := CurrentOwner(c)
	if owner.IsZero() {
		return c.JSON(http.StatusOK, transport.CartResponse{Items: []domain.CartLine{}})
	}

	cart, err := h.Svc.Clear(ctx, owner)
	if err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "could not update cart, please retry")
	}

	l.Info("cart cleared")
	return c.JSON(http.StatusOK, transport.CartResponse{Items: cartItems(cart)})
}

// MergeCart is the login callback hook: it folds the anonymous cart, if any,
// into the authenticated user's cart and retires the session cookie. Safe to
// call more than once.
func (h *CartHTTP) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "merge.cart")

	owner := CurrentOwner(c)
	userID, ok := owner.User()
	if !ok {
		l.Warn("merge_cart_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	token, ok := h.Sessions.Token(c)
	if !ok {
		return c.JSON(http.StatusOK, transport.MergeResponse{Merged: false})
	}

	merged, err := h.Merge.MergeOnLogin(ctx, token, userID)
	if err != nil {
		// Remaining session rows are picked up by a retried call, so the
		// cookie stays until the merge completes.
		l.Error("merge_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "could not update cart, please retry")
	}

	h.Sessions.Clear(c)
	return c.JSON(http.StatusOK, transport.MergeResponse{Merged: merged})
}

func cartItems(cart domain.Cart) []domain.CartLine {
	if cart.Items == nil {
		return []domain.CartLine{}
	}
	return cart.Items
}
