package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hydroshop/backend/internal/logging"
	"github.com/hydroshop/backend/internal/models"
	"github.com/hydroshop/backend/internal/service"
	"github.com/hydroshop/backend/internal/transport"
)

type SavedHTTP struct {
	Svc *service.SavedService
}

func (h *SavedHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.saved")

	userID, ok := CurrentOwner(c).User()
	if !ok {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	products, err := h.Svc.List(ctx, userID)
	if err != nil {
		l.Error("list_saved_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal server error")
	}
	if products == nil {
		products = []models.Product{}
	}

	return c.JSON(http.StatusOK, products)
}

func (h *SavedHTTP) Save(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "save.product")

	userID, ok := CurrentOwner(c).User()
	if !ok {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.SaveProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("save_product_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		return c.JSON(http.StatusBadRequest, "product_id required")
	}

	if err := h.Svc.Save(ctx, userID, req.ProductID); err != nil {
		l.Error("save_product_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusCreated, req)
}

func (h *SavedHTTP) Unsave(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "unsave.product")

	userID, ok := CurrentOwner(c).User()
	if !ok {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid product id")
	}

	if err := h.Svc.Unsave(ctx, userID, productID); err != nil {
		l.Error("unsave_product_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}
