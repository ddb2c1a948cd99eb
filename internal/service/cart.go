package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/logging"
	"github.com/hydroshop/backend/internal/mykafka"
	"github.com/hydroshop/backend/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

const cartEventsTopic = "cart_events"

// CartService wraps the owner-scoped store operations. Every mutation returns
// the resulting cart view, mirroring what the storefront renders after each
// action.
type CartService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer

	// StrictQuantity reports a capped add/set instead of clamping silently.
	StrictQuantity bool
}

// Capped tells a strict-mode caller that the requested quantity exceeded the
// per-line cap and was stored clamped.
type Capped bool

func (s *CartService) Add(ctx context.Context, owner domain.Owner, productID uuid.UUID, delta int) (domain.Cart, Capped, error) {
	if owner.IsZero() {
		return domain.Cart{}, false, domain.ErrNoOwner
	}
	if productID == uuid.Nil {
		return domain.Cart{}, false, fmt.Errorf("product id must not be nil: %w", ErrValidation)
	}

	if err := s.Repo.AddItem(ctx, owner, productID, delta); err != nil {
		return domain.Cart{}, false, fmt.Errorf("add to cart: %w", err)
	}

	s.publish(ctx, owner, map[string]any{
		"type":       "cart_item_added",
		"owner":      owner.String(),
		"product_id": productID,
		"quantity":   delta,
	})

	capped := Capped(s.StrictQuantity && delta > domain.MaxQuantity)
	cart, err := s.View(ctx, owner)
	return cart, capped, err
}

func (s *CartService) SetQuantity(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) (domain.Cart, Capped, error) {
	if owner.IsZero() {
		return domain.Cart{}, false, domain.ErrNoOwner
	}
	if productID == uuid.Nil {
		return domain.Cart{}, false, fmt.Errorf("product id must not be nil: %w", ErrValidation)
	}

	if err := s.Repo.SetQuantity(ctx, owner, productID, quantity); err != nil {
		return domain.Cart{}, false, fmt.Errorf("update cart: %w", err)
	}

	s.publish(ctx, owner, map[string]any{
		"type":       "cart_item_updated",
		"owner":      owner.String(),
		"product_id": productID,
		"quantity":   domain.ClampSetQuantity(quantity),
	})

	capped := Capped(s.StrictQuantity && quantity > domain.MaxQuantity)
	cart, err := s.View(ctx, owner)
	return cart, capped, err
}

func (s *CartService) Remove(ctx context.Context, owner domain.Owner, productID uuid.UUID) (domain.Cart, error) {
	if owner.IsZero() {
		return domain.Cart{}, domain.ErrNoOwner
	}
	if productID == uuid.Nil {
		return domain.Cart{}, fmt.Errorf("product id must not be nil: %w", ErrValidation)
	}

	if err := s.Repo.RemoveItem(ctx, owner, productID); err != nil {
		return domain.Cart{}, fmt.Errorf("remove from cart: %w", err)
	}

	s.publish(ctx, owner, map[string]any{
		"type":       "cart_item_removed",
		"owner":      owner.String(),
		"product_id": productID,
	})

	return s.View(ctx, owner)
}

func (s *CartService) Clear(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if owner.IsZero() {
		return domain.Cart{}, domain.ErrNoOwner
	}

	if err := s.Repo.Clear(ctx, owner); err != nil {
		return domain.Cart{}, fmt.Errorf("clear cart: %w", err)
	}

	s.publish(ctx, owner, map[string]any{
		"type":  "cart_cleared",
		"owner": owner.String(),
	})

	return s.View(ctx, owner)
}

// View renders the presentation-ready cart: catalog fields plus quantity,
// most recently created line first.
func (s *CartService) View(ctx context.Context, owner domain.Owner) (domain.Cart, error) {
	if owner.IsZero() {
		return domain.Cart{}, domain.ErrNoOwner
	}

	lines, err := s.Repo.CartView(ctx, owner)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("read cart: %w", err)
	}
	return domain.Cart{Owner: owner, Items: lines}, nil
}

func (s *CartService) Summary(ctx context.Context, owner domain.Owner) (domain.CartSummary, error) {
	cart, err := s.View(ctx, owner)
	if err != nil {
		return domain.CartSummary{}, err
	}
	return cart.Summarize(), nil
}

// publish emits a cart event. Event delivery is best effort: a broker outage
// must never fail a shopper's cart action.
func (s *CartService) publish(ctx context.Context, owner domain.Owner, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, cartEventsTopic, owner.String(), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
