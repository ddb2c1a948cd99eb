package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/models"
)

func TestCartService_AddReturnsView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")

	bottle := env.product(t, "bottle", "19.90")
	tabs := env.product(t, "tabs", "7.50")

	cart, capped, err := env.Cart.Add(ctx, owner, bottle, 2)
	require.NoError(t, err)
	require.False(t, bool(capped))
	require.Len(t, cart.Items, 1)

	cart, _, err = env.Cart.Add(ctx, owner, tabs, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)

	// newest line item first
	assert.Equal(t, tabs, cart.Items[0].ProductID)
	assert.Equal(t, bottle, cart.Items[1].ProductID)
}

func TestCartService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")

	_, _, err := env.Cart.Add(ctx, domain.Owner{}, uuid.New(), 1)
	require.ErrorIs(t, err, domain.ErrNoOwner)

	_, _, err = env.Cart.Add(ctx, owner, uuid.Nil, 1)
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.Cart.Remove(ctx, owner, uuid.Nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestCartService_StrictQuantityReportsCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")
	bottle := env.product(t, "bottle", "19.90")

	env.Cart.StrictQuantity = true

	cart, capped, err := env.Cart.Add(ctx, owner, bottle, 150)
	require.NoError(t, err)
	require.True(t, bool(capped))
	require.Len(t, cart.Items, 1)
	require.Equal(t, domain.MaxQuantity, cart.Items[0].Quantity)

	// within range: no cap reported
	_, capped, err = env.Cart.SetQuantity(ctx, owner, bottle, 10)
	require.NoError(t, err)
	require.False(t, bool(capped))
}

func TestCartService_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")

	bottle := env.product(t, "bottle", "19.90")
	tabs := env.product(t, "tabs", "7.50")

	_, _, err := env.Cart.Add(ctx, owner, bottle, 2)
	require.NoError(t, err)
	_, _, err = env.Cart.Add(ctx, owner, tabs, 3)
	require.NoError(t, err)

	summary, err := env.Cart.Summary(ctx, owner)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.ItemCount)
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("62.30")),
		"got subtotal %s", summary.Subtotal)
}

func TestCartService_OrphanedRowsInvisibleInView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")

	bottle := env.product(t, "bottle", "19.90")
	_, _, err := env.Cart.Add(ctx, owner, bottle, 1)
	require.NoError(t, err)

	// simulate a product deleted from the catalog after it was carted
	ghost := models.CartItem{SessionID: "sess-1", ProductID: uuid.New(), Quantity: 3}
	require.NoError(t, env.Repo.DB.Create(&ghost).Error)

	cart, err := env.Cart.View(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	summary, err := env.Cart.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ItemCount)
}

func TestCartService_ClearThenViewEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := domain.AnonymousOwner("sess-1")

	bottle := env.product(t, "bottle", "19.90")
	_, _, err := env.Cart.Add(ctx, owner, bottle, 2)
	require.NoError(t, err)

	cart, err := env.Cart.Clear(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, cart.Items)

	summary, err := env.Cart.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.ItemCount)
	assert.True(t, summary.Subtotal.IsZero())
}
