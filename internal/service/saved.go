package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hydroshop/backend/internal/models"
	"github.com/hydroshop/backend/internal/repo"
)

// SavedService is the user's wishlist. Saved entries are user-only; anonymous
// shoppers only get a cart.
type SavedService struct {
	Repo *repo.GormRepo
}

func (s *SavedService) Save(ctx context.Context, userID string, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("product id must not be nil: %w", ErrValidation)
	}
	return s.Repo.SaveProduct(ctx, userID, productID)
}

func (s *SavedService) Unsave(ctx context.Context, userID string, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("product id must not be nil: %w", ErrValidation)
	}
	return s.Repo.UnsaveProduct(ctx, userID, productID)
}

func (s *SavedService) List(ctx context.Context, userID string) ([]models.Product, error) {
	return s.Repo.ListSaved(ctx, userID)
}
