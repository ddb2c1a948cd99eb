package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/hydroshop/backend/internal/models"
)

// SaveProduct records a product on the user's saved list. Saving twice is a
// no-op thanks to the (user, product) unique index.
func (r *GormRepo) SaveProduct(ctx context.Context, userID string, productID uuid.UUID) error {
	saved := models.SavedProduct{
		UserID:    userID,
		ProductID: productID,
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&saved).Error
}

// UnsaveProduct is idempotent, like every cart-side delete.
func (r *GormRepo) UnsaveProduct(ctx context.Context, userID string, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.SavedProduct{}).Error
}

func (r *GormRepo) ListSaved(ctx context.Context, userID string) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Table("saved_products").
		Select("products.*").
		Joins("JOIN products ON products.id = saved_products.product_id").
		Where("saved_products.user_id = ?", userID).
		Order("saved_products.created_at DESC").
		Scan(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
