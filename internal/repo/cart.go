package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hydroshop/backend/internal/domain"
	"github.com/hydroshop/backend/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// addExpr keeps "quantity + delta" inside the stored 1..99 range. The CASE
// runs against the row's current value, so concurrent adds serialize on the
// row instead of racing a read-modify-write.
func addExpr(delta int) clause.Expr {
	return gorm.Expr(
		"CASE WHEN quantity + ? > ? THEN ? WHEN quantity + ? < ? THEN ? ELSE quantity + ? END",
		delta, domain.MaxQuantity, domain.MaxQuantity,
		delta, domain.MinQuantity, domain.MinQuantity,
		delta,
	)
}

var ownerConflict = clause.OnConflict{
	Columns: []clause.Column{{Name: "user_id"}, {Name: "session_id"}, {Name: "product_id"}},
}

// AddItem upserts the (owner, product) row, adding delta to an existing
// quantity. Both paths clamp to the stored range; excess is discarded. The
// single INSERT .. ON CONFLICT statement is the atomicity boundary.
func (r *GormRepo) AddItem(ctx context.Context, owner domain.Owner, productID uuid.UUID, delta int) error {
	if owner.IsZero() {
		return domain.ErrNoOwner
	}
	userID, sessionID := owner.Columns()

	item := models.CartItem{
		UserID:    userID,
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  domain.ClampQuantity(delta),
	}

	conflict := ownerConflict
	conflict.DoUpdates = clause.Assignments(map[string]interface{}{
		"quantity":   addExpr(delta),
		"updated_at": r.DB.NowFunc(),
	})

	return r.DB.WithContext(ctx).Clauses(conflict).Create(&item).Error
}

// SetQuantity updates or inserts the row at the clamped quantity. Zero removes
// the row; removing an absent row is a no-op.
func (r *GormRepo) SetQuantity(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) error {
	if owner.IsZero() {
		return domain.ErrNoOwner
	}
	userID, sessionID := owner.Columns()

	q := domain.ClampSetQuantity(quantity)
	if q == 0 {
		return r.RemoveItem(ctx, owner, productID)
	}

	item := models.CartItem{
		UserID:    userID,
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  q,
	}

	conflict := ownerConflict
	conflict.DoUpdates = clause.Assignments(map[string]interface{}{
		"quantity":   q,
		"updated_at": r.DB.NowFunc(),
	})

	return r.DB.WithContext(ctx).Clauses(conflict).Create(&item).Error
}

// RemoveItem deletes the (owner, product) row. Idempotent.
func (r *GormRepo) RemoveItem(ctx context.Context, owner domain.Owner, productID uuid.UUID) error {
	if owner.IsZero() {
		return domain.ErrNoOwner
	}
	userID, sessionID := owner.Columns()

	return r.DB.WithContext(ctx).
		Where("user_id = ? AND session_id = ? AND product_id = ?", userID, sessionID, productID).
		Delete(&models.CartItem{}).Error
}

// Clear deletes every row the owner holds.
func (r *GormRepo) Clear(ctx context.Context, owner domain.Owner) error {
	if owner.IsZero() {
		return domain.ErrNoOwner
	}
	userID, sessionID := owner.Columns()

	return r.DB.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Delete(&models.CartItem{}).Error
}

// Items returns the owner's raw rows, newest first.
func (r *GormRepo) Items(ctx context.Context, owner domain.Owner) ([]models.CartItem, error) {
	if owner.IsZero() {
		return nil, domain.ErrNoOwner
	}
	userID, sessionID := owner.Columns()

	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CartView joins the owner's rows with the catalog. The join is inner, so
// orphaned rows stay invisible.
func (r *GormRepo) CartView(ctx context.Context, owner domain.Owner) ([]domain.CartLine, error) {
	if owner.IsZero() {
		return nil, domain.ErrNoOwner
	}
	userID, sessionID := owner.Columns()

	var lines []domain.CartLine
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("products.id AS product_id, products.name, products.description, products.price, " +
			"products.badge, products.category, products.rating, products.reviews, " +
			"products.image, products.inventory, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ? AND cart_items.session_id = ?", userID, sessionID).
		Order("cart_items.created_at DESC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// MergeItem reconciles one product of a session cart into a user cart:
// combine quantities when the user already holds the product, transfer the
// row in place otherwise. The whole step runs in one short transaction, and
// the combine re-reads the user quantity at write time, so a concurrent add
// is never overwritten with a stale snapshot value. Already-merged products
// are a no-op, which is what makes a crashed merge safely retriable.
func (r *GormRepo) MergeItem(ctx context.Context, sessionToken, userID string, productID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var src models.CartItem
		err := tx.
			Where("user_id = ? AND session_id = ? AND product_id = ?", "", sessionToken, productID).
			First(&src).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND session_id = ? AND product_id = ?", userID, "", productID).
			Update("quantity", addExpr(src.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Delete(&models.CartItem{}, "id = ?", src.ID).Error
		}

		// No user row for this product: rewrite the owner in place. A unique
		// violation here means a user row appeared concurrently; the caller
		// retries and takes the combine path.
		return tx.Model(&models.CartItem{}).
			Where("id = ?", src.ID).
			Updates(map[string]interface{}{"user_id": userID, "session_id": ""}).Error
	})
}
