package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID       `gorm:"primaryKey"                       json:"id"`
	Name        string          `gorm:"not null"                         json:"name"`
	Description string          `gorm:"not null"                         json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2);not null"      json:"price"`
	Badge       string          `json:"badge,omitempty"`
	Category    string          `gorm:"default:everyday"                 json:"category"`
	Rating      decimal.Decimal `gorm:"type:numeric(3,2);default:0"      json:"rating"`
	Reviews     int             `gorm:"not null;default:0"               json:"reviews"`
	Image       string          `gorm:"not null"                         json:"image"`
	Inventory   string          `gorm:"not null;default:in-stock"        json:"inventory"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Product) TableName() string {
	return "products"
}

// CartItem belongs to exactly one owner: UserID for authenticated carts,
// SessionID for anonymous carts. The unset side is the empty string, so the
// composite unique index is the single upsert boundary for both cases.
type CartItem struct {
	ID        uuid.UUID `gorm:"primaryKey"                                           json:"id"`
	UserID    string    `gorm:"size:256;uniqueIndex:idx_owner_product;not null"      json:"user_id,omitempty"`
	SessionID string    `gorm:"size:256;uniqueIndex:idx_owner_product;not null"      json:"session_id,omitempty"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_owner_product;not null"               json:"product_id"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"                json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

type SavedProduct struct {
	ID        uuid.UUID `gorm:"primaryKey"                                      json:"id"`
	UserID    string    `gorm:"size:256;uniqueIndex:idx_user_saved;not null"    json:"user_id"`
	ProductID uuid.UUID `gorm:"uniqueIndex:idx_user_saved;not null"             json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *SavedProduct) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (SavedProduct) TableName() string {
	return "saved_products"
}
