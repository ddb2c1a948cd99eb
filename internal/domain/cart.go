package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one presentation-ready cart row: catalog fields joined with the
// stored quantity. Line items whose product no longer exists never appear.
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Badge       string          `json:"badge,omitempty"`
	Category    string          `json:"category"`
	Rating      decimal.Decimal `json:"rating"`
	Reviews     int             `json:"reviews"`
	Image       string          `json:"image"`
	Inventory   string          `json:"inventory"`
	Quantity    int             `json:"quantity"`
}

type Cart struct {
	Owner Owner      `json:"-"`
	Items []CartLine `json:"items"`
}

type CartSummary struct {
	ItemCount int             `json:"count"`
	Subtotal  decimal.Decimal `json:"total"`
}

// Summarize folds a cart into its aggregate totals.
func (c Cart) Summarize() CartSummary {
	s := CartSummary{Subtotal: decimal.Zero}
	for _, line := range c.Items {
		s.ItemCount += line.Quantity
		s.Subtotal = s.Subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return s
}
