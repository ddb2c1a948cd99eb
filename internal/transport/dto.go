package transport

import (
	"github.com/google/uuid"

	"github.com/hydroshop/backend/internal/domain"
)

type MutateCartRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type CartResponse struct {
	Items  []domain.CartLine `json:"items"`
	Capped bool              `json:"capped,omitempty"`
}

type MergeResponse struct {
	Merged bool `json:"merged"`
}

type SaveProductRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}
