package collections

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
)

// Input is the writable shape of a collection purchase.
type Input struct {
	Name         string          `json:"name" validate:"required,max=200"`
	SKU          *string         `json:"sku,omitempty" validate:"omitempty,max=100"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
	Cost         decimal.Decimal `json:"cost" validate:"gte=0"`
	Notes        *string         `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// DTO is a collection purchase as returned by the API.
type DTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          *string         `json:"sku,omitempty"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
	Cost         decimal.Decimal `json:"cost"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FromModel maps the persisted row into a DTO.
func FromModel(m models.Collection) DTO {
	return DTO{
		ID:           m.ID,
		Name:         m.Name,
		SKU:          m.SKU,
		PurchaseDate: m.PurchaseDate,
		Cost:         m.Cost,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Purchase converts the DTO into the shape the profitability engine joins on.
func (d DTO) Purchase() profitability.Purchase {
	p := profitability.Purchase{Name: d.Name, Cost: d.Cost}
	if d.SKU != nil {
		p.SKU = *d.SKU
	}
	if d.PurchaseDate != nil {
		p.PurchaseDate = d.PurchaseDate.UTC()
	}
	if d.Notes != nil {
		p.Notes = *d.Notes
	}
	return p
}
