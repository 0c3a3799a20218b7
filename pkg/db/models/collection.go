package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Collection is a user-entered purchase of a batch of inventory.
type Collection struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	Name         string          `gorm:"column:name;not null"`
	SKU          *string         `gorm:"column:sku"`
	PurchaseDate *time.Time      `gorm:"column:purchase_date;type:date"`
	Cost         decimal.Decimal `gorm:"column:cost;type:numeric(12,2);not null"`
	Notes        *string         `gorm:"column:notes"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Collection) TableName() string { return "collections" }
