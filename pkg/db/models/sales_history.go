package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesHistory is one stored sale. DedupeKey is unique per user so a report
// uploaded twice does not double count.
type SalesHistory struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:sales_history_user_dedupe_key,priority:1"`
	DedupeKey     string          `gorm:"column:dedupe_key;not null;uniqueIndex:sales_history_user_dedupe_key,priority:2"`
	ItemTitle     string          `gorm:"column:item_title;not null"`
	ItemNumber    *string         `gorm:"column:item_number"`
	SoldPrice     decimal.Decimal `gorm:"column:sold_price;type:numeric(12,2);not null"`
	SoldDate      *time.Time      `gorm:"column:sold_date;type:date"`
	Quantity      int             `gorm:"column:quantity;not null"`
	CustomLabel   string          `gorm:"column:custom_label;not null"`
	BuyerUsername *string         `gorm:"column:buyer_username"`
	BuyerState    *string         `gorm:"column:buyer_state"`
	PaidDate      *time.Time      `gorm:"column:paid_date;type:date"`
	ShippedDate   *time.Time      `gorm:"column:shipped_date;type:date"`
	Fees          decimal.Decimal `gorm:"column:fees;type:numeric(12,2);not null"`
	ShippingCost  decimal.Decimal `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (SalesHistory) TableName() string { return "sales_history" }
