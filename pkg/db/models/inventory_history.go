package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

// InventoryHistory is the latest known state of one listing title for a user.
// At most one active row exists per (user, title).
type InventoryHistory struct {
	ID            uuid.UUID             `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	ItemTitle     string                `gorm:"column:item_title;not null"`
	ListingID     *string               `gorm:"column:listing_id"`
	CurrentPrice  decimal.Decimal       `gorm:"column:current_price;type:numeric(12,2);not null"`
	Category      *string               `gorm:"column:category"`
	Condition     *string               `gorm:"column:condition"`
	ListingFormat enums.ListingFormat   `gorm:"column:listing_format;not null"`
	Quantity      int                   `gorm:"column:quantity;not null"`
	DaysListed    int                   `gorm:"column:days_listed;not null"`
	StartDate     *time.Time            `gorm:"column:start_date;type:date"`
	Views         int                   `gorm:"column:views;not null"`
	Watchers      int                   `gorm:"column:watchers;not null"`
	Status        enums.InventoryStatus `gorm:"column:status;not null"`
	SnapshotDate  time.Time             `gorm:"column:snapshot_date;type:date;not null"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (InventoryHistory) TableName() string { return "inventory_history" }
