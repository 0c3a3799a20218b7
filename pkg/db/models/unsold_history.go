package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

// UnsoldHistory is one listing that ended without a sale.
type UnsoldHistory struct {
	ID            uuid.UUID          `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex:unsold_history_user_dedupe_key,priority:1"`
	DedupeKey     string             `gorm:"column:dedupe_key;not null;uniqueIndex:unsold_history_user_dedupe_key,priority:2"`
	ItemTitle     string             `gorm:"column:item_title;not null"`
	ListingID     *string            `gorm:"column:listing_id"`
	OriginalPrice decimal.Decimal    `gorm:"column:original_price;type:numeric(12,2);not null"`
	RelistStatus  enums.RelistStatus `gorm:"column:relist_status;not null"`
	EndedDate     *time.Time         `gorm:"column:ended_date;type:date"`
	FinalViews    int                `gorm:"column:final_views;not null"`
	FinalWatchers int                `gorm:"column:final_watchers;not null"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (UnsoldHistory) TableName() string { return "unsold_history" }
