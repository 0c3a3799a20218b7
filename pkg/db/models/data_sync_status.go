package models

import (
	"time"

	"github.com/google/uuid"
)

// DataSyncStatus records when each history kind was last synced for a user.
type DataSyncStatus struct {
	UserID              uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	LastInventorySync   *time.Time `gorm:"column:last_inventory_sync"`
	TotalInventoryItems int        `gorm:"column:total_inventory_items;not null;default:0"`
	LastSalesSync       *time.Time `gorm:"column:last_sales_sync"`
	TotalSales          int        `gorm:"column:total_sales;not null;default:0"`
	LastUnsoldSync      *time.Time `gorm:"column:last_unsold_sync"`
	TotalUnsold         int        `gorm:"column:total_unsold;not null;default:0"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (DataSyncStatus) TableName() string { return "data_sync_status" }
