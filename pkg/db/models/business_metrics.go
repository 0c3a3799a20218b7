package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds one user's cost assumptions.
type BusinessMetrics struct {
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	MinutesPerItem  decimal.Decimal `gorm:"column:minutes_per_item;type:numeric(8,2);not null"`
	IdealHourlyRate decimal.Decimal `gorm:"column:ideal_hourly_rate;type:numeric(10,2);not null"`
	AvgFeePercent   decimal.Decimal `gorm:"column:avg_fee_percent;type:numeric(5,2);not null"`
	TaxBracket      decimal.Decimal `gorm:"column:tax_bracket;type:numeric(5,2);not null"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (BusinessMetrics) TableName() string { return "business_metrics" }
