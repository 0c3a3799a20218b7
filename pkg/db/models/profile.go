package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

// Profile is the account record keyed by the auth user id.
type Profile struct {
	ID                 uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Email              string                   `gorm:"column:email;not null"`
	FullName           *string                  `gorm:"column:full_name"`
	Status             enums.ProfileStatus      `gorm:"column:status;not null"`
	SubscriptionStatus enums.SubscriptionStatus `gorm:"column:subscription_status;not null"`
	TrialEndsAt        *time.Time               `gorm:"column:trial_ends_at"`
	ApprovedAt         *time.Time               `gorm:"column:approved_at"`
	CreatedAt          time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }
