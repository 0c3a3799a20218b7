package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/resellernumbers-backend/internal/repo"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.DB(ctx).Where("id = ?", id).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreateIfMissing inserts the profile unless one already exists for its id.
func (r *Repository) CreateIfMissing(ctx context.Context, profile *models.Profile) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(profile).Error
}

// ExpireTrials flips trial subscriptions whose trial ended before now.
func (r *Repository) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	result := r.DB(ctx).
		Model(&models.Profile{}).
		Where("subscription_status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at < ?", enums.SubscriptionStatusTrial, now).
		Updates(map[string]any{
			"subscription_status": enums.SubscriptionStatusExpired,
			"updated_at":          now,
		})
	return result.RowsAffected, result.Error
}
