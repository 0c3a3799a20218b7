package collections

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/resellernumbers-backend/internal/repo"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
)

// Repository persists collection purchases.
type Repository struct {
	repo.Base
}

// NewRepository binds the repository to a GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns a user's purchases, newest purchase first. Undated purchases sort last.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.Collection, error) {
	var rows []models.Collection
	err := r.Owned(ctx, userID).
		Order("CASE WHEN purchase_date IS NULL THEN 1 ELSE 0 END, purchase_date DESC, created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Find returns nil when the purchase does not exist for the user.
func (r *Repository) Find(ctx context.Context, userID, id uuid.UUID) (*models.Collection, error) {
	var row models.Collection
	found, err := repo.TakeOwned(ctx, r.Base, userID, &row, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Collection) error {
	return r.DB(ctx).Create(row).Error
}

func (r *Repository) Save(ctx context.Context, row *models.Collection) error {
	return r.DB(ctx).Save(row).Error
}

// Delete reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result := r.Owned(ctx, userID).Where("id = ?", id).Delete(&models.Collection{})
	return result.RowsAffected > 0, result.Error
}
