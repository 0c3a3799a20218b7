package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by repositories whose rows belong to a single seller.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds ctx to the connection. A nil ctx yields the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Owned scopes every statement to rows whose user_id is userID.
func (b Base) Owned(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return b.DB(ctx).Scopes(OwnedBy(userID))
}

// OwnedBy is the gorm scope behind Owned.
func OwnedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	}
}

// TakeOwned loads the first row matching conds for userID into dest and
// reports false, without error, when there is none.
func TakeOwned(ctx context.Context, b Base, userID uuid.UUID, dest any, conds ...any) (bool, error) {
	err := b.Owned(ctx, userID).Take(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
