package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/resellernumbers-backend/pkg/db"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
)

// Repository persists history rows, sync bookkeeping and upload snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindActiveInventory(ctx context.Context, userID uuid.UUID, title string) (*models.InventoryHistory, error)
	CreateInventory(ctx context.Context, row *models.InventoryHistory) error
	UpdateInventory(ctx context.Context, id uuid.UUID, changes map[string]any) error
	CloseActiveInventory(ctx context.Context, userID uuid.UUID, title string, status enums.InventoryStatus) (int64, error)
	CloseMissingInventory(ctx context.Context, userID uuid.UUID, keep []string, status enums.InventoryStatus) (int64, error)

	InsertSale(ctx context.Context, row *models.SalesHistory) (bool, error)
	InsertUnsold(ctx context.Context, row *models.UnsoldHistory) (bool, error)

	ListInventory(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.InventoryHistory, error)
	ListSales(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.SalesHistory, error)
	ListUnsold(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.UnsoldHistory, error)

	Count(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (int64, error)
	TouchSyncStatus(ctx context.Context, userID uuid.UUID, kind enums.DataKind, total int64, at time.Time) error
	SyncStatus(ctx context.Context, userID uuid.UUID) (*models.DataSyncStatus, error)

	CreateUpload(ctx context.Context, upload *models.Upload) error
	ListUploads(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error)
	LatestUpload(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (*models.Upload, error)
	DeleteUploadsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the history repository to a GORM connection.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveInventory(ctx context.Context, userID uuid.UUID, title string) (*models.InventoryHistory, error) {
	var row models.InventoryHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND item_title = ? AND status = ?", userID, title, enums.InventoryStatusActive).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) CreateInventory(ctx context.Context, row *models.InventoryHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) UpdateInventory(ctx context.Context, id uuid.UUID, changes map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryHistory{}).
		Where("id = ?", id).
		Updates(changes).Error
}

func (r *repository) CloseActiveInventory(ctx context.Context, userID uuid.UUID, title string, status enums.InventoryStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryHistory{}).
		Where("user_id = ? AND item_title = ? AND status = ?", userID, title, enums.InventoryStatusActive).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// CloseMissingInventory moves the user's active listings whose title is not
// in keep to status. An empty keep closes every active listing.
func (r *repository) CloseMissingInventory(ctx context.Context, userID uuid.UUID, keep []string, status enums.InventoryStatus) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InventoryHistory{}).
		Where("user_id = ? AND status = ?", userID, enums.InventoryStatusActive)
	if len(keep) > 0 {
		query = query.Where("item_title NOT IN ?", keep)
	}
	result := query.Update("status", status)
	return result.RowsAffected, result.Error
}

// InsertSale reports false without error when the sale was stored before.
func (r *repository) InsertSale(ctx context.Context, row *models.SalesHistory) (bool, error) {
	err := r.db.WithContext(ctx).Create(row).Error
	if db.IsUniqueViolation(err, "") {
		return false, nil
	}
	return err == nil, err
}

// InsertUnsold reports false without error when the listing was stored before.
func (r *repository) InsertUnsold(ctx context.Context, row *models.UnsoldHistory) (bool, error) {
	err := r.db.WithContext(ctx).Create(row).Error
	if db.IsUniqueViolation(err, "") {
		return false, nil
	}
	return err == nil, err
}

func (r *repository) ListInventory(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.InventoryHistory, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("snapshot_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("snapshot_date <= ?", filter.To)
	}
	var rows []models.InventoryHistory
	err := query.Order("snapshot_date DESC, item_title ASC").Limit(filter.Limit).Find(&rows).Error
	return rows, err
}

func (r *repository) ListSales(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.SalesHistory, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !filter.From.IsZero() {
		query = query.Where("sold_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("sold_date <= ?", filter.To)
	}
	var rows []models.SalesHistory
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "sold_date"}, Desc: true}).
		Order("created_at DESC").
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListUnsold(ctx context.Context, userID uuid.UUID, filter Filter) ([]models.UnsoldHistory, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !filter.From.IsZero() {
		query = query.Where("ended_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("ended_date <= ?", filter.To)
	}
	var rows []models.UnsoldHistory
	err := query.Order("ended_date DESC, created_at DESC").Limit(filter.Limit).Find(&rows).Error
	return rows, err
}

func (r *repository) Count(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (int64, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch kind {
	case enums.DataKindInventory:
		query = query.Model(&models.InventoryHistory{}).Where("status = ?", enums.InventoryStatusActive)
	case enums.DataKindSold:
		query = query.Model(&models.SalesHistory{})
	case enums.DataKindUnsold:
		query = query.Model(&models.UnsoldHistory{})
	default:
		return 0, fmt.Errorf("unsupported data kind %q", kind)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *repository) TouchSyncStatus(ctx context.Context, userID uuid.UUID, kind enums.DataKind, total int64, at time.Time) error {
	status := models.DataSyncStatus{UserID: userID, UpdatedAt: at}
	var columns []string
	switch kind {
	case enums.DataKindInventory:
		status.LastInventorySync, status.TotalInventoryItems = &at, int(total)
		columns = []string{"last_inventory_sync", "total_inventory_items"}
	case enums.DataKindSold:
		status.LastSalesSync, status.TotalSales = &at, int(total)
		columns = []string{"last_sales_sync", "total_sales"}
	case enums.DataKindUnsold:
		status.LastUnsoldSync, status.TotalUnsold = &at, int(total)
		columns = []string{"last_unsold_sync", "total_unsold"}
	default:
		return fmt.Errorf("unsupported data kind %q", kind)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(&status).Error
}

func (r *repository) SyncStatus(ctx context.Context, userID uuid.UUID) (*models.DataSyncStatus, error) {
	var status models.DataSyncStatus
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *repository) CreateUpload(ctx context.Context, upload *models.Upload) error {
	return r.db.WithContext(ctx).Create(upload).Error
}

func (r *repository) ListUploads(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error) {
	var uploads []models.Upload
	err := r.db.WithContext(ctx).
		Omit("records").
		Where("user_id = ?", userID).
		Order("upload_date DESC").
		Limit(limit).
		Find(&uploads).Error
	return uploads, err
}

func (r *repository) LatestUpload(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		Order("upload_date DESC").
		Take(&upload).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

// DeleteUploadsBefore removes uploads older than cutoff, keeping the newest
// upload of each kind per user so its records stay readable.
func (r *repository) DeleteUploadsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("upload_date < ?", cutoff).
		Where("upload_date < (SELECT MAX(latest.upload_date) FROM uploads latest WHERE latest.user_id = uploads.user_id AND latest.kind = uploads.kind)").
		Delete(&models.Upload{})
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	for _, model := range []any{
		&models.InventoryHistory{},
		&models.SalesHistory{},
		&models.UnsoldHistory{},
		&models.DataSyncStatus{},
		&models.Upload{},
	} {
		if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}
