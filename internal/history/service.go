package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/resellernumbers-backend/pkg/db/types"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
	"github.com/angelmondragon/resellernumbers-backend/pkg/redis"
)

const (
	DefaultBatchSize  = 100
	DefaultBatchPause = 100 * time.Millisecond
	DefaultQueryLimit = 1000
	defaultLockTTL    = 5 * time.Minute
)

// Unbounded as a Filter.Limit returns every matching row.
const Unbounded = -1

// Filter narrows a history query. Zero values mean "no bound"; a zero Limit
// falls back to the configured query limit.
type Filter struct {
	From   time.Time
	To     time.Time
	Limit  int
	Status enums.InventoryStatus
}

// SyncResult counts what one sync did with the submitted records.
type SyncResult struct {
	Kind       enums.DataKind `json:"kind"`
	New        int            `json:"new"`
	Updated    int            `json:"updated"`
	Unchanged  int            `json:"unchanged"`
	Duplicates int            `json:"duplicates"`
	Skipped    int            `json:"skipped"`
	Errors     int            `json:"errors"`
	// Closed counts active inventory rows marked sold or ended by this sync,
	// including listings missing from a newer inventory upload.
	Closed int `json:"closed_listings"`
}

// Success mirrors the persistence contract: a sync succeeds when no record failed.
func (r SyncResult) Success() bool {
	return r.Errors == 0
}

// UploadSnapshot describes one received CSV file.
type UploadSnapshot struct {
	UserID uuid.UUID
	Kind   enums.DataKind
	Body   []byte
	Stats  ingest.Stats
	// Records is the parsed record slice, stored as the upload's payload.
	Records any
}

// Service syncs normalized records into history and reads them back.
type Service interface {
	SyncInventory(ctx context.Context, userID uuid.UUID, records []ingest.InventoryRecord) (SyncResult, error)
	SyncSales(ctx context.Context, userID uuid.UUID, records []ingest.SoldRecord) (SyncResult, error)
	SyncUnsold(ctx context.Context, userID uuid.UUID, records []ingest.UnsoldRecord) (SyncResult, error)

	Inventory(ctx context.Context, userID uuid.UUID, filter Filter) ([]ingest.InventoryRecord, error)
	Sales(ctx context.Context, userID uuid.UUID, filter Filter) ([]ingest.SoldRecord, error)
	Unsold(ctx context.Context, userID uuid.UUID, filter Filter) ([]ingest.UnsoldRecord, error)

	SyncStatus(ctx context.Context, userID uuid.UUID) (*models.DataSyncStatus, error)
	RecordUpload(ctx context.Context, snapshot UploadSnapshot) (*models.Upload, error)
	Uploads(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error)
	LatestUpload(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (*models.Upload, error)
	PurgeUploads(ctx context.Context, before time.Time) (int64, error)
	ClearAll(ctx context.Context, userID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the history service. Locks, Metrics and Tx are optional.
type ServiceParams struct {
	Repo       Repository
	Tx         txRunner
	Locks      redis.LockStore
	Metrics    *metrics.IngestMetrics
	Logger     *logger.Logger
	BatchSize  int
	BatchPause time.Duration
	LockTTL    time.Duration
	QueryLimit int
	Now        func() time.Time
}

type service struct {
	repo       Repository
	tx         txRunner
	locks      redis.LockStore
	metrics    *metrics.IngestMetrics
	logg       *logger.Logger
	batchSize  int
	batchPause time.Duration
	lockTTL    time.Duration
	queryLimit int
	now        func() time.Time
}

// NewService validates params and applies defaults.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "history repository required")
	}
	svc := &service{
		repo:       params.Repo,
		tx:         params.Tx,
		locks:      params.Locks,
		metrics:    params.Metrics,
		logg:       params.Logger,
		batchSize:  params.BatchSize,
		batchPause: params.BatchPause,
		lockTTL:    params.LockTTL,
		queryLimit: params.QueryLimit,
		now:        params.Now,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.batchSize <= 0 {
		svc.batchSize = DefaultBatchSize
	}
	if svc.batchPause < 0 {
		svc.batchPause = 0
	}
	if svc.lockTTL <= 0 {
		svc.lockTTL = defaultLockTTL
	}
	if svc.queryLimit <= 0 {
		svc.queryLimit = DefaultQueryLimit
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// SyncInventory upserts listings by title. The upload is the seller's full
// active inventory: active rows whose title it no longer carries are ended.
func (s *service) SyncInventory(ctx context.Context, userID uuid.UUID, records []ingest.InventoryRecord) (SyncResult, error) {
	now := s.now().UTC()
	titles := listedTitles(records)
	closeMissing := func(ctx context.Context, result *SyncResult) error {
		if len(titles) == 0 {
			return nil
		}
		closed, err := s.repo.CloseMissingInventory(ctx, userID, titles, enums.InventoryStatusEnded)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "end delisted inventory")
		}
		result.Closed += int(closed)
		return nil
	}
	return s.sync(ctx, userID, enums.DataKindInventory, len(records), closeMissing, func(ctx context.Context, i int, result *SyncResult) error {
		rec := records[i]
		if strings.TrimSpace(rec.Title) == "" {
			result.Skipped++
			return nil
		}
		fresh := inventoryRow(userID, rec, now)
		existing, err := s.repo.FindActiveInventory(ctx, userID, fresh.ItemTitle)
		if err != nil {
			return fmt.Errorf("row %d: lookup %q: %w", i+1, fresh.ItemTitle, err)
		}
		if existing == nil {
			if err := s.repo.CreateInventory(ctx, &fresh); err != nil {
				return fmt.Errorf("row %d: insert %q: %w", i+1, fresh.ItemTitle, err)
			}
			result.New++
			return nil
		}
		changes := inventoryChanges(*existing, fresh)
		if changes == nil {
			result.Unchanged++
			return nil
		}
		if err := s.repo.UpdateInventory(ctx, existing.ID, changes); err != nil {
			return fmt.Errorf("row %d: update %q: %w", i+1, fresh.ItemTitle, err)
		}
		result.Updated++
		return nil
	})
}

func (s *service) SyncSales(ctx context.Context, userID uuid.UUID, records []ingest.SoldRecord) (SyncResult, error) {
	return s.sync(ctx, userID, enums.DataKindSold, len(records), nil, func(ctx context.Context, i int, result *SyncResult) error {
		row := salesRow(userID, records[i])
		inserted, err := s.repo.InsertSale(ctx, &row)
		if err != nil {
			return fmt.Errorf("row %d: insert sale %q: %w", i+1, row.ItemTitle, err)
		}
		if !inserted {
			result.Duplicates++
			return nil
		}
		result.New++
		closed, err := s.repo.CloseActiveInventory(ctx, userID, row.ItemTitle, enums.InventoryStatusSold)
		if err != nil {
			return fmt.Errorf("row %d: mark %q sold: %w", i+1, row.ItemTitle, err)
		}
		result.Closed += int(closed)
		return nil
	})
}

func (s *service) SyncUnsold(ctx context.Context, userID uuid.UUID, records []ingest.UnsoldRecord) (SyncResult, error) {
	return s.sync(ctx, userID, enums.DataKindUnsold, len(records), nil, func(ctx context.Context, i int, result *SyncResult) error {
		row := unsoldRow(userID, records[i])
		inserted, err := s.repo.InsertUnsold(ctx, &row)
		if err != nil {
			return fmt.Errorf("row %d: insert unsold %q: %w", i+1, row.ItemTitle, err)
		}
		if !inserted {
			result.Duplicates++
			return nil
		}
		result.New++
		closed, err := s.repo.CloseActiveInventory(ctx, userID, row.ItemTitle, enums.InventoryStatusEnded)
		if err != nil {
			return fmt.Errorf("row %d: mark %q ended: %w", i+1, row.ItemTitle, err)
		}
		result.Closed += int(closed)
		return nil
	})
}

// sync runs apply for every record in batches under the per-user sync lock,
// then runs finish (when set) and refreshes the user's sync status row for kind.
func (s *service) sync(
	ctx context.Context,
	userID uuid.UUID,
	kind enums.DataKind,
	total int,
	finish func(context.Context, *SyncResult) error,
	apply func(context.Context, int, *SyncResult) error,
) (SyncResult, error) {
	result := SyncResult{Kind: kind}
	if userID == uuid.Nil {
		return result, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	release, err := s.acquire(ctx, userID)
	if err != nil {
		return result, err
	}
	defer release()

	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID.String(), "upload_kind": kind.String(), "records": total})
	started := s.now()

	var rowErrs error
	for start := 0; start < total; start += s.batchSize {
		if start > 0 && s.batchPause > 0 {
			if err := pause(ctx, s.batchPause); err != nil {
				return result, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "history sync interrupted")
			}
		}
		end := start + s.batchSize
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			if err := apply(ctx, i, &result); err != nil {
				result.Errors++
				rowErrs = multierr.Append(rowErrs, err)
			}
		}
	}

	if rowErrs != nil {
		s.logg.Warn(s.logg.WithField(ctx, "errors", multierr.Errors(rowErrs)), "history sync finished with row errors")
		if result.Errors == total-result.Skipped {
			s.observe(result)
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, rowErrs, "history sync failed")
		}
	}

	if finish != nil {
		if err := finish(ctx, &result); err != nil {
			s.observe(result)
			return result, err
		}
	}
	s.observe(result)

	stored, err := s.repo.Count(ctx, userID, kind)
	if err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count history rows")
	}
	if err := s.repo.TouchSyncStatus(ctx, userID, kind, stored, s.now().UTC()); err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sync status")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"new":         result.New,
		"updated":     result.Updated,
		"unchanged":   result.Unchanged,
		"duplicates":  result.Duplicates,
		"skipped":     result.Skipped,
		"closed":      result.Closed,
		"errors":      result.Errors,
		"duration_ms": s.now().Sub(started).Milliseconds(),
	}), "history sync complete")
	return result, nil
}

func (s *service) observe(result SyncResult) {
	kind := result.Kind.String()
	s.metrics.ObserveSync(kind, "new", result.New)
	s.metrics.ObserveSync(kind, "updated", result.Updated)
	s.metrics.ObserveSync(kind, "unchanged", result.Unchanged)
	s.metrics.ObserveSync(kind, "duplicate", result.Duplicates)
	s.metrics.ObserveSync(kind, "skipped", result.Skipped)
	s.metrics.ObserveSync(kind, "closed", result.Closed)
	s.metrics.ObserveSync(kind, "error", result.Errors)
}

// acquire takes the per-user sync lock. Without a lock store it is a no-op.
func (s *service) acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	if s.locks == nil {
		return func() {}, nil
	}
	key := s.locks.LockKey("history-sync:" + userID.String())
	owner := uuid.NewString()
	ok, err := s.locks.SetNX(ctx, key, owner, s.lockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire sync lock")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeSyncInProgress, "history sync already running")
	}
	return func() {
		releaseCtx := context.WithoutCancel(ctx)
		current, err := s.locks.Get(releaseCtx, key)
		if err != nil || current != owner {
			return
		}
		if err := s.locks.Del(releaseCtx, key); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "lock_key", key), "failed to release sync lock")
		}
	}, nil
}

func listedTitles(records []ingest.InventoryRecord) []string {
	seen := make(map[string]struct{}, len(records))
	titles := make([]string, 0, len(records))
	for _, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	return titles
}

func pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *service) limit(filter Filter) Filter {
	if filter.Limit == Unbounded {
		return filter
	}
	if filter.Limit <= 0 || filter.Limit > s.queryLimit {
		filter.Limit = s.queryLimit
	}
	return filter
}

func (s *service) Inventory(ctx context.Context, userID uuid.UUID, filter Filter) ([]ingest.InventoryRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	filter = s.limit(filter)
	if filter.Status == "" {
		filter.Status = enums.InventoryStatusActive
	}
	if !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid inventory status %q", filter.Status))
	}
	rows, err := s.repo.ListInventory(ctx, userID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory history")
	}
	records := make([]ingest.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, inventoryRecord(row))
	}
	return records, nil
}

func (s *service) Sales(ctx context.Context, userID uuid.UUID, filter Filter) ([]ingest.SoldRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListSales(ctx, userID, s.limit(filter))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales history")
	}
	records := make([]ingest.SoldRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, soldRecord(row))
	}
	return records, nil
}

func (s *service) Unsold(ctx context.Context, userID uuid.UUID, filter Filter) ([]ingest.UnsoldRecord, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	rows, err := s.repo.ListUnsold(ctx, userID, s.limit(filter))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unsold history")
	}
	records := make([]ingest.UnsoldRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, unsoldRecord(row))
	}
	return records, nil
}

func (s *service) SyncStatus(ctx context.Context, userID uuid.UUID) (*models.DataSyncStatus, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	status, err := s.repo.SyncStatus(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sync status")
	}
	if status == nil {
		return &models.DataSyncStatus{UserID: userID}, nil
	}
	return status, nil
}

func (s *service) RecordUpload(ctx context.Context, snapshot UploadSnapshot) (*models.Upload, error) {
	if snapshot.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !snapshot.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported data kind %q", snapshot.Kind))
	}
	headers := snapshot.Stats.Headers
	if headers == nil {
		headers = []string{}
	}
	records, err := dbtypes.MarshalRawJSON(snapshot.Records)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upload records")
	}
	upload := &models.Upload{
		ID:          uuid.New(),
		UserID:      snapshot.UserID,
		Kind:        snapshot.Kind,
		Checksum:    Checksum(snapshot.Body),
		ByteSize:    int64(len(snapshot.Body)),
		DataLines:   snapshot.Stats.DataLines,
		RowCount:    snapshot.Stats.Kept,
		DroppedRows: snapshot.Stats.Dropped,
		Headers:     headers,
		Records:     records,
		UploadDate:  s.now().UTC(),
	}
	if err := s.repo.CreateUpload(ctx, upload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record upload")
	}
	return upload, nil
}

func (s *service) Uploads(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if limit <= 0 || limit > s.queryLimit {
		limit = s.queryLimit
	}
	uploads, err := s.repo.ListUploads(ctx, userID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list uploads")
	}
	return uploads, nil
}

// LatestUpload returns the newest upload of kind with its parsed records.
func (s *service) LatestUpload(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (*models.Upload, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported data kind %q", kind))
	}
	upload, err := s.repo.LatestUpload(ctx, userID, kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest upload")
	}
	if upload == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no %s upload yet", kind))
	}
	return upload, nil
}

func (s *service) PurgeUploads(ctx context.Context, before time.Time) (int64, error) {
	if before.IsZero() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cutoff required")
	}
	deleted, err := s.repo.DeleteUploadsBefore(ctx, before)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge uploads")
	}
	return deleted, nil
}

func (s *service) ClearAll(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	release, err := s.acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer release()

	deleteAll := func(repo Repository) error { return repo.DeleteAll(ctx, userID) }
	if s.tx != nil {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error { return deleteAll(s.repo.WithTx(tx)) })
	} else {
		err = deleteAll(s.repo)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear history")
	}
	s.logg.Info(s.logg.WithUserID(ctx, userID.String()), "history cleared")
	return nil
}

// IsSyncInProgress reports whether err came from a concurrent sync holding the lock.
func IsSyncInProgress(err error) bool {
	var typed *pkgerrors.Error
	return errors.As(err, &typed) && typed.Code() == pkgerrors.CodeSyncInProgress
}
