// Package uploads turns a received marketplace CSV into stored history.
package uploads

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
)

// HistoryWriter is the part of the history service an upload writes through.
type HistoryWriter interface {
	SyncInventory(ctx context.Context, userID uuid.UUID, records []ingest.InventoryRecord) (history.SyncResult, error)
	SyncSales(ctx context.Context, userID uuid.UUID, records []ingest.SoldRecord) (history.SyncResult, error)
	SyncUnsold(ctx context.Context, userID uuid.UUID, records []ingest.UnsoldRecord) (history.SyncResult, error)
	RecordUpload(ctx context.Context, snapshot history.UploadSnapshot) (*models.Upload, error)
}

// Invalidator drops cached analytics after new data lands.
type Invalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Result is what one upload did.
type Result struct {
	UploadID uuid.UUID          `json:"upload_id"`
	Kind     enums.DataKind     `json:"kind"`
	Stats    ingest.Stats       `json:"stats"`
	Sync     history.SyncResult `json:"sync"`
}

// Service processes uploads.
type Service interface {
	Process(ctx context.Context, userID uuid.UUID, kind enums.DataKind, csvText string) (*Result, error)
}

type service struct {
	history HistoryWriter
	cache   Invalidator
	metrics *metrics.IngestMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the upload pipeline. cache, m and logg may be nil.
func NewService(hist HistoryWriter, cache Invalidator, m *metrics.IngestMetrics, logg *logger.Logger) (Service, error) {
	if hist == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "history service required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{history: hist, cache: cache, metrics: m, logg: logg, now: time.Now}, nil
}

// Process parses csvText, snapshots the file, syncs the records into history
// and invalidates the user's cached analytics. A format error stops before
// anything is stored.
func (s *service) Process(ctx context.Context, userID uuid.UUID, kind enums.DataKind, csvText string) (result *Result, err error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	ctx = s.logg.WithUploadKind(ctx, kind.String())
	defer func() {
		s.metrics.ObserveUpload(kind.String(), err == nil)
	}()

	started := s.now()
	parsed, err := parse(kind, csvText)
	s.metrics.ObserveParse(kind.String(), s.now().Sub(started))
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveRows(kind.String(), parsed.stats.Kept, parsed.stats.Dropped)

	upload, err := s.history.RecordUpload(ctx, history.UploadSnapshot{
		UserID:  userID,
		Kind:    kind,
		Body:    []byte(csvText),
		Stats:   parsed.stats,
		Records: parsed.records,
	})
	if err != nil {
		return nil, err
	}

	sync, err := parsed.sync(ctx, s.history, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Invalidate(ctx, userID); cacheErr != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", cacheErr.Error()), "analytics cache invalidation failed")
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"upload_id": upload.ID.String(),
		"kept":      parsed.stats.Kept,
		"dropped":   parsed.stats.Dropped,
		"new":       sync.New,
	}), "upload processed")

	return &Result{UploadID: upload.ID, Kind: kind, Stats: parsed.stats, Sync: sync}, nil
}

type parsedUpload struct {
	stats   ingest.Stats
	records any
	sync    func(ctx context.Context, h HistoryWriter, userID uuid.UUID) (history.SyncResult, error)
}

func parse(kind enums.DataKind, csvText string) (*parsedUpload, error) {
	switch kind {
	case enums.DataKindInventory:
		records, stats, err := ingest.ParseInventory(csvText)
		if err != nil {
			return nil, err
		}
		return &parsedUpload{stats: stats, records: records, sync: func(ctx context.Context, h HistoryWriter, userID uuid.UUID) (history.SyncResult, error) {
			return h.SyncInventory(ctx, userID, records)
		}}, nil
	case enums.DataKindSold:
		records, stats, err := ingest.ParseSold(csvText)
		if err != nil {
			return nil, err
		}
		return &parsedUpload{stats: stats, records: records, sync: func(ctx context.Context, h HistoryWriter, userID uuid.UUID) (history.SyncResult, error) {
			return h.SyncSales(ctx, userID, records)
		}}, nil
	case enums.DataKindUnsold:
		records, stats, err := ingest.ParseUnsold(csvText)
		if err != nil {
			return nil, err
		}
		return &parsedUpload{stats: stats, records: records, sync: func(ctx context.Context, h HistoryWriter, userID uuid.UUID) (history.SyncResult, error) {
			return h.SyncUnsold(ctx, userID, records)
		}}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported data kind "+string(kind))
}
