package controllers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/customers"
	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/internal/inventory"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/models"
	"github.com/angelmondragon/resellernumbers-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

type testHistoryService struct {
	history.Service

	inventoryFn func(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.InventoryRecord, error)
	salesFn     func(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.SoldRecord, error)
	statusFn    func(ctx context.Context, userID uuid.UUID) (*models.DataSyncStatus, error)
	uploadsFn   func(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error)
	latestFn    func(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (*models.Upload, error)
	clearFn     func(ctx context.Context, userID uuid.UUID) error
}

func (s *testHistoryService) Inventory(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.InventoryRecord, error) {
	if s.inventoryFn != nil {
		return s.inventoryFn(ctx, userID, filter)
	}
	return nil, nil
}

func (s *testHistoryService) Sales(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.SoldRecord, error) {
	if s.salesFn != nil {
		return s.salesFn(ctx, userID, filter)
	}
	return nil, nil
}

func (s *testHistoryService) Unsold(context.Context, uuid.UUID, history.Filter) ([]ingest.UnsoldRecord, error) {
	return nil, nil
}

func (s *testHistoryService) SyncStatus(ctx context.Context, userID uuid.UUID) (*models.DataSyncStatus, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, userID)
	}
	return &models.DataSyncStatus{UserID: userID}, nil
}

func (s *testHistoryService) Uploads(ctx context.Context, userID uuid.UUID, limit int) ([]models.Upload, error) {
	if s.uploadsFn != nil {
		return s.uploadsFn(ctx, userID, limit)
	}
	return nil, nil
}

func (s *testHistoryService) LatestUpload(ctx context.Context, userID uuid.UUID, kind enums.DataKind) (*models.Upload, error) {
	if s.latestFn != nil {
		return s.latestFn(ctx, userID, kind)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no upload")
}

func (s *testHistoryService) ClearAll(ctx context.Context, userID uuid.UUID) error {
	if s.clearFn != nil {
		return s.clearFn(ctx, userID)
	}
	return nil
}

type testAnalyticsService struct {
	salesFn     func(ctx context.Context, userID uuid.UUID, r analytics.Range) (*analytics.SalesReport, error)
	dashboard   *analytics.Dashboard
	invalidated []uuid.UUID
}

func (s *testAnalyticsService) Inventory(context.Context, uuid.UUID) (*inventory.Summary, error) {
	return &inventory.Summary{}, nil
}

func (s *testAnalyticsService) Sales(ctx context.Context, userID uuid.UUID, r analytics.Range) (*analytics.SalesReport, error) {
	if s.salesFn != nil {
		return s.salesFn(ctx, userID, r)
	}
	return &analytics.SalesReport{}, nil
}

func (s *testAnalyticsService) Customers(context.Context, uuid.UUID) (*customers.Summary, error) {
	return &customers.Summary{}, nil
}

func (s *testAnalyticsService) Collections(context.Context, uuid.UUID) (*analytics.CollectionsReport, error) {
	return &analytics.CollectionsReport{}, nil
}

func (s *testAnalyticsService) Dashboard(context.Context, uuid.UUID) (*analytics.Dashboard, error) {
	if s.dashboard != nil {
		return s.dashboard, nil
	}
	return &analytics.Dashboard{GeneratedAt: time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (s *testAnalyticsService) Invalidate(_ context.Context, userID uuid.UUID) error {
	s.invalidated = append(s.invalidated, userID)
	return nil
}
