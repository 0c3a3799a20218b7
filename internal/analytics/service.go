package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/resellernumbers-backend/internal/customers"
	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/internal/ingest"
	"github.com/angelmondragon/resellernumbers-backend/internal/inventory"
	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/internal/sales"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
	"github.com/angelmondragon/resellernumbers-backend/pkg/redis"
)

// HistoryReader is the read side of the history store.
type HistoryReader interface {
	Inventory(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.InventoryRecord, error)
	Sales(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.SoldRecord, error)
	Unsold(ctx context.Context, userID uuid.UUID, filter history.Filter) ([]ingest.UnsoldRecord, error)
}

// PurchaseSource lists the purchases profitability joins against.
type PurchaseSource interface {
	Purchases(ctx context.Context, userID uuid.UUID) ([]profitability.Purchase, error)
}

// MetricsSource loads the seller's cost assumptions.
type MetricsSource interface {
	Get(ctx context.Context, userID uuid.UUID) (profitability.BusinessMetrics, error)
}

// Service computes the analytics reports over a user's stored history.
type Service interface {
	Inventory(ctx context.Context, userID uuid.UUID) (*inventory.Summary, error)
	Sales(ctx context.Context, userID uuid.UUID, r Range) (*SalesReport, error)
	Customers(ctx context.Context, userID uuid.UUID) (*customers.Summary, error)
	Collections(ctx context.Context, userID uuid.UUID) (*CollectionsReport, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error)
	// Invalidate drops every cached report for the user.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams wires the analytics service. Cache, Metrics and Logger are optional.
type ServiceParams struct {
	History      HistoryReader
	Purchases    PurchaseSource
	Metrics      MetricsSource
	Cache        redis.CacheStore
	CacheTTL     time.Duration
	Observer     *metrics.IngestMetrics
	Logger       *logger.Logger
	QualifiedMin int
	PoolUnknown  bool
	Location     *time.Location
	Now          func() time.Time
}

type service struct {
	history      HistoryReader
	purchases    PurchaseSource
	metrics      MetricsSource
	cache        *reportCache
	logg         *logger.Logger
	qualifiedMin int
	customerOpts customers.Options
	loc          *time.Location
	now          func() time.Time
}

// NewService validates params and applies defaults.
func NewService(params ServiceParams) (Service, error) {
	if params.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "history reader required")
	}
	if params.Purchases == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "purchase source required")
	}
	if params.Metrics == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "business metrics source required")
	}
	svc := &service{
		history:      params.History,
		purchases:    params.Purchases,
		metrics:      params.Metrics,
		logg:         params.Logger,
		qualifiedMin: params.QualifiedMin,
		customerOpts: customers.Options{PoolUnknown: params.PoolUnknown},
		loc:          params.Location,
		now:          params.Now,
	}
	if svc.logg == nil {
		svc.logg = logger.Nop()
	}
	if svc.qualifiedMin <= 0 {
		svc.qualifiedMin = sales.DefaultQualifiedMinSales
	}
	if svc.loc == nil {
		svc.loc = time.UTC
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	svc.cache = newReportCache(params.Cache, params.CacheTTL, params.Observer, svc.logg)
	return svc, nil
}

func (s *service) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *service) Inventory(ctx context.Context, userID uuid.UUID) (*inventory.Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return cached(ctx, s.cache, userID, "inventory", func() (*inventory.Summary, error) {
		records, err := s.history.Inventory(ctx, userID, history.Filter{Limit: history.Unbounded})
		if err != nil {
			return nil, err
		}
		summary := inventory.Analyze(records, s.clock())
		return &summary, nil
	})
}

func (s *service) Sales(ctx context.Context, userID uuid.UUID, r Range) (*SalesReport, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range end is before its start")
	}
	return cached(ctx, s.cache, userID, "sales:"+r.key(), func() (*SalesReport, error) {
		var (
			sold   []ingest.SoldRecord
			unsold []ingest.UnsoldRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sold, err = s.history.Sales(gctx, userID, history.Filter{From: r.From, To: r.To, Limit: history.Unbounded})
			return err
		})
		g.Go(func() error {
			var err error
			unsold, err = s.history.Unsold(gctx, userID, history.Filter{From: r.From, To: r.To, Limit: history.Unbounded})
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return s.salesReport(r, sold, unsold), nil
	})
}

func (s *service) salesReport(r Range, sold []ingest.SoldRecord, unsold []ingest.UnsoldRecord) *SalesReport {
	return &SalesReport{
		Range:       r,
		Summary:     sales.Analyze(sold, s.clock()),
		SellThrough: sales.SellThrough(sold, unsold),
	}
}

func (s *service) Customers(ctx context.Context, userID uuid.UUID) (*customers.Summary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return cached(ctx, s.cache, userID, "customers", func() (*customers.Summary, error) {
		sold, err := s.history.Sales(ctx, userID, history.Filter{Limit: history.Unbounded})
		if err != nil {
			return nil, err
		}
		summary := customers.Analyze(sold, s.customerOpts)
		return &summary, nil
	})
}

func (s *service) Collections(ctx context.Context, userID uuid.UUID) (*CollectionsReport, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return cached(ctx, s.cache, userID, "collections", func() (*CollectionsReport, error) {
		var (
			sold      []ingest.SoldRecord
			purchases []profitability.Purchase
			bm        profitability.BusinessMetrics
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			sold, err = s.history.Sales(gctx, userID, history.Filter{Limit: history.Unbounded})
			return err
		})
		g.Go(func() error {
			var err error
			purchases, err = s.purchases.Purchases(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			bm, err = s.metrics.Get(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return s.collectionsReport(sold, purchases, bm), nil
	})
}

func (s *service) collectionsReport(sold []ingest.SoldRecord, purchases []profitability.Purchase, bm profitability.BusinessMetrics) *CollectionsReport {
	all := sales.Collections(sold)
	return &CollectionsReport{
		Collections:   all,
		Qualified:     sales.QualifiedCollections(all, s.qualifiedMin),
		Profitability: profitability.ComputeAll(all, purchases, bm, s.qualifiedMin),
		Metrics:       bm,
	}
}

// Dashboard loads history once and derives every report from it.
func (s *service) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	return cached(ctx, s.cache, userID, "dashboard", func() (*Dashboard, error) {
		var (
			listings  []ingest.InventoryRecord
			sold      []ingest.SoldRecord
			unsold    []ingest.UnsoldRecord
			purchases []profitability.Purchase
			bm        profitability.BusinessMetrics
		)
		all := history.Filter{Limit: history.Unbounded}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { listings, err = s.history.Inventory(gctx, userID, all); return })
		g.Go(func() (err error) { sold, err = s.history.Sales(gctx, userID, all); return })
		g.Go(func() (err error) { unsold, err = s.history.Unsold(gctx, userID, all); return })
		g.Go(func() (err error) { purchases, err = s.purchases.Purchases(gctx, userID); return })
		g.Go(func() (err error) { bm, err = s.metrics.Get(gctx, userID); return })
		if err := g.Wait(); err != nil {
			return nil, err
		}

		now := s.clock()
		return &Dashboard{
			GeneratedAt: now,
			Inventory:   inventory.Analyze(listings, now),
			Sales:       *s.salesReport(Range{}, sold, unsold),
			Customers:   customers.Analyze(sold, s.customerOpts),
			Collections: *s.collectionsReport(sold, purchases, bm),
		}, nil
	})
}

func (s *service) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return s.cache.invalidate(ctx, userID)
}
