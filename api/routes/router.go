package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/resellernumbers-backend/api/controllers"
	"github.com/angelmondragon/resellernumbers-backend/api/middleware"
	"github.com/angelmondragon/resellernumbers-backend/internal/analytics"
	"github.com/angelmondragon/resellernumbers-backend/internal/businessmetrics"
	"github.com/angelmondragon/resellernumbers-backend/internal/collections"
	"github.com/angelmondragon/resellernumbers-backend/internal/history"
	"github.com/angelmondragon/resellernumbers-backend/internal/profiles"
	"github.com/angelmondragon/resellernumbers-backend/internal/uploads"
	"github.com/angelmondragon/resellernumbers-backend/pkg/config"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db"
	"github.com/angelmondragon/resellernumbers-backend/pkg/logger"
	"github.com/angelmondragon/resellernumbers-backend/pkg/metrics"
	"github.com/angelmondragon/resellernumbers-backend/pkg/redis"
)

// redisClient is the slice of the redis client the router needs.
type redisClient interface {
	redis.Pinger
	redis.IdempotencyStore
	redis.RateLimiter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisC redisClient,
	gatherer prometheus.Gatherer,
	ingestMetrics *metrics.IngestMetrics,
	profileService profiles.Service,
	uploadService uploads.Service,
	historyService history.Service,
	analyticsService analytics.Service,
	collectionService collections.Service,
	metricsService businessmetrics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins...),
	)

	// typed nils must not reach the readiness probe
	var dbPinger, redisPinger controllers.Pinger
	if dbP != nil {
		dbPinger = dbP
	}
	var idem redis.IdempotencyStore
	var limiter redis.RateLimiter
	if redisC != nil {
		redisPinger, idem, limiter = redisC, redisC, redisC
	}

	maxBytes := cfg.App.MaxUploadBytes()
	uploadPolicy := middleware.NewRateLimitPolicy("uploads", cfg.FeatureFlags.RateLimitUploads, time.Minute)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, profileService, logg))
		r.Use(middleware.Idempotency(idem, logg))

		r.Get("/me", controllers.ProfileMe(profileService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireApproved(profileService, logg))

			r.With(middleware.RateLimit(uploadPolicy, limiter, logg)).
				Post("/uploads/{kind}", controllers.Upload(uploadService, maxBytes, logg))
			r.Get("/uploads", controllers.UploadList(historyService, logg))
			r.Get("/uploads/latest/{kind}", controllers.LatestUpload(historyService, logg))
			r.Post("/analyze/{kind}", controllers.Analyze(cfg.Analytics, maxBytes, ingestMetrics, logg))

			r.Get("/sync-status", controllers.SyncStatus(historyService, logg))
			r.Route("/history", func(r chi.Router) {
				r.Get("/{kind}", controllers.HistoryList(historyService, cfg.History.QueryLimit, logg))
				r.Delete("/", controllers.HistoryClear(historyService, analyticsService, logg))
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/inventory", controllers.AnalyticsInventory(analyticsService, logg))
				r.Get("/sales", controllers.AnalyticsSales(analyticsService, logg))
				r.Get("/customers", controllers.AnalyticsCustomers(analyticsService, logg))
				r.Get("/collections", controllers.AnalyticsCollections(analyticsService, logg))
				r.Get("/dashboard", controllers.AnalyticsDashboard(analyticsService, logg))
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", controllers.CollectionList(collectionService, logg))
				r.Post("/", controllers.CollectionCreate(collectionService, analyticsService, logg))
				r.Put("/{collectionId}", controllers.CollectionUpdate(collectionService, analyticsService, logg))
				r.Delete("/{collectionId}", controllers.CollectionDelete(collectionService, analyticsService, logg))
			})

			r.Get("/business-metrics", controllers.BusinessMetricsGet(metricsService, logg))
			r.Put("/business-metrics", controllers.BusinessMetricsSave(metricsService, analyticsService, logg))

			r.Route("/reports", func(r chi.Router) {
				r.Get("/sales.csv", controllers.ReportSalesCSV(historyService, logg))
				r.Get("/summary.txt", controllers.ReportSummary(analyticsService, logg))
			})
		})
	})

	return r
}
