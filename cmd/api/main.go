package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/resellernumbers-backend/api/routes"
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
	"github.com/angelmondragon/resellernumbers-backend/pkg/migrate"
	"github.com/angelmondragon/resellernumbers-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	cfg.Service.Kind = "api"

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Env:         cfg.App.Env,
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	ingestMetrics := metrics.NewIngestMetrics(prometheus.DefaultRegisterer)

	profileService, err := profiles.NewService(profiles.NewRepository(dbClient.DB()), cfg.Auth.TrialPeriod(), nil)
	exitOnErr(logg, "failed to create profile service", err)

	historyService, err := history.NewService(history.ServiceParams{
		Repo:       history.NewRepository(dbClient.DB()),
		Tx:         dbClient,
		Locks:      redisClient,
		Metrics:    ingestMetrics,
		Logger:     logg,
		BatchSize:  cfg.History.SyncBatchSize,
		BatchPause: cfg.History.SyncBatchPause,
		LockTTL:    cfg.History.SyncLockTTL,
		QueryLimit: cfg.History.QueryLimit,
	})
	exitOnErr(logg, "failed to create history service", err)

	collectionService, err := collections.NewService(collections.NewRepository(dbClient.DB()))
	exitOnErr(logg, "failed to create collection service", err)

	metricsService, err := businessmetrics.NewService(businessmetrics.NewRepository(dbClient.DB()))
	exitOnErr(logg, "failed to create business metrics service", err)

	analyticsService, err := analytics.NewService(analytics.ServiceParams{
		History:      historyService,
		Purchases:    collectionService,
		Metrics:      metricsService,
		Cache:        redisClient,
		CacheTTL:     cfg.Analytics.CacheTTL,
		Observer:     ingestMetrics,
		Logger:       logg,
		QualifiedMin: cfg.Analytics.QualifiedCollectionMin,
		PoolUnknown:  cfg.Analytics.PoolUnidentifiedBuyers,
		Location:     cfg.Analytics.Location(),
	})
	exitOnErr(logg, "failed to create analytics service", err)

	uploadService, err := uploads.NewService(historyService, analyticsService, ingestMetrics, logg)
	exitOnErr(logg, "failed to create upload service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			prometheus.DefaultGatherer,
			ingestMetrics,
			profileService,
			uploadService,
			historyService,
			analyticsService,
			collectionService,
			metricsService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(ctx, "api server shut down gracefully")
}

func exitOnErr(logg *logger.Logger, msg string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
