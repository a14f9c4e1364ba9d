package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/velmart/supplyline-backend/api/routes"
	"github.com/velmart/supplyline-backend/internal/catalog"
	"github.com/velmart/supplyline-backend/internal/launchers"
	"github.com/velmart/supplyline-backend/internal/ledger"
	"github.com/velmart/supplyline-backend/internal/reconciler"
	"github.com/velmart/supplyline-backend/internal/supplyhistory"
	"github.com/velmart/supplyline-backend/pkg/config"
	"github.com/velmart/supplyline-backend/pkg/db"
	"github.com/velmart/supplyline-backend/pkg/logger"
	"github.com/velmart/supplyline-backend/pkg/metrics"
	"github.com/velmart/supplyline-backend/pkg/migrate"
	"github.com/velmart/supplyline-backend/pkg/redis"
)

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

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cycleMetrics := metrics.NewSupplyCycleMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())

	ledgerService, err := ledger.NewService(dbClient.DB(), ledger.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}
	launcherService, err := launchers.NewService(launchers.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create launcher service", err)
		os.Exit(1)
	}
	historyService, err := supplyhistory.NewService(supplyhistory.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	importClient, err := reconciler.NewHTTPImportClient(cfg.Supply.ImportBaseURL, cfg.Supply.ImportTimeout)
	if err != nil {
		logg.Error(context.Background(), "failed to create import client", err)
		os.Exit(1)
	}
	locker, err := reconciler.NewRedisLocker(redisClient, cfg.Supply.LockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create supply locker", err)
		os.Exit(1)
	}
	reconcilerService, err := reconciler.NewService(
		launchers.NewRepository(dbClient.DB()),
		supplyhistory.NewRepository(dbClient.DB()),
		importClient,
		locker,
		cycleMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciler service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			routes.Pingers{DB: dbClient, Redis: redisClient},
			registry,
			ledgerService,
			launcherService,
			historyService,
			reconcilerService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
