package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velmart/supplyline-backend/internal/launchers"
	"github.com/velmart/supplyline-backend/internal/reconciler"
	"github.com/velmart/supplyline-backend/internal/supplyhistory"
	"github.com/velmart/supplyline-backend/internal/supplytrigger"
	"github.com/velmart/supplyline-backend/pkg/config"
	"github.com/velmart/supplyline-backend/pkg/db"
	"github.com/velmart/supplyline-backend/pkg/logger"
	"github.com/velmart/supplyline-backend/pkg/metrics"
	"github.com/velmart/supplyline-backend/pkg/pubsub"
	"github.com/velmart/supplyline-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "supply-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	cfg.Service.Kind = "supply-worker"

	logg = logger.New(logger.Options{
		ServiceName: "supply-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer pubsubClient.Close()

	cycleMetrics := metrics.NewSupplyCycleMetrics(prometheus.DefaultRegisterer)

	importClient, err := reconciler.NewHTTPImportClient(cfg.Supply.ImportBaseURL, cfg.Supply.ImportTimeout)
	requireResource(ctx, logg, "import client", err)

	locker, err := reconciler.NewRedisLocker(redisClient, cfg.Supply.LockTTL)
	requireResource(ctx, logg, "supply locker", err)

	reconcilerService, err := reconciler.NewService(
		launchers.NewRepository(dbClient.DB()),
		supplyhistory.NewRepository(dbClient.DB()),
		importClient,
		locker,
		cycleMetrics,
		logg,
	)
	requireResource(ctx, logg, "reconciler service", err)

	triggerConsumer, err := supplytrigger.NewConsumer(
		reconcilerService,
		pubsubClient.SupplySubscription(),
		logg,
	)
	requireResource(ctx, logg, "supply trigger consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"serviceKind": cfg.Service.Kind,
		"env":         cfg.App.Env,
	})
	logg.Info(runCtx, "supply worker ready")

	if err := triggerConsumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "supply worker not working", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
