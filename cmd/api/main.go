package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lcorp/storefront/api/controllers"
	"github.com/lcorp/storefront/api/routes"
	"github.com/lcorp/storefront/internal/cart"
	"github.com/lcorp/storefront/internal/checkout"
	"github.com/lcorp/storefront/internal/cron"
	"github.com/lcorp/storefront/internal/customers"
	"github.com/lcorp/storefront/internal/inventory"
	"github.com/lcorp/storefront/internal/orders"
	"github.com/lcorp/storefront/internal/session"
	"github.com/lcorp/storefront/pkg/backend"
	"github.com/lcorp/storefront/pkg/config"
	"github.com/lcorp/storefront/pkg/db"
	"github.com/lcorp/storefront/pkg/events"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/metrics"
	"github.com/lcorp/storefront/pkg/migrate"
	"github.com/lcorp/storefront/pkg/redis"
	"github.com/lcorp/storefront/pkg/telemetry"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(cfg.Telemetry, os.Stdout)
	requireResource(ctx, logg, "telemetry", err)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logg.Error(context.Background(), "error flushing traces", err)
		}
	}()

	ready := map[string]controllers.Pinger{}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		ready["redis"] = redisClient
	}

	var dbClient *db.Client
	if strings.EqualFold(strings.TrimSpace(cfg.Storage.Driver), config.StorageDriverSQL) {
		dbClient, err = db.New(ctx, cfg.DB, logg)
		requireResource(ctx, logg, "database", err)
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()
		requireResource(ctx, logg, "migrations", migrate.MaybeRun(ctx, cfg, logg, dbClient))
		ready["database"] = dbClient
	}

	store, err := kvstore.Open(cfg, redisClient, dbClient)
	requireResource(ctx, logg, "session store", err)
	ready["session_store"] = store

	backendOpts := []backend.Option{backend.WithTimeout(cfg.Backend.Timeout)}
	if cfg.Telemetry.TracingEnabled {
		backendOpts = append(backendOpts, backend.WithTracing())
	}
	api, err := backend.NewClient(cfg.Backend.URL, backendOpts...)
	requireResource(ctx, logg, "backend client", err)
	ready["backend"] = api

	var publisher events.Publisher = events.Noop{}
	if cfg.Events.Enabled() {
		js, err := events.NewNATS(ctx, cfg.Events, logg)
		requireResource(ctx, logg, "nats", err)
		publisher = js
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logg.Error(context.Background(), "error closing event publisher", err)
		}
	}()

	registry := metrics.NewRegistry()
	locks := session.NewLocks()

	sessions, err := session.NewManager(store, api, locks, logg)
	requireResource(ctx, logg, "session manager", err)
	cartSvc, err := cart.NewService(store, api, locks, logg)
	requireResource(ctx, logg, "cart service", err)
	pricing, err := checkout.PricingFromConfig(cfg.Checkout)
	requireResource(ctx, logg, "checkout pricing", err)
	sequencer := checkout.NewSequencer(api, pricing, metrics.NewCheckoutMetrics(registry), publisher, logg)
	checkoutSvc, err := checkout.NewService(store, api, locks, sequencer, logg)
	requireResource(ctx, logg, "checkout service", err)
	inventorySvc, err := inventory.NewService(api, logg)
	requireResource(ctx, logg, "inventory service", err)
	ordersSvc, err := orders.NewService(api, logg)
	requireResource(ctx, logg, "orders service", err)
	customersSvc, err := customers.NewService(api, sessions, logg)
	requireResource(ctx, logg, "customers service", err)

	startPurge(ctx, cfg, logg, store, redisClient, registry)

	deps := routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Sessions:  sessions,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
		Inventory: inventorySvc,
		Orders:    ordersSvc,
		Customers: customersSvc,
		Registry:  registry,
		Ready:     ready,
	}
	if redisClient != nil {
		deps.Redis = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
		"backend": api.BaseURL(),
	})
	logg.Info(logCtx, "starting storefront gateway")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(logCtx, "storefront gateway stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down storefront gateway")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}

// startPurge runs the expired-session sweep for stores that lack native expiry.
func startPurge(ctx context.Context, cfg *config.Config, logg *logger.Logger, store kvstore.Store, redisClient *redis.Client, registry *prometheus.Registry) {
	purger, ok := store.(cron.Purger)
	if !ok {
		return
	}
	job, err := cron.NewSessionPurgeJob(logg, purger)
	requireResource(ctx, logg, "session purge job", err)

	params := cron.ServiceParams{
		Logger:   logg,
		Jobs:     []cron.Job{job},
		Metrics:  metrics.NewJobMetrics(registry),
		Interval: cfg.Storage.PurgeInterval,
	}
	if redisClient != nil {
		lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("session-purge"), cfg.Storage.PurgeInterval)
		requireResource(ctx, logg, "cron lock", err)
		params.Lock = lock
	}
	svc, err := cron.NewService(params)
	requireResource(ctx, logg, "cron service", err)

	go func() {
		if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "session purge stopped", err)
		}
	}()
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
