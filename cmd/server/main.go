// Server entrypoint. Wires stores, the trace pipeline, and the wiring API,
// then runs until interrupted. Business logic lives in internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"answerwire/internal/configreader"
	readshandler "answerwire/internal/configreader/handler"
	readermetrics "answerwire/internal/configreader/metrics"
	"answerwire/internal/content"
	"answerwire/internal/enforcement"
	enforcementhandler "answerwire/internal/enforcement/handler"
	"answerwire/internal/health"
	httpapi "answerwire/internal/http"
	"answerwire/internal/platform/config"
	"answerwire/internal/platform/httpserver"
	"answerwire/internal/platform/kafka"
	"answerwire/internal/platform/logger"
	platformredis "answerwire/internal/platform/redis"
	"answerwire/internal/registry"
	"answerwire/internal/report"
	reporthandler "answerwire/internal/report/handler"
	reportmetrics "answerwire/internal/report/metrics"
	"answerwire/internal/resolve"
	"answerwire/internal/safety"
	"answerwire/internal/tenant"
	tenantstore "answerwire/internal/tenant/store"
	"answerwire/internal/tier"
	"answerwire/internal/trace"
	tracemetrics "answerwire/internal/trace/metrics"
	"answerwire/pkg/platform/middleware/admin"
)

const (
	traceQueueCapacity = 4096
	contentCacheTTL    = 5 * time.Minute
	shutdownTimeout    = 10 * time.Second
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Environment, logger.ParseLevel(cfg.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness := map[string]func(context.Context) error{}

	// Stores. Postgres when configured, in-memory for local runs.
	var (
		tenants tenantstore.Store
		catalog content.Catalog
	)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		tenants = tenantstore.NewPostgres(db)
		catalog = content.NewPostgres(db)
		readiness["postgres"] = db.PingContext
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		tenants = tenantstore.NewInMemory()
		catalog = content.NewInMemory()
	}

	// Redis backs the enforcement override store and the content cache.
	var overrides enforcement.OverrideStore = enforcement.NewInMemory()
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		overrides = enforcement.NewRedis(redisClient.Client)
		catalog = content.NewCached(catalog, redisClient.Client, contentCacheTTL, log)
		readiness["redis"] = redisClient.Health
	}

	processDefault := enforcement.DefaultForEnvironment(cfg.Environment)
	if cfg.EnforcementDefault != "" {
		mode, err := enforcement.Parse(cfg.EnforcementDefault)
		if err != nil {
			return fmt.Errorf("invalid ENFORCEMENT_DEFAULT: %w", err)
		}
		processDefault = mode
	}
	enf := enforcement.NewResolver(overrides, processDefault, log)

	snap := registry.Load()
	resolver := resolve.New(snap, registry.LoadBridges())

	// Trace pipeline: bounded queue drained into Kafka when brokers are
	// configured, an in-memory sink otherwise.
	traceM := tracemetrics.New()
	publisher := trace.NewPublisher(traceQueueCapacity, log, traceM)
	var sink trace.Sink = trace.NewInMemory()
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.TraceTopic)
		if err != nil {
			return fmt.Errorf("connect kafka: %w", err)
		}
		defer producer.Close()
		sink = trace.NewKafkaSink(producer, traceM)
	} else {
		log.Warn("KAFKA_BROKERS not set, trace events stay in memory")
	}
	worker := trace.NewWorker(sink, publisher.Inbox(), log)

	engine := health.NewEngine(snap, registry.LoadConsumption(), resolver, catalog, log)
	reportSvc, err := report.New(
		tenants,
		tenant.NewSeeder(snap, tenants, log),
		engine,
		safety.New(snap, log),
		tier.NewGate(tier.Load(), resolver),
		resolver,
		snap,
		report.WithLogger(log),
		report.WithMetrics(reportmetrics.New()),
		report.WithEnvironment(cfg.Environment),
	)
	if err != nil {
		return err
	}

	factory := configreader.NewFactory(snap, resolver, enf, publisher, log, readermetrics.New())

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:      log,
		Admin:       admin.NewVerifier(cfg.JWTSigningKey, cfg.AdminAPIKeyHash),
		Report:      reporthandler.New(reportSvc, log),
		Enforcement: enforcementhandler.New(overrides, enf, log),
		Reads:       readshandler.New(factory, tenants, log),
		Readiness:   readiness,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := worker.Run(gctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting answerwire",
			"addr", cfg.Addr,
			"environment", cfg.Environment,
			"registry_version", snap.Version(),
			"enforcement_default", string(processDefault),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
