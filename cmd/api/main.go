package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/wms-platform/putaway-service/internal/config"
	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
	"github.com/wms-platform/putaway-service/pkg/outbox"
	"github.com/wms-platform/putaway-service/pkg/tracing"
)

const serviceName = "putaway-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.DefaultConfig(serviceName)).WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}

	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.ParseLevel(cfg.LogLevel)
	logConfig.Environment = cfg.Environment
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting putaway-service API",
		"store", cfg.StoreBackend,
		"eventSink", cfg.EventSink,
		"ranking", cfg.RankingStrategy,
	)

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Service stopped with error")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize OpenTelemetry tracing
	tracingConfig := tracing.DefaultConfig(serviceName)
	tracingConfig.OTLPEndpoint = cfg.Tracing.Endpoint
	tracingConfig.Environment = cfg.Environment
	tracingConfig.Enabled = cfg.Tracing.Enabled

	tracerProvider, err := tracing.Initialize(ctx, tracingConfig)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize tracing")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Failed to shutdown tracer")
			}
		}()
		logger.Info("Tracing initialized", "endpoint", tracingConfig.OTLPEndpoint, "enabled", tracingConfig.Enabled)
	}

	m := metrics.New(metrics.DefaultConfig(serviceName))

	store, err := openStore(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			logger.WithError(err).Warn("Failed to close store")
		}
	}()

	ranker, err := domain.NewRanker(cfg.RankingStrategy)
	if err != nil {
		return err
	}
	tz, err := cfg.Location()
	if err != nil {
		return err
	}

	eventFactory := cloudevents.NewEventFactory(cloudevents.SourcePutaway)
	svcs := newServices(store.repos, ranker, eventFactory, m, tz, logger)

	if cfg.RulesFile != "" {
		seeded, err := svcs.rules.SeedRules(ctx, cfg.RulesFile)
		if err != nil {
			return err
		}
		logger.Info("Rule seeding finished", "file", cfg.RulesFile, "created", seeded)
	}

	sink, closeSink, err := openSink(cfg, m, logger)
	if err != nil {
		return err
	}
	defer closeSink()

	if sink != nil {
		publisher := outbox.NewPublisher(store.repos.Outbox, sink, logger, m, &outbox.PublisherConfig{
			PollInterval: cfg.OutboxPollInterval,
			BatchSize:    100,
		})
		if err := publisher.Start(ctx); err != nil {
			return err
		}
		defer publisher.Stop()
		logger.Info("Outbox publisher started", "sink", cfg.EventSink)
	}

	if cfg.IntakeEnabled {
		consumer := startIntake(ctx, cfg, svcs.pallets, m, logger)
		defer consumer.Close()
	}

	router := newRouter(svcs, m, logger, func() error {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return store.ready(checkCtx)
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()
	logger.Info("Server started", "addr", cfg.ServerAddr)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
	return nil
}
