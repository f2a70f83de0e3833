package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wms-platform/putaway-service/internal/config"
	ledgerkafka "github.com/wms-platform/putaway-service/internal/infrastructure/kafka"
	"github.com/wms-platform/putaway-service/internal/infrastructure/postgres"
	"github.com/wms-platform/putaway-service/pkg/kafka"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
	"github.com/wms-platform/putaway-service/pkg/middleware"
	"github.com/wms-platform/putaway-service/pkg/resilience"
)

const serviceName = "putaway-ledger-export"

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

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Ledger export stopped with error")
		os.Exit(1)
	}
	logger.Info("Ledger export stopped")
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(metrics.DefaultConfig(serviceName))

	// the ledger database may still be starting when the exporter comes up
	retryConfig := resilience.DefaultRetryConfig()
	retryConfig.MaxAttempts = 10
	retryConfig.InitialDelay = 500 * time.Millisecond

	var pool *pgxpool.Pool
	err := resilience.Retry(ctx, retryConfig, func() error {
		p, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.WithError(err).Warn("Postgres not reachable, retrying")
			return err
		}
		pool = p
		return nil
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	exporter := postgres.NewLedgerExporter(pool)
	if err := exporter.EnsureSchema(ctx); err != nil {
		return err
	}
	logger.Info("Connected to Postgres ledger")

	kafkaConfig := *cfg.Kafka
	kafkaConfig.ConsumerGroup = getEnv("LEDGER_EXPORT_CONSUMER_GROUP", serviceName)

	consumer := kafka.NewConsumer(&kafkaConfig, logger.Logger)
	defer consumer.Close()
	ledgerkafka.NewStockMovedConsumer(exporter, logger).Register(consumer, kafkaConfig.ConsumerGroup, m)

	router := gin.New()
	router.Use(middleware.Recovery(logger.Logger))
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return pool.Ping(checkCtx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	srv := &http.Server{
		Addr:        getEnv("LEDGER_EXPORT_ADDR", ":8081"),
		Handler:     router,
		ReadTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Probe server error")
		}
	}()

	logger.Info("Consuming stock movements",
		"topic", kafka.Topics.PutawayEvents,
		"group", kafkaConfig.ConsumerGroup,
	)
	// Start blocks until the signal context is cancelled
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
