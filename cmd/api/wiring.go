package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/putaway-service/internal/api/handlers"
	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/internal/config"
	"github.com/wms-platform/putaway-service/internal/domain"
	intakekafka "github.com/wms-platform/putaway-service/internal/infrastructure/kafka"
	"github.com/wms-platform/putaway-service/internal/infrastructure/memory"
	mongoStore "github.com/wms-platform/putaway-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/putaway-service/internal/infrastructure/rabbitmq"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/kafka"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
	"github.com/wms-platform/putaway-service/pkg/middleware"
	"github.com/wms-platform/putaway-service/pkg/mongodb"
	"github.com/wms-platform/putaway-service/pkg/outbox"
	"github.com/wms-platform/putaway-service/pkg/resilience"
)

// storeBundle is the persistence backend selected by STORE_BACKEND
type storeBundle struct {
	repos application.Repositories
	ready func(ctx context.Context) error
	close func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger *logging.Logger) (*storeBundle, error) {
	if cfg.StoreBackend == config.StoreMemory {
		logger.Warn("Using in-memory store; state is lost on restart")
		return memoryBundle(memory.NewStore()), nil
	}

	mongoConfig := *cfg.MongoDB
	mongoConfig.Monitor = mongodb.NewCommandMonitor(m, logger)

	client, err := mongodb.NewClient(ctx, &mongoConfig)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to MongoDB", "database", mongoConfig.Database)

	store := mongoStore.NewStore(client)
	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := store.EnsureIndexes(indexCtx); err != nil {
		_ = client.Close(ctx)
		return nil, err
	}

	return &storeBundle{
		repos: application.Repositories{
			Pallets:    store.Pallets(),
			Locations:  store.Locations(),
			Tasks:      store.Tasks(),
			Rules:      store.Rules(),
			Movements:  store.Movements(),
			Outbox:     store.Outbox(),
			Transactor: store,
		},
		ready: client.HealthCheck,
		close: client.Close,
	}, nil
}

func memoryBundle(store *memory.Store) *storeBundle {
	return &storeBundle{
		repos: application.Repositories{
			Pallets:    store.Pallets(),
			Locations:  store.Locations(),
			Tasks:      store.Tasks(),
			Rules:      store.Rules(),
			Movements:  store.Movements(),
			Outbox:     store.Outbox(),
			Transactor: store,
		},
		ready: func(context.Context) error { return nil },
		close: func(context.Context) error { return nil },
	}
}

// openSink returns the outbox sink behind a circuit breaker, or nil when
// publishing is disabled.
func openSink(cfg *config.Config, m *metrics.Metrics, logger *logging.Logger) (outbox.Sink, func(), error) {
	var (
		sink    outbox.Sink
		closeFn func()
	)

	switch cfg.EventSink {
	case config.SinkNone:
		logger.Warn("Event publishing disabled; outbox events accumulate")
		return nil, func() {}, nil
	case config.SinkKafka:
		producer := kafka.NewInstrumentedProducer(kafka.NewProducer(cfg.Kafka), m, logger)
		sink = producer
		closeFn = func() { _ = producer.Close() }
		logger.Info("Kafka producer initialized", "brokers", cfg.Kafka.Brokers)
	case config.SinkRabbitMQ:
		amqpSink, err := rabbitmq.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return nil, nil, err
		}
		sink = amqpSink
		closeFn = func() { _ = amqpSink.Close() }
		logger.Info("RabbitMQ sink initialized", "exchange", cfg.RabbitMQ.Exchange)
	default:
		return nil, nil, fmt.Errorf("unknown event sink %q", cfg.EventSink)
	}

	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig(cfg.EventSink+"-sink"), logger.Logger, m)
	return outbox.NewCircuitBreakerSink(sink, cb), closeFn, nil
}

// startIntake consumes pallet-received events in the background
func startIntake(ctx context.Context, cfg *config.Config, pallets intakekafka.PalletRegistrar, m *metrics.Metrics, logger *logging.Logger) *kafka.Consumer {
	consumer := kafka.NewConsumer(cfg.Kafka, logger.Logger)
	intakekafka.NewPalletIntake(pallets, logger).Register(consumer, cfg.Kafka.ConsumerGroup, m)

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logger.WithError(err).Error("Pallet intake consumer stopped")
		}
	}()
	logger.Info("Pallet intake consumer started", "topic", kafka.Topics.ReceivingEvents)
	return consumer
}

type services struct {
	putaway   *application.PutawayService
	rules     *application.RuleService
	pallets   *application.PalletService
	locations *application.LocationService
	ledger    *application.LedgerService
	metrics   *application.MetricsService
}

func newServices(repos application.Repositories, ranker domain.Ranker, factory *cloudevents.EventFactory, m *metrics.Metrics, tz *time.Location, logger *logging.Logger) *services {
	return &services{
		putaway:   application.NewPutawayService(repos, ranker, factory, m, logger),
		rules:     application.NewRuleService(repos, factory, logger),
		pallets:   application.NewPalletService(repos, logger),
		locations: application.NewLocationService(repos, logger),
		ledger:    application.NewLedgerService(repos),
		metrics:   application.NewMetricsService(repos, tz, logger),
	}
}

func newRouter(svcs *services, m *metrics.Metrics, logger *logging.Logger, ready func() error) *gin.Engine {
	router := gin.New()

	middleware.Setup(router, &middleware.Config{
		Logger:      logger.Logger,
		ServiceName: serviceName,
	})
	router.Use(middleware.MetricsMiddleware(m))
	router.Use(middleware.TracingMiddleware(middleware.DefaultTracingConfig(serviceName)))

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, ready))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	v1 := router.Group("/api/v1")
	for _, h := range []interface{ RegisterRoutes(*gin.RouterGroup) }{
		handlers.NewTaskHandler(svcs.putaway, logger),
		handlers.NewRuleHandler(svcs.rules, logger),
		handlers.NewPalletHandler(svcs.pallets, logger),
		handlers.NewLocationHandler(svcs.locations, logger),
		handlers.NewMovementHandler(svcs.ledger, logger),
		handlers.NewMetricsHandler(svcs.metrics, logger),
	} {
		h.RegisterRoutes(v1)
	}

	return router
}
