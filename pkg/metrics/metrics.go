package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the put-away service collectors. All Record methods are
// safe to call on a nil *Metrics so tests can run without a registry.
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaEventsConsumed  *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Put-away business metrics
	TasksClaimed           *prometheus.CounterVec
	TasksCompleted         *prometheus.CounterVec
	TasksCancelled         *prometheus.CounterVec
	TaskDurationMinutes    *prometheus.HistogramVec
	ConfirmationMismatches *prometheus.CounterVec
	ClaimsWithoutLocation  *prometheus.CounterVec
	SelectorDuration       *prometheus.HistogramVec
	StockMovements         *prometheus.CounterVec

	// Outbox metrics
	OutboxPending   *prometheus.GaugeVec
	OutboxPublished *prometheus.CounterVec
	OutboxRetries   *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "wms",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ns := config.Namespace
	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total", Help: "Total number of HTTP requests"},
		[]string{"service", "method", "path", "status"},
	)
	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)
	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   ns,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "kafka_events_published_total", Help: "Total number of Kafka events published"},
		[]string{"service", "topic", "event_type", "status"},
	)
	m.KafkaEventsConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "kafka_events_consumed_total", Help: "Total number of Kafka events consumed"},
		[]string{"service", "topic", "event_type", "status"},
	)
	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service", "topic"},
	)

	m.MongoDBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "mongodb_operations_total", Help: "Total number of MongoDB operations"},
		[]string{"service", "collection", "operation", "status"},
	)
	m.MongoDBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "collection", "operation"},
	)

	m.TasksClaimed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Subsystem: "putaway", Name: "tasks_claimed_total", Help: "Put-away tasks created by a pallet claim"},
		[]string{"service"},
	)
	m.TasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Subsystem: "putaway", Name: "tasks_completed_total", Help: "Put-away tasks completed"},
		[]string{"service", "location_type"},
	)
	m.TasksCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Subsystem: "putaway", Name: "tasks_cancelled_total", Help: "Put-away tasks cancelled"},
		[]string{"service"},
	)
	m.TaskDurationMinutes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "putaway",
			Name:      "task_duration_minutes",
			Help:      "Claim to completion time in whole minutes",
			Buckets:   []float64{1, 2, 5, 10, 15, 30, 60, 120},
		},
		[]string{"service"},
	)
	m.ConfirmationMismatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Subsystem: "putaway", Name: "confirmation_mismatches_total", Help: "Completions rejected for a wrong confirmation code"},
		[]string{"service"},
	)
	m.ClaimsWithoutLocation = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Subsystem: "putaway", Name: "claims_without_location_total", Help: "Claims that found no location to suggest"},
		[]string{"service"},
	)
	m.SelectorDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "putaway",
			Name:      "selector_duration_seconds",
			Help:      "Location selection duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		},
		[]string{"service", "ranker"},
	)
	m.StockMovements = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Subsystem: "putaway", Name: "stock_movements_total", Help: "Stock movements appended to the ledger"},
		[]string{"service", "movement_type"},
	)

	m.OutboxPending = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: ns, Name: "outbox_pending_events", Help: "Unpublished outbox events seen by the last poll"},
		[]string{"service"},
	)
	m.OutboxPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "outbox_published_total", Help: "Outbox events published"},
		[]string{"service", "event_type", "status"},
	)
	m.OutboxRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "outbox_retries_total", Help: "Outbox publish retries"},
		[]string{"service", "event_type"},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: ns, Name: "circuit_breaker_state", Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)"},
		[]string{"service", "name"},
	)
	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: ns, Name: "circuit_breaker_trips_total", Help: "Total number of circuit breaker trips"},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaEventsConsumed,
		m.KafkaPublishDuration,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.TasksClaimed,
		m.TasksCompleted,
		m.TasksCancelled,
		m.TaskDurationMinutes,
		m.ConfirmationMismatches,
		m.ClaimsWithoutLocation,
		m.SelectorDuration,
		m.StockMovements,
		m.OutboxPending,
		m.OutboxPublished,
		m.OutboxRetries,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Dec()
}

// RecordKafkaPublish records a Kafka publish event
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordKafkaConsume records a Kafka consume event
func (m *Metrics) RecordKafkaConsume(topic, eventType string, success bool) {
	if m == nil {
		return
	}
	m.KafkaEventsConsumed.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, statusLabel(success)).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// RecordTaskClaimed records a successful claim; suggested is false when no location was proposed
func (m *Metrics) RecordTaskClaimed(suggested bool) {
	if m == nil {
		return
	}
	m.TasksClaimed.WithLabelValues(m.serviceName).Inc()
	if !suggested {
		m.ClaimsWithoutLocation.WithLabelValues(m.serviceName).Inc()
	}
}

// RecordTaskCompleted records a completion and its duration
func (m *Metrics) RecordTaskCompleted(locationType string, durationMinutes int) {
	if m == nil {
		return
	}
	m.TasksCompleted.WithLabelValues(m.serviceName, locationType).Inc()
	m.TaskDurationMinutes.WithLabelValues(m.serviceName).Observe(float64(durationMinutes))
	m.StockMovements.WithLabelValues(m.serviceName, "putaway").Inc()
}

// RecordTaskCancelled records a cancellation
func (m *Metrics) RecordTaskCancelled() {
	if m == nil {
		return
	}
	m.TasksCancelled.WithLabelValues(m.serviceName).Inc()
}

// RecordConfirmationMismatch records a rejected confirmation code
func (m *Metrics) RecordConfirmationMismatch() {
	if m == nil {
		return
	}
	m.ConfirmationMismatches.WithLabelValues(m.serviceName).Inc()
}

// RecordSelection records how long location selection took
func (m *Metrics) RecordSelection(ranker string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SelectorDuration.WithLabelValues(m.serviceName, ranker).Observe(duration.Seconds())
}

// SetOutboxPending sets the number of pending outbox events
func (m *Metrics) SetOutboxPending(count int) {
	if m == nil {
		return
	}
	m.OutboxPending.WithLabelValues(m.serviceName).Set(float64(count))
}

// RecordOutboxPublish records an outbox publish attempt
func (m *Metrics) RecordOutboxPublish(eventType string, success bool) {
	if m == nil {
		return
	}
	m.OutboxPublished.WithLabelValues(m.serviceName, eventType, statusLabel(success)).Inc()
}

// RecordOutboxRetry records an outbox retry
func (m *Metrics) RecordOutboxRetry(eventType string) {
	if m == nil {
		return
	}
	m.OutboxRetries.WithLabelValues(m.serviceName, eventType).Inc()
}

// SetCircuitBreakerState sets the circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	if m == nil {
		return
	}
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}
