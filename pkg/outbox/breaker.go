package outbox

import (
	"context"

	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/resilience"
)

// CircuitBreakerSink protects a Sink with a circuit breaker so a dead broker
// does not burn retry budget on every pending event.
type CircuitBreakerSink struct {
	sink Sink
	cb   *resilience.CircuitBreaker
}

// NewCircuitBreakerSink wraps sink with cb
func NewCircuitBreakerSink(sink Sink, cb *resilience.CircuitBreaker) *CircuitBreakerSink {
	return &CircuitBreakerSink{sink: sink, cb: cb}
}

// PublishEvent publishes through the breaker
func (s *CircuitBreakerSink) PublishEvent(ctx context.Context, topic string, event *cloudevents.WMSCloudEvent) error {
	_, err := s.cb.Execute(ctx, func() (interface{}, error) {
		return nil, s.sink.PublishEvent(ctx, topic, event)
	})
	return err
}
