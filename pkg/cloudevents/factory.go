package cloudevents

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"

	"github.com/wms-platform/putaway-service/pkg/logging"
)

// EventFactory creates CloudEvents for a single source
type EventFactory struct {
	source     string
	propagator propagation.TextMapPropagator
}

// NewEventFactory creates a new EventFactory for a specific source
func NewEventFactory(source string) *EventFactory {
	return &EventFactory{
		source:     source,
		propagator: propagation.TraceContext{},
	}
}

// CreateEvent creates a new WMSCloudEvent. The correlation id and W3C trace
// context are taken from ctx when present.
func (f *EventFactory) CreateEvent(
	ctx context.Context,
	eventType string,
	subject string,
	data interface{},
) *WMSCloudEvent {
	event := &WMSCloudEvent{
		SpecVersion:     "1.0",
		Type:            eventType,
		Source:          f.source,
		Subject:         subject,
		ID:              uuid.New().String(),
		Time:            time.Now().UTC(),
		DataContentType: "application/json",
		Data:            data,
		Extensions:      make(map[string]interface{}),
	}

	if ctx == nil {
		return event
	}

	if v, ok := ctx.Value(logging.CorrelationIDKey).(string); ok {
		event.CorrelationID = v
	}

	carrier := propagation.MapCarrier{}
	f.propagator.Inject(ctx, carrier)
	event.TraceParent = carrier.Get(ExtTraceParent)
	event.TraceState = carrier.Get(ExtTraceState)

	return event
}

// ContextFromEvent rebuilds the trace and correlation context carried by an event
func ContextFromEvent(ctx context.Context, event *WMSCloudEvent) context.Context {
	if event.TraceParent != "" {
		carrier := propagation.MapCarrier{ExtTraceParent: event.TraceParent}
		if event.TraceState != "" {
			carrier[ExtTraceState] = event.TraceState
		}
		ctx = propagation.TraceContext{}.Extract(ctx, carrier)
	}
	if event.CorrelationID != "" {
		ctx = logging.ContextWithCorrelationID(ctx, event.CorrelationID)
	}
	return ctx
}
