package application

import (
	"context"
	"fmt"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/kafka"
	"github.com/wms-platform/putaway-service/pkg/outbox"
)

// Aggregate types recorded on outbox events
const (
	aggregateTask  = "PutAwayTask"
	aggregateRule  = "PutAwayRule"
	aggregateStock = "StockMovement"
)

// eventRecorder turns domain events into CloudEvents and writes them to the
// outbox using the caller's transaction context.
type eventRecorder struct {
	factory *cloudevents.EventFactory
	outbox  outbox.Repository
	topic   string
}

func newEventRecorder(factory *cloudevents.EventFactory, repo outbox.Repository) *eventRecorder {
	if factory == nil {
		factory = cloudevents.NewEventFactory(cloudevents.SourcePutaway)
	}
	return &eventRecorder{
		factory: factory,
		outbox:  repo,
		topic:   kafka.Topics.PutawayEvents,
	}
}

func (r *eventRecorder) record(ctx context.Context, aggregateType, aggregateID string, events ...domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	pending := make([]*outbox.OutboxEvent, 0, len(events))
	for _, evt := range events {
		ce := r.factory.CreateEvent(ctx, evt.EventType(), aggregateType+"/"+aggregateID, evt)
		ce.Time = evt.OccurredAt()

		oe, err := outbox.NewOutboxEventFromCloudEvent(aggregateID, aggregateType, r.topic, ce)
		if err != nil {
			return fmt.Errorf("build outbox event %s: %w", evt.EventType(), err)
		}
		pending = append(pending, oe)
	}

	return r.outbox.SaveAll(ctx, pending)
}
