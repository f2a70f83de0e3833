package kafka

import (
	"context"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/kafka"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
)

// MovementWriter stores a copy of a ledger entry. Writes must be idempotent
// on the movement id because Kafka delivers at least once.
type MovementWriter interface {
	WriteMovement(ctx context.Context, movement *domain.StockMovement) error
}

// StockMovedConsumer feeds stock-moved events into a MovementWriter
type StockMovedConsumer struct {
	writer MovementWriter
	logger *logging.Logger
}

// NewStockMovedConsumer creates a new StockMovedConsumer
func NewStockMovedConsumer(writer MovementWriter, logger *logging.Logger) *StockMovedConsumer {
	return &StockMovedConsumer{writer: writer, logger: logger.WithComponent("ledger-export")}
}

// Register subscribes the handler on the put-away topic
func (c *StockMovedConsumer) Register(consumer *kafka.Consumer, group string, m *metrics.Metrics) {
	topic := kafka.Topics.PutawayEvents
	consumer.Subscribe(topic, cloudevents.PutawayStockMoved, kafka.InstrumentHandler(topic, group, m, c.logger, c.Handle))
}

// Handle writes the movement carried by event
func (c *StockMovedConsumer) Handle(ctx context.Context, event *cloudevents.WMSCloudEvent) error {
	var data cloudevents.StockMovedData
	if err := decodeData(event, &data); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Dropping malformed stock-moved event", "eventId", event.ID)
		return nil
	}
	if data.MovementID == "" {
		c.logger.WithContext(ctx).Warn("Dropping stock-moved event without movement id", "eventId", event.ID)
		return nil
	}

	movement := &domain.StockMovement{
		ID:           data.MovementID,
		ProductID:    data.ProductID,
		LocationID:   data.LocationID,
		Quantity:     data.Quantity,
		MovementType: data.MovementType,
		TaskID:       data.TaskID,
		OperatorID:   data.OperatorID,
		Status:       data.Status,
		CreatedAt:    data.CreatedAt,
	}
	if err := c.writer.WriteMovement(ctx, movement); err != nil {
		return err
	}

	c.logger.Event(ctx, "ledger.movement_exported", map[string]any{
		"movementId": movement.ID,
		"taskId":     movement.TaskID,
		"locationId": movement.LocationID,
	})
	return nil
}
