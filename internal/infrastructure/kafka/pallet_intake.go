package kafka

import (
	"context"
	"net/http"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/cloudevents"
	"github.com/wms-platform/putaway-service/pkg/errors"
	"github.com/wms-platform/putaway-service/pkg/kafka"
	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
)

// PalletRegistrar registers inbound pallets
type PalletRegistrar interface {
	RegisterPallet(ctx context.Context, cmd application.RegisterPalletCommand) (*application.PalletDTO, error)
}

// PalletIntake turns pallet-received events from the receiving process into
// waiting_putaway pallets.
type PalletIntake struct {
	pallets PalletRegistrar
	logger  *logging.Logger
}

// NewPalletIntake creates a new PalletIntake
func NewPalletIntake(pallets PalletRegistrar, logger *logging.Logger) *PalletIntake {
	return &PalletIntake{pallets: pallets, logger: logger.WithComponent("pallet-intake")}
}

// Register subscribes the intake handler on the receiving topic
func (i *PalletIntake) Register(consumer *kafka.Consumer, group string, m *metrics.Metrics) {
	topic := kafka.Topics.ReceivingEvents
	consumer.Subscribe(topic, cloudevents.PalletReceived, kafka.InstrumentHandler(topic, group, m, i.logger, i.Handle))
}

// Handle registers the pallet carried by event. Payloads that can never be
// registered are logged and acknowledged; other failures are returned so the
// message is redelivered.
func (i *PalletIntake) Handle(ctx context.Context, event *cloudevents.WMSCloudEvent) error {
	var data cloudevents.PalletReceivedData
	if err := decodeData(event, &data); err != nil {
		i.logger.WithContext(ctx).WithError(err).Warn("Dropping malformed pallet event", "eventId", event.ID)
		return nil
	}

	pallet, err := i.pallets.RegisterPallet(ctx, application.RegisterPalletCommand{
		PalletID:  data.PalletID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Weight:    data.Weight,
	})
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok && appErr.HTTPStatus < http.StatusInternalServerError {
			i.logger.WithContext(ctx).WithError(err).Warn("Rejected pallet event",
				"eventId", event.ID,
				"palletId", data.PalletID,
			)
			return nil
		}
		return err
	}

	i.logger.WithContext(ctx).Info("Pallet registered from receiving",
		"palletId", pallet.ID,
		"status", pallet.Status,
		"eventId", event.ID,
	)
	return nil
}
