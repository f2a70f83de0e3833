package mongodb

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/event"

	"github.com/wms-platform/putaway-service/pkg/logging"
	"github.com/wms-platform/putaway-service/pkg/metrics"
)

// NewCommandMonitor records a metric and a debug log line for every command
// the driver sends. Collection names are taken from the started event.
func NewCommandMonitor(m *metrics.Metrics, logger *logging.Logger) *event.CommandMonitor {
	var inflight sync.Map // requestID -> collection

	collectionOf := func(evt *event.CommandStartedEvent) string {
		if v, err := evt.Command.LookupErr(evt.CommandName); err == nil {
			if s, ok := v.StringValueOK(); ok {
				return s
			}
		}
		return evt.DatabaseName
	}

	finish := func(ctx context.Context, requestID int64, command string, duration time.Duration, success bool) {
		coll := "unknown"
		if v, ok := inflight.LoadAndDelete(requestID); ok {
			coll = v.(string)
		}
		m.RecordMongoDBOperation(coll, command, success, duration)
		if logger != nil {
			logger.DatabaseQuery(ctx, coll, command, duration, success)
		}
	}

	return &event.CommandMonitor{
		Started: func(ctx context.Context, evt *event.CommandStartedEvent) {
			inflight.Store(evt.RequestID, collectionOf(evt))
		},
		Succeeded: func(ctx context.Context, evt *event.CommandSucceededEvent) {
			finish(ctx, evt.RequestID, evt.CommandName, evt.Duration, true)
		},
		Failed: func(ctx context.Context, evt *event.CommandFailedEvent) {
			finish(ctx, evt.RequestID, evt.CommandName, evt.Duration, false)
		},
	}
}
