package cloudevents

import (
	"time"
)

// Event types published by the put-away service
const (
	PutawayTaskClaimed   = "wms.putaway.task-claimed"
	PutawayTaskCompleted = "wms.putaway.task-completed"
	PutawayTaskCancelled = "wms.putaway.task-cancelled"
	PutawayStockMoved    = "wms.putaway.stock-moved"
	PutawayRuleChanged   = "wms.putaway.rule-changed"
)

// Event types consumed from upstream collaborators
const (
	PalletReceived = "wms.receiving.pallet-received"
)

// Source constants for event sources
const (
	SourcePutaway   = "/wms/putaway-service"
	SourceReceiving = "/wms/receiving-service"
)

// Extension attribute names
const (
	ExtCorrelationID = "wmscorrelationid"
	ExtTraceParent   = "traceparent"
	ExtTraceState    = "tracestate"
)

// WMSCloudEvent represents a CloudEvents v1.0 compliant event for WMS
type WMSCloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	// WMS-specific extensions
	CorrelationID string `json:"wmscorrelationid,omitempty"`

	// W3C trace context
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// PalletReceivedData is the payload the receiving process emits for a new pallet
type PalletReceivedData struct {
	PalletID   string   `json:"palletId"`
	ProductID  string   `json:"productId"`
	Quantity   int      `json:"quantity"`
	Weight     *float64 `json:"weight,omitempty"`
	ReceivedAt string   `json:"receivedAt,omitempty"`
}

// StockMovedData is the payload of a ledger entry event
type StockMovedData struct {
	MovementID   string    `json:"movementId"`
	ProductID    string    `json:"productId"`
	LocationID   string    `json:"locationId"`
	Quantity     int       `json:"quantity"`
	MovementType string    `json:"movementType"`
	TaskID       string    `json:"taskId"`
	OperatorID   string    `json:"operatorId"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
