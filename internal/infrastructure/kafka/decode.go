package kafka

import (
	"encoding/json"
	"fmt"

	"github.com/wms-platform/putaway-service/pkg/cloudevents"
)

// decodeData re-decodes the generic event payload into out. Events parsed
// off the wire carry their data as map[string]interface{}.
func decodeData(event *cloudevents.WMSCloudEvent, out interface{}) error {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to re-encode %s data: %w", event.Type, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s data: %w", event.Type, err)
	}
	return nil
}
