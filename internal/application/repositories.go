package application

import (
	"time"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/outbox"
)

// Repositories bundles the ports every application service is built from
type Repositories struct {
	Pallets    domain.PalletRepository
	Locations  domain.LocationRepository
	Tasks      domain.TaskRepository
	Rules      domain.RuleRepository
	Movements  domain.MovementRepository
	Outbox     outbox.Repository
	Transactor domain.Transactor
}

// Stored timestamps keep millisecond precision, matching BSON dates
func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
