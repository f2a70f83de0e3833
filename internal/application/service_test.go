package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/internal/infrastructure/memory"
	"github.com/wms-platform/putaway-service/pkg/logging"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	t         *testing.T
	store     *memory.Store
	repos     Repositories
	clock     time.Time
	putaway   *PutawayService
	pallets   *PalletService
	locations *LocationService
	rules     *RuleService
	metrics   *MetricsService
	ledger    *LedgerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := Repositories{
		Pallets:    store.Pallets(),
		Locations:  store.Locations(),
		Tasks:      store.Tasks(),
		Rules:      store.Rules(),
		Movements:  store.Movements(),
		Outbox:     store.Outbox(),
		Transactor: store,
	}
	logger := logging.NewNop()

	env := &testEnv{
		t:         t,
		store:     store,
		repos:     repos,
		clock:     testNow,
		putaway:   NewPutawayService(repos, nil, nil, nil, logger),
		pallets:   NewPalletService(repos, logger),
		locations: NewLocationService(repos, logger),
		rules:     NewRuleService(repos, nil, logger),
		metrics:   NewMetricsService(repos, time.UTC, logger),
		ledger:    NewLedgerService(repos),
	}
	now := func() time.Time { return env.clock }
	env.putaway.now = now
	env.locations.now = now
	env.rules.now = now
	env.metrics.now = now
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func (e *testEnv) pallet(id string, weight *float64) {
	e.t.Helper()
	_, err := e.pallets.RegisterPallet(context.Background(), RegisterPalletCommand{
		PalletID:  id,
		ProductID: "SKU-" + id,
		Quantity:  12,
		Weight:    weight,
	})
	require.NoError(e.t, err)
}

func (e *testEnv) location(code string, typ domain.LocationType, capacity *int, maxWeight *float64) *LocationCodeDTO {
	e.t.Helper()
	loc, err := e.locations.RegisterLocation(context.Background(), RegisterLocationCommand{
		Code:      code,
		Type:      string(typ),
		Capacity:  capacity,
		MaxWeight: maxWeight,
	})
	require.NoError(e.t, err)
	return loc
}

func (e *testEnv) claim(palletID, operatorID string) *ClaimResultDTO {
	e.t.Helper()
	res, err := e.putaway.ClaimTask(context.Background(), ClaimTaskCommand{PalletID: palletID, OperatorID: operatorID})
	require.NoError(e.t, err)
	return res
}

func float64Ptr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
