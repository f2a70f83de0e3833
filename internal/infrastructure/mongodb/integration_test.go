//go:build integration

package mongodb_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/putaway-service/pkg/logging"
	pkgmongo "github.com/wms-platform/putaway-service/pkg/mongodb"
	testhelpers "github.com/wms-platform/putaway-service/pkg/testing"
)

func setupStore(t *testing.T) (*mongodb.Store, application.Repositories) {
	t.Helper()
	ctx, cancel := testhelpers.CreateTestContext(2 * time.Minute)
	defer cancel()

	container, err := testhelpers.NewMongoDBContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	client, err := container.GetClient(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	store := mongodb.NewStore(pkgmongo.Wrap(client, "putaway_it"))
	require.NoError(t, store.EnsureIndexes(ctx))

	return store, application.Repositories{
		Pallets:    store.Pallets(),
		Locations:  store.Locations(),
		Tasks:      store.Tasks(),
		Rules:      store.Rules(),
		Movements:  store.Movements(),
		Outbox:     store.Outbox(),
		Transactor: store,
	}
}

func TestIntegration_PutawayLifecycle(t *testing.T) {
	_, repos := setupStore(t)
	ctx := context.Background()
	logger := logging.NewNop()

	pallets := application.NewPalletService(repos, logger)
	locations := application.NewLocationService(repos, logger)
	putaway := application.NewPutawayService(repos, nil, nil, nil, logger)
	ledger := application.NewLedgerService(repos)

	_, err := pallets.RegisterPallet(ctx, application.RegisterPalletCommand{PalletID: "P1", ProductID: "SKU-1", Quantity: 5})
	require.NoError(t, err)
	_, err = pallets.RegisterPallet(ctx, application.RegisterPalletCommand{PalletID: "P2", ProductID: "SKU-2", Quantity: 3})
	require.NoError(t, err)
	loc, err := locations.RegisterLocation(ctx, application.RegisterLocationCommand{Code: "A-01", Type: "rack", Capacity: intPtr(1)})
	require.NoError(t, err)

	claimed, err := putaway.ClaimTask(ctx, application.ClaimTaskCommand{PalletID: "P1", OperatorID: "op-1"})
	require.NoError(t, err)
	require.NotNil(t, claimed.SuggestedLocation)
	assert.Equal(t, loc.Location.ID, claimed.SuggestedLocation.ID)

	_, err = putaway.CompleteTask(ctx, application.CompleteTaskCommand{TaskID: claimed.Task.ID, LocationID: loc.Location.ID, ConfirmationCode: "WRONG"})
	assert.ErrorIs(t, err, domain.ErrConfirmationCodeMismatch)

	done, err := putaway.CompleteTask(ctx, application.CompleteTaskCommand{TaskID: claimed.Task.ID, LocationID: loc.Location.ID, ConfirmationCode: loc.ConfirmationCode})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Task.Status)

	stored, err := locations.GetLocation(ctx, loc.Location.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentOccupancy)
	assert.Equal(t, "occupied", stored.OccupancyStatus)

	_, total, err := ledger.ListMovements(ctx, application.ListMovementsQuery{Page: domain.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	second, err := putaway.ClaimTask(ctx, application.ClaimTaskCommand{PalletID: "P2", OperatorID: "op-2"})
	require.NoError(t, err)
	assert.Nil(t, second.SuggestedLocation)

	_, err = putaway.CompleteTask(ctx, application.CompleteTaskCommand{TaskID: second.Task.ID, LocationID: loc.Location.ID, ConfirmationCode: loc.ConfirmationCode})
	assert.ErrorIs(t, err, domain.ErrLocationCapacityExceeded)

	_, err = putaway.CancelTask(ctx, application.CancelTaskCommand{TaskID: second.Task.ID, Reason: "no room"})
	require.NoError(t, err)
	p2, err := pallets.GetPallet(ctx, "P2")
	require.NoError(t, err)
	assert.Equal(t, "waiting_putaway", p2.Status)
}

func TestIntegration_ConcurrentClaim(t *testing.T) {
	_, repos := setupStore(t)
	ctx := context.Background()
	logger := logging.NewNop()

	pallets := application.NewPalletService(repos, logger)
	putaway := application.NewPutawayService(repos, nil, nil, nil, logger)

	_, err := pallets.RegisterPallet(ctx, application.RegisterPalletCommand{PalletID: "P1", ProductID: "SKU-1", Quantity: 5})
	require.NoError(t, err)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := putaway.ClaimTask(ctx, application.ClaimTaskCommand{PalletID: "P1", OperatorID: "op-" + string(rune('a'+i))})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
			} else {
				assert.True(t, stderrors.Is(err, domain.ErrPalletUnavailable), "unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func intPtr(v int) *int { return &v }
