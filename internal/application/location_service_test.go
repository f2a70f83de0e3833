package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/errors"
)

func TestLocationService_RegisterIssuesCode(t *testing.T) {
	env := newTestEnv(t)

	loc := env.location("A-01", domain.LocationTypeShelf, intPtr(3), float64Ptr(250))
	assert.Len(t, loc.ConfirmationCode, 6)
	assert.True(t, loc.Location.Active)
	assert.Equal(t, string(domain.OccupancyAvailable), loc.Location.OccupancyStatus)
	assert.Equal(t, 0, loc.Location.CurrentOccupancy)
	require.NotNil(t, loc.Location.Capacity)
	assert.Equal(t, 3, *loc.Location.Capacity)

	_, err := env.locations.RegisterLocation(context.Background(), RegisterLocationCommand{Code: "A-01", Type: "bin"})
	assert.ErrorIs(t, err, domain.ErrLocationExists)

	_, err = env.locations.RegisterLocation(context.Background(), RegisterLocationCommand{Code: "A-02", Type: "attic"})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.CodeValidationError, appErr.Code)
}

func TestLocationService_ActiveCodesAreUnique(t *testing.T) {
	env := newTestEnv(t)
	seen := make(map[string]bool)
	for i := 0; i < 40; i++ {
		loc := env.location("L-"+string(rune('A'+i%26))+string(rune('a'+i/26)), domain.LocationTypeBin, nil, nil)
		assert.False(t, seen[loc.ConfirmationCode], "duplicate code %s", loc.ConfirmationCode)
		seen[loc.ConfirmationCode] = true
	}
}

func TestLocationService_RotateInvalidatesOldCode(t *testing.T) {
	env := newTestEnv(t)
	env.pallet("P1", nil)
	loc := env.location("A-01", domain.LocationTypeRack, nil, nil)
	claimed := env.claim("P1", "op-1")

	rotated, err := env.locations.RotateConfirmationCode(context.Background(), loc.Location.ID)
	require.NoError(t, err)
	assert.NotEqual(t, loc.ConfirmationCode, rotated.ConfirmationCode)

	_, err = env.putaway.CompleteTask(context.Background(), CompleteTaskCommand{TaskID: claimed.Task.ID, LocationID: loc.Location.ID, ConfirmationCode: loc.ConfirmationCode})
	assert.ErrorIs(t, err, domain.ErrConfirmationCodeMismatch)

	_, err = env.putaway.CompleteTask(context.Background(), CompleteTaskCommand{TaskID: claimed.Task.ID, LocationID: loc.Location.ID, ConfirmationCode: rotated.ConfirmationCode})
	require.NoError(t, err)

	_, err = env.locations.RotateConfirmationCode(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestLocationService_ReactivationRotatesCollidingCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.location("A-01", domain.LocationTypeRack, nil, nil)
	b := env.location("B-01", domain.LocationTypeRack, nil, nil)

	_, err := env.locations.SetLocationActive(ctx, SetLocationActiveCommand{LocationID: a.Location.ID, Active: false})
	require.NoError(t, err)

	// hand A's old code to B, which is allowed while A is inactive
	require.NoError(t, env.repos.Locations.UpdateConfirmationCode(ctx, b.Location.ID, a.ConfirmationCode, testNow))

	res, err := env.locations.SetLocationActive(ctx, SetLocationActiveCommand{LocationID: a.Location.ID, Active: true})
	require.NoError(t, err)
	assert.True(t, res.Location.Active)
	assert.NotEmpty(t, res.ConfirmationCode)
	assert.NotEqual(t, a.ConfirmationCode, res.ConfirmationCode)

	// toggling to the current state is a no-op
	res, err = env.locations.SetLocationActive(ctx, SetLocationActiveCommand{LocationID: a.Location.ID, Active: true})
	require.NoError(t, err)
	assert.Empty(t, res.ConfirmationCode)
}

func TestLocationService_InactiveLocationAcceptsCompletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.pallet("P1", nil)
	loc := env.location("A-01", domain.LocationTypeRack, nil, nil)
	claimed := env.claim("P1", "op-1")

	_, err := env.locations.SetLocationActive(ctx, SetLocationActiveCommand{LocationID: loc.Location.ID, Active: false})
	require.NoError(t, err)

	_, err = env.putaway.CompleteTask(ctx, CompleteTaskCommand{TaskID: claimed.Task.ID, LocationID: loc.Location.ID, ConfirmationCode: loc.ConfirmationCode})
	require.NoError(t, err)
}

func TestLocationService_List(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.location("B-01", domain.LocationTypeRack, nil, nil)
	env.location("A-01", domain.LocationTypeBin, nil, nil)
	c := env.location("C-01", domain.LocationTypeRack, nil, nil)
	_, err := env.locations.SetLocationActive(ctx, SetLocationActiveCommand{LocationID: c.Location.ID, Active: false})
	require.NoError(t, err)

	all, total, err := env.locations.ListLocations(ctx, ListLocationsQuery{Page: domain.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, "A-01", all[0].Code)

	active := true
	racks, total, err := env.locations.ListLocations(ctx, ListLocationsQuery{Type: "rack", Active: &active, Page: domain.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "B-01", racks[0].Code)

	_, _, err = env.locations.ListLocations(ctx, ListLocationsQuery{Type: "attic"})
	assert.Error(t, err)
}
