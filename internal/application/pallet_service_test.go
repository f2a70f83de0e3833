package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/errors"
)

func TestPalletService_RegisterIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.pallets.RegisterPallet(ctx, RegisterPalletCommand{PalletID: "P1", ProductID: "SKU-1", Quantity: 4, Weight: float64Ptr(12.5)})
	require.NoError(t, err)
	assert.Equal(t, string(domain.PalletStatusWaitingPutaway), first.Status)

	env.claim("P1", "op-1")

	again, err := env.pallets.RegisterPallet(ctx, RegisterPalletCommand{PalletID: "P1", ProductID: "SKU-2", Quantity: 9})
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", again.ProductID)
	assert.Equal(t, string(domain.PalletStatusInProcess), again.Status)
}

func TestPalletService_RejectsInvalid(t *testing.T) {
	env := newTestEnv(t)
	for _, cmd := range []RegisterPalletCommand{
		{PalletID: "", ProductID: "SKU", Quantity: 1},
		{PalletID: "P1", ProductID: "", Quantity: 1},
		{PalletID: "P1", ProductID: "SKU", Quantity: 0},
		{PalletID: "P1", ProductID: "SKU", Quantity: 1, Weight: float64Ptr(-1)},
	} {
		_, err := env.pallets.RegisterPallet(context.Background(), cmd)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.CodeValidationError, appErr.Code)
	}
}

func TestPalletService_GetAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.pallet("P1", nil)
	env.pallet("P2", nil)
	env.claim("P2", "op-1")

	_, err := env.pallets.GetPallet(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrPalletNotFound)

	waiting, total, err := env.pallets.ListPallets(ctx, ListPalletsQuery{Status: "waiting_putaway", Page: domain.DefaultPagination()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "P1", waiting[0].ID)

	_, _, err = env.pallets.ListPallets(ctx, ListPalletsQuery{Status: "lost"})
	assert.Error(t, err)
}
