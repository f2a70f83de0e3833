package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/errors"
)

func TestRegisterPallet(t *testing.T) {
	var got application.RegisterPalletCommand
	svc := &mockPalletService{
		registerFn: func(ctx context.Context, cmd application.RegisterPalletCommand) (*application.PalletDTO, error) {
			got = cmd
			return &application.PalletDTO{ID: cmd.PalletID, Status: "waiting_putaway"}, nil
		},
	}
	router := newTestRouter(NewPalletHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/pallets", `{"palletId":"PAL-1","productId":"SKU-9","quantity":40,"weight":612.5}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "SKU-9", got.ProductID)
	require.NotNil(t, got.Weight)
	assert.InDelta(t, 612.5, *got.Weight, 0.0001)

	rec = performRequest(router, http.MethodPost, "/api/v1/pallets", `{"palletId":"PAL-1","productId":"SKU-9","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAndListPallets(t *testing.T) {
	var status string
	svc := &mockPalletService{
		getFn: func(ctx context.Context, palletID string) (*application.PalletDTO, error) {
			return nil, errors.ErrNotFound("pallet")
		},
		listFn: func(ctx context.Context, query application.ListPalletsQuery) ([]application.PalletDTO, int64, error) {
			status = query.Status
			return []application.PalletDTO{{ID: "PAL-1"}}, 1, nil
		},
	}
	router := newTestRouter(NewPalletHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/pallets/PAL-404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(router, http.MethodGet, "/api/v1/pallets?status=waiting_putaway", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "waiting_putaway", status)
}

func TestListMovements(t *testing.T) {
	var got application.ListMovementsQuery
	svc := &mockLedgerService{
		listFn: func(ctx context.Context, query application.ListMovementsQuery) ([]application.MovementDTO, int64, error) {
			got = query
			return []application.MovementDTO{{ID: "mv-1", MovementType: "putaway", Status: "completed"}}, 1, nil
		},
	}
	router := newTestRouter(NewMovementHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/movements?locationId=loc-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loc-1", got.LocationID)
	assert.Empty(t, got.TaskID)
	assert.Contains(t, rec.Body.String(), `"movementType":"putaway"`)
}

func TestMetricsSummary(t *testing.T) {
	svc := &mockMetricsService{
		getFn: func(ctx context.Context) (*application.MetricsDTO, error) {
			return &application.MetricsDTO{
				TasksCompletedToday:      3,
				PendingPalletCount:       5,
				ActiveOperatorCount:      2,
				AverageCompletionMinutes: 12.5,
			}, nil
		},
	}
	router := newTestRouter(NewMetricsHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/metrics/summary", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body application.MetricsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.TasksCompletedToday)
	assert.Equal(t, int64(5), body.PendingPalletCount)
	assert.InDelta(t, 12.5, body.AverageCompletionMinutes, 0.0001)
}

func TestMetricsSummary_Error(t *testing.T) {
	svc := &mockMetricsService{
		getFn: func(ctx context.Context) (*application.MetricsDTO, error) {
			return nil, errors.ErrServiceUnavailable("database")
		},
	}
	router := newTestRouter(NewMetricsHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/metrics/summary", "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
