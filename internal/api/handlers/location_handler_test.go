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

func TestRegisterLocation_ReturnsCode(t *testing.T) {
	var got application.RegisterLocationCommand
	svc := &mockLocationService{
		registerFn: func(ctx context.Context, cmd application.RegisterLocationCommand) (*application.LocationCodeDTO, error) {
			got = cmd
			return &application.LocationCodeDTO{
				Location:         application.LocationDTO{ID: "loc-1", Code: cmd.Code, Type: cmd.Type, Active: true},
				ConfirmationCode: "K7Q2",
			}, nil
		},
	}
	router := newTestRouter(NewLocationHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/locations", `{"code":"A-01-02","type":"rack","capacity":4,"maxWeight":800}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "A-01-02", got.Code)
	require.NotNil(t, got.Capacity)
	assert.Equal(t, 4, *got.Capacity)

	var body application.LocationCodeDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "K7Q2", body.ConfirmationCode)
}

func TestRegisterLocation_Validation(t *testing.T) {
	router := newTestRouter(NewLocationHandler(&mockLocationService{}, testLogger))

	for _, body := range []string{
		`{"code":"A-01","type":"attic"}`,
		`{"type":"rack"}`,
		`{"code":"A-01","type":"rack","capacity":0}`,
	} {
		rec := performRequest(router, http.MethodPost, "/api/v1/locations", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestRegisterLocation_DuplicateCode(t *testing.T) {
	svc := &mockLocationService{
		registerFn: func(ctx context.Context, cmd application.RegisterLocationCommand) (*application.LocationCodeDTO, error) {
			return nil, errors.ErrConflict("location code already exists").WithDetail("code", cmd.Code)
		},
	}
	router := newTestRouter(NewLocationHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/locations", `{"code":"A-01","type":"bin"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRotateConfirmationCode(t *testing.T) {
	svc := &mockLocationService{
		rotateFn: func(ctx context.Context, locationID string) (*application.LocationCodeDTO, error) {
			return &application.LocationCodeDTO{Location: application.LocationDTO{ID: locationID}, ConfirmationCode: "Z9Z9"}, nil
		},
	}
	router := newTestRouter(NewLocationHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/locations/loc-1/rotate-code", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Z9Z9")
}

func TestSetActive(t *testing.T) {
	var got application.SetLocationActiveCommand
	svc := &mockLocationService{
		setActiveFn: func(ctx context.Context, cmd application.SetLocationActiveCommand) (*application.LocationCodeDTO, error) {
			got = cmd
			return &application.LocationCodeDTO{Location: application.LocationDTO{ID: cmd.LocationID, Active: cmd.Active}}, nil
		},
	}
	router := newTestRouter(NewLocationHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPatch, "/api/v1/locations/loc-1/active", `{"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, application.SetLocationActiveCommand{LocationID: "loc-1", Active: false}, got)

	rec = performRequest(router, http.MethodPatch, "/api/v1/locations/loc-1/active", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListLocations_Filters(t *testing.T) {
	var got application.ListLocationsQuery
	svc := &mockLocationService{
		listFn: func(ctx context.Context, query application.ListLocationsQuery) ([]application.LocationDTO, int64, error) {
			got = query
			return nil, 0, nil
		},
	}
	router := newTestRouter(NewLocationHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/locations?type=bin&active=false", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bin", got.Type)
	require.NotNil(t, got.Active)
	assert.False(t, *got.Active)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = performRequest(router, http.MethodGet, "/api/v1/locations?active=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestRouteCoexistsWithLocationRoutes(t *testing.T) {
	tasks := &mockTaskService{
		suggestFn: func(ctx context.Context, query application.SuggestLocationQuery) (*application.LocationDTO, error) {
			return &application.LocationDTO{ID: "loc-1"}, nil
		},
	}
	locations := &mockLocationService{
		getFn: func(ctx context.Context, locationID string) (*application.LocationDTO, error) {
			return &application.LocationDTO{ID: locationID}, nil
		},
	}
	router := newTestRouter(NewTaskHandler(tasks, testLogger), NewLocationHandler(locations, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/locations/suggest", `{"palletId":"PAL-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(router, http.MethodGet, "/api/v1/locations/loc-3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "loc-3")
}
