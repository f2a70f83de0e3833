package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms-platform/putaway-service/internal/application"
	"github.com/wms-platform/putaway-service/pkg/errors"
)

func decodeError(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestClaimTask_Created(t *testing.T) {
	var got application.ClaimTaskCommand
	svc := &mockTaskService{
		claimFn: func(ctx context.Context, cmd application.ClaimTaskCommand) (*application.ClaimResultDTO, error) {
			got = cmd
			return &application.ClaimResultDTO{
				Task:              application.TaskDTO{ID: "t-1", TaskNumber: "PA-20260314-0001", PalletID: cmd.PalletID, Status: "in_progress"},
				SuggestedLocation: &application.LocationDTO{ID: "loc-1", Code: "A-01"},
			}, nil
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/claim", `{"palletId":"PAL-1","operatorId":"op-7","priority":2}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "PAL-1", got.PalletID)
	assert.Equal(t, "op-7", got.OperatorID)
	assert.Equal(t, 2, got.Priority)

	var body application.ClaimResultDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "t-1", body.Task.ID)
	require.NotNil(t, body.SuggestedLocation)
	assert.Equal(t, "loc-1", body.SuggestedLocation.ID)
}

func TestClaimTask_OperatorFromHeader(t *testing.T) {
	var got string
	svc := &mockTaskService{
		claimFn: func(ctx context.Context, cmd application.ClaimTaskCommand) (*application.ClaimResultDTO, error) {
			got = cmd.OperatorID
			return &application.ClaimResultDTO{Task: application.TaskDTO{ID: "t-1"}}, nil
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/claim", `{"palletId":"PAL-1"}`, "X-Operator-ID", "op-9")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "op-9", got)
}

func TestClaimTask_ValidationErrors(t *testing.T) {
	router := newTestRouter(NewTaskHandler(&mockTaskService{}, testLogger))

	tests := []struct {
		name string
		body string
	}{
		{"missing pallet", `{"operatorId":"op-1"}`},
		{"missing operator", `{"palletId":"PAL-1"}`},
		{"priority out of range", `{"palletId":"PAL-1","operatorId":"op-1","priority":9}`},
		{"malformed json", `{"palletId":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(router, http.MethodPost, "/api/v1/tasks/claim", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestClaimTask_PalletUnavailable(t *testing.T) {
	svc := &mockTaskService{
		claimFn: func(ctx context.Context, cmd application.ClaimTaskCommand) (*application.ClaimResultDTO, error) {
			return nil, errors.ErrPalletUnavailable(cmd.PalletID)
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/claim", `{"palletId":"PAL-1","operatorId":"op-1"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, errors.CodePalletUnavailable, decodeError(t, rec.Body.Bytes())["code"])
}

func TestCompleteTask(t *testing.T) {
	var got application.CompleteTaskCommand
	svc := &mockTaskService{
		completeFn: func(ctx context.Context, cmd application.CompleteTaskCommand) (*application.CompletionResultDTO, error) {
			got = cmd
			return &application.CompletionResultDTO{
				Task:     application.TaskDTO{ID: cmd.TaskID, Status: "completed"},
				Movement: application.MovementDTO{ID: "mv-1", LocationID: cmd.LocationID},
			}, nil
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/t-1/complete", `{"locationId":"loc-1","confirmationCode":"K7Q2"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, application.CompleteTaskCommand{TaskID: "t-1", LocationID: "loc-1", ConfirmationCode: "K7Q2"}, got)
}

func TestCompleteTask_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"mismatch", errors.ErrConfirmationCodeMismatch("loc-1"), http.StatusUnprocessableEntity, errors.CodeConfirmationCodeMismatch},
		{"not in progress", errors.ErrTaskNotInProgress("t-1"), http.StatusConflict, errors.CodeTaskNotInProgress},
		{"task not found", errors.ErrTaskNotFound("t-1"), http.StatusNotFound, errors.CodeTaskNotFound},
		{"location not found", errors.ErrLocationNotFound("loc-1"), http.StatusNotFound, errors.CodeLocationNotFound},
		{"capacity", errors.ErrLocationCapacityExceeded("loc-1"), http.StatusConflict, errors.CodeLocationCapacityExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTaskService{
				completeFn: func(ctx context.Context, cmd application.CompleteTaskCommand) (*application.CompletionResultDTO, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(NewTaskHandler(svc, testLogger))

			rec := performRequest(router, http.MethodPost, "/api/v1/tasks/t-1/complete", `{"locationId":"loc-1","confirmationCode":"K7Q2"}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec.Body.Bytes())["code"])
		})
	}
}

func TestCompleteTask_MistypedCodeIsAMismatch(t *testing.T) {
	var got string
	svc := &mockTaskService{
		completeFn: func(ctx context.Context, cmd application.CompleteTaskCommand) (*application.CompletionResultDTO, error) {
			got = cmd.ConfirmationCode
			return nil, errors.ErrConfirmationCodeMismatch(cmd.LocationID)
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/t-1/complete", `{"locationId":"loc-1","confirmationCode":"AB C12"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, errors.CodeConfirmationCodeMismatch, decodeError(t, rec.Body.Bytes())["code"])
	assert.Equal(t, "AB C12", got)
}

func TestCompleteTask_RejectsOverlongCode(t *testing.T) {
	router := newTestRouter(NewTaskHandler(&mockTaskService{}, testLogger))

	body := `{"locationId":"loc-1","confirmationCode":"` + strings.Repeat("K", 33) + `"}`
	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/t-1/complete", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelTask_BodyOptional(t *testing.T) {
	var got application.CancelTaskCommand
	svc := &mockTaskService{
		cancelFn: func(ctx context.Context, cmd application.CancelTaskCommand) (*application.TaskDTO, error) {
			got = cmd
			return &application.TaskDTO{ID: cmd.TaskID, Status: "cancelled"}, nil
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/tasks/t-1/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t-1", got.TaskID)
	assert.Empty(t, got.Reason)

	rec = performRequest(router, http.MethodPost, "/api/v1/tasks/t-2/cancel", `{"reason":"damaged"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "damaged", got.Reason)
}

func TestListTasks_PassesFilters(t *testing.T) {
	var got application.ListTasksQuery
	svc := &mockTaskService{
		listFn: func(ctx context.Context, query application.ListTasksQuery) ([]application.TaskDTO, int64, error) {
			got = query
			return []application.TaskDTO{{ID: "t-1"}}, 41, nil
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/tasks?status=completed&operatorId=op-1&page=2&pageSize=20", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, "op-1", got.OperatorID)
	assert.Equal(t, int64(2), got.Page.Page)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(41), body["totalItems"])
	assert.Equal(t, float64(3), body["totalPages"])
}

func TestGetTask_NotFound(t *testing.T) {
	svc := &mockTaskService{
		getFn: func(ctx context.Context, query application.GetTaskQuery) (*application.TaskDTO, error) {
			return nil, errors.ErrTaskNotFound(query.TaskID)
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/tasks/missing", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSuggestLocation(t *testing.T) {
	svc := &mockTaskService{
		suggestFn: func(ctx context.Context, query application.SuggestLocationQuery) (*application.LocationDTO, error) {
			if query.PalletID != "PAL-1" {
				return nil, errors.ErrNoLocationAvailable()
			}
			return &application.LocationDTO{ID: "loc-1", Code: "A-01"}, nil
		},
	}
	router := newTestRouter(NewTaskHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/locations/suggest", `{"palletId":"PAL-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(router, http.MethodPost, "/api/v1/locations/suggest", `{"palletId":"PAL-2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
