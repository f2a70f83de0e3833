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

const heavyRuleBody = `{
	"name": "heavy to floor",
	"conditions": [{"field": "weight", "operator": "gt", "value": 500}],
	"locationTypes": ["floor", "bulk"],
	"priority": 1
}`

func TestCreateRule(t *testing.T) {
	var got application.CreateRuleCommand
	svc := &mockRuleService{
		createFn: func(ctx context.Context, cmd application.CreateRuleCommand) (*application.RuleDTO, error) {
			got = cmd
			return &application.RuleDTO{ID: "r-1", Name: cmd.Name, Active: true}, nil
		},
	}
	router := newTestRouter(NewRuleHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPost, "/api/v1/rules", heavyRuleBody)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "heavy to floor", got.Name)
	assert.Equal(t, []application.RuleConditionInput{{Field: "weight", Operator: "gt", Value: 500}}, got.Conditions)
	assert.Equal(t, []string{"floor", "bulk"}, got.LocationTypes)
	assert.Nil(t, got.Active)
}

func TestCreateRule_RejectsUnknownVocabulary(t *testing.T) {
	router := newTestRouter(NewRuleHandler(&mockRuleService{}, testLogger))

	tests := []struct {
		name string
		body string
	}{
		{"unknown field", `{"name":"x","conditions":[{"field":"colour","operator":"eq","value":1}],"locationTypes":["rack"]}`},
		{"unknown operator", `{"name":"x","conditions":[{"field":"weight","operator":"between","value":1}],"locationTypes":["rack"]}`},
		{"unknown location type", `{"name":"x","locationTypes":["attic"]}`},
		{"no location types", `{"name":"x","locationTypes":[]}`},
		{"no name", `{"locationTypes":["rack"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(router, http.MethodPost, "/api/v1/rules", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, errors.CodeValidationError, decodeError(t, rec.Body.Bytes())["code"])
		})
	}
}

func TestUpdateRule_DefaultsActive(t *testing.T) {
	var got application.UpdateRuleCommand
	svc := &mockRuleService{
		updateFn: func(ctx context.Context, cmd application.UpdateRuleCommand) (*application.RuleDTO, error) {
			got = cmd
			return &application.RuleDTO{ID: cmd.RuleID, Active: cmd.Active}, nil
		},
	}
	router := newTestRouter(NewRuleHandler(svc, testLogger))

	rec := performRequest(router, http.MethodPut, "/api/v1/rules/r-1", heavyRuleBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "r-1", got.RuleID)
	assert.True(t, got.Active)

	rec = performRequest(router, http.MethodPut, "/api/v1/rules/r-1", `{"name":"off","locationTypes":["rack"],"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, got.Active)
}

func TestDeleteRule(t *testing.T) {
	deleted := ""
	svc := &mockRuleService{
		deleteFn: func(ctx context.Context, ruleID string) error {
			if ruleID == "missing" {
				return errors.ErrNotFound("rule")
			}
			deleted = ruleID
			return nil
		},
	}
	router := newTestRouter(NewRuleHandler(svc, testLogger))

	rec := performRequest(router, http.MethodDelete, "/api/v1/rules/r-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "r-1", deleted)

	rec = performRequest(router, http.MethodDelete, "/api/v1/rules/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRules_ActiveFilter(t *testing.T) {
	var activeOnly bool
	svc := &mockRuleService{
		listFn: func(ctx context.Context, only bool) ([]application.RuleDTO, error) {
			activeOnly = only
			return []application.RuleDTO{{ID: "r-1"}, {ID: "r-2"}}, nil
		},
		getFn: func(ctx context.Context, ruleID string) (*application.RuleDTO, error) {
			return &application.RuleDTO{ID: ruleID}, nil
		},
	}
	router := newTestRouter(NewRuleHandler(svc, testLogger))

	rec := performRequest(router, http.MethodGet, "/api/v1/rules?active=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, activeOnly)

	var body struct {
		Data  []application.RuleDTO `json:"data"`
		Total int                   `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)

	performRequest(router, http.MethodGet, "/api/v1/rules", "")
	assert.False(t, activeOnly)

	rec = performRequest(router, http.MethodGet, "/api/v1/rules/r-9", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
