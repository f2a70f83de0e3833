package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/errors"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"pallet unavailable", domain.ErrPalletUnavailable, errors.CodePalletUnavailable, http.StatusConflict},
		{"wrapped task not found", fmt.Errorf("load: %w", domain.ErrTaskNotFound), errors.CodeTaskNotFound, http.StatusNotFound},
		{"code mismatch", domain.ErrConfirmationCodeMismatch, errors.CodeConfirmationCodeMismatch, http.StatusUnprocessableEntity},
		{"no location", domain.ErrNoLocationAvailable, errors.CodeNoLocationAvailable, http.StatusConflict},
		{"capacity", domain.ErrLocationCapacityExceeded, errors.CodeLocationCapacityExceeded, http.StatusConflict},
		{"rule not found", domain.ErrRuleNotFound, errors.CodeNotFound, http.StatusNotFound},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), errors.CodeTimeout, http.StatusGatewayTimeout},
		{"unknown", stderrors.New("disk on fire"), errors.CodeInternalError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.err, refs{palletID: "P1", taskID: "T1", locationID: "L1", ruleID: "R1"}, "do thing")
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatus)
			assert.True(t, stderrors.Is(appErr, tt.err))
		})
	}
}

func TestToAppError_PassesAppErrorThrough(t *testing.T) {
	original := errors.ErrBadRequest("nope")
	assert.Same(t, original, toAppError(original, refs{}, "do thing"))
}
