package application

import (
	"context"
	stderrors "errors"

	"github.com/wms-platform/putaway-service/internal/domain"
	"github.com/wms-platform/putaway-service/pkg/errors"
)

// refs names the entities an operation touched, for error details
type refs struct {
	palletID   string
	taskID     string
	locationID string
	ruleID     string
}

// toAppError maps domain sentinels onto AppError codes. Anything else is an
// internal error. The domain error stays reachable through Unwrap.
func toAppError(err error, r refs, operation string) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case stderrors.Is(err, domain.ErrPalletUnavailable):
		return errors.ErrPalletUnavailable(r.palletID).Wrap(err)
	case stderrors.Is(err, domain.ErrPalletNotFound):
		return errors.ErrNotFound("pallet").WithDetail("palletId", r.palletID).Wrap(err)
	case stderrors.Is(err, domain.ErrPalletExists):
		return errors.ErrConflict("pallet already exists").WithDetail("palletId", r.palletID).Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidPallet):
		return errors.ErrValidation("invalid pallet").Wrap(err)
	case stderrors.Is(err, domain.ErrTaskNotFound):
		return errors.ErrTaskNotFound(r.taskID).Wrap(err)
	case stderrors.Is(err, domain.ErrTaskNotInProgress):
		return errors.ErrTaskNotInProgress(r.taskID).Wrap(err)
	case stderrors.Is(err, domain.ErrConfirmationCodeMismatch):
		return errors.ErrConfirmationCodeMismatch(r.locationID).Wrap(err)
	case stderrors.Is(err, domain.ErrNoLocationAvailable):
		return errors.ErrNoLocationAvailable().Wrap(err)
	case stderrors.Is(err, domain.ErrLocationNotFound):
		return errors.ErrLocationNotFound(r.locationID).Wrap(err)
	case stderrors.Is(err, domain.ErrLocationCapacityExceeded):
		return errors.ErrLocationCapacityExceeded(r.locationID).Wrap(err)
	case stderrors.Is(err, domain.ErrLocationExists):
		return errors.ErrConflict("location code already exists").Wrap(err)
	case stderrors.Is(err, domain.ErrConfirmationCodeInUse):
		return errors.ErrConflict("confirmation code already in use").WithDetail("locationId", r.locationID).Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidLocation):
		return errors.ErrValidation("invalid location").Wrap(err)
	case stderrors.Is(err, domain.ErrRuleNotFound):
		return errors.ErrNotFound("put-away rule").WithDetail("ruleId", r.ruleID).Wrap(err)
	case stderrors.Is(err, domain.ErrInvalidRule):
		return errors.ErrValidation(err.Error()).Wrap(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ErrTimeout(operation).Wrap(err)
	default:
		return errors.ErrInternal("failed to " + operation).Wrap(err)
	}
}
