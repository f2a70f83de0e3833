package domain

import "errors"

// Put-away errors. The application layer maps these onto AppError codes.
var (
	ErrPalletNotFound           = errors.New("pallet not found")
	ErrPalletExists             = errors.New("pallet already exists")
	ErrPalletUnavailable        = errors.New("pallet is not waiting for put-away")
	ErrTaskNotFound             = errors.New("put-away task not found")
	ErrTaskNotInProgress        = errors.New("put-away task is not in progress")
	ErrTaskNumberExists         = errors.New("task number already exists")
	ErrConfirmationCodeMismatch = errors.New("confirmation code does not match")
	ErrNoLocationAvailable      = errors.New("no storage location is available")
	ErrLocationNotFound         = errors.New("location not found")
	ErrLocationExists           = errors.New("location code already exists")
	ErrLocationCapacityExceeded = errors.New("location capacity exceeded")
	ErrConfirmationCodeInUse    = errors.New("confirmation code already in use")
	ErrCodeSpaceExhausted       = errors.New("could not generate a unique code")
	ErrRuleNotFound             = errors.New("put-away rule not found")
	ErrInvalidRule              = errors.New("invalid put-away rule")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrInvalidPallet            = errors.New("invalid pallet")
	ErrInvalidLocation          = errors.New("invalid location")
)
