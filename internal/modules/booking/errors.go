package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("forbidden")
	ErrNotAvailable            = errors.New("slot not available")
	ErrInsufficientBalance     = errors.New("insufficient wallet balance")
	ErrMachineUnavailable      = errors.New("machine unavailable")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidAccessCode       = errors.New("invalid access code")
	ErrOutsideRedeemWindow     = errors.New("outside redeem window")
	ErrCancelTooLate           = errors.New("too late to cancel")
)
