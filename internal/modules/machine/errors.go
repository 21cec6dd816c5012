package machine

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("machine not found")
	ErrInvalidStatus = errors.New("invalid machine status")
	ErrHasBookings   = errors.New("machine has active bookings")
)
