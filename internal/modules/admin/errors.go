package admin

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already registered")
	ErrHostelNotFound    = errors.New("hostel not found")
	ErrHasActiveBookings = errors.New("user has active bookings")
	ErrLastAdmin         = errors.New("cannot demote the last admin")
)
