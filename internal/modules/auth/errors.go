package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailDomain        = errors.New("email domain not allowed")
	ErrHostelRequired     = errors.New("students must provide hostel and room")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBanned      = errors.New("account banned")
	ErrAccountLocked      = errors.New("account temporarily locked")
)
