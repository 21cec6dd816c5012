package message

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrSelfMessage      = errors.New("cannot message yourself")
	ErrNotFound         = errors.New("message not found")
)
