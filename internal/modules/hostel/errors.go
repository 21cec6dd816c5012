package hostel

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("hostel not found")
	ErrNameTaken   = errors.New("hostel name already exists")
	ErrHasMachines = errors.New("hostel still has machines")
)
