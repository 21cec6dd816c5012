package booking

import (
	"context"
	"time"

	"dormwash/internal/domain"
	"dormwash/internal/notification"
)

// BookingRepository defines the storage operations the service needs. Write
// operations that touch money or machine state are atomic in the
// implementation.
type BookingRepository interface {
	CheckAvailability(ctx context.Context, machineID int64, start, end time.Time) (bool, error)
	ReserveSlot(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByQRToken(ctx context.Context, token string) (*domain.Booking, error)
	ListActiveForMachine(ctx context.Context, machineID int64, from, to time.Time) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListByMachine(ctx context.Context, machineID int64, limit, offset int) ([]domain.Booking, error)
	ListByHostel(ctx context.Context, hostelID int64, limit, offset int) ([]domain.Booking, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Booking, error)
	MarkStarted(ctx context.Context, bookingID, machineID int64, now time.Time) error
	MarkCompleted(ctx context.Context, bookingID, machineID int64, now time.Time) error
	CancelWithRefund(ctx context.Context, b *domain.Booking, now time.Time) error
	SaveFeedback(ctx context.Context, bookingID int64, rating int, comment string) error
}

// MachineReader provides machine lookups.
type MachineReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Machine, error)
}

// UserReader provides user lookups for notification targets.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// PushDispatcher queues a web-push notification.
type PushDispatcher interface {
	Dispatch(job notification.PushJob)
}
