package admin

import (
	"context"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, f repository.UserFilter, limit, offset int) ([]domain.User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, role string) (int64, error)
}

type HostelReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hostel, error)
}

type MachineCounter interface {
	Count(ctx context.Context) (int64, error)
}

type BookingCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error)
	CountActiveForUser(ctx context.Context, userID int64) (int64, error)
}

type RevenueReader interface {
	PaidTotal(ctx context.Context) (int64, error)
}
