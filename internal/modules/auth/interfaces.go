package auth

import (
	"context"

	"dormwash/internal/domain"
)

// UserRepository defines the storage operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
}

// HostelReader verifies the hostel a student registers into.
type HostelReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hostel, error)
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
