package hostel

import (
	"context"

	"dormwash/internal/domain"
)

type HostelRepository interface {
	Create(ctx context.Context, h *domain.Hostel) error
	GetByID(ctx context.Context, id int64) (*domain.Hostel, error)
	GetByName(ctx context.Context, name string) (*domain.Hostel, error)
	List(ctx context.Context) ([]domain.Hostel, error)
	Update(ctx context.Context, h *domain.Hostel) error
	Delete(ctx context.Context, id int64) error
}

// MachineCounter derives the aggregate machine counts for a hostel.
type MachineCounter interface {
	CountsByHostel(ctx context.Context, hostelID int64) (*domain.HostelCounts, error)
	CountByHostel(ctx context.Context, hostelID int64) (int64, error)
}
