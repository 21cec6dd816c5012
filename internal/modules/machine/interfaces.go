package machine

import (
	"context"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type MachineRepository interface {
	Create(ctx context.Context, m *domain.Machine) error
	GetByID(ctx context.Context, id int64) (*domain.Machine, error)
	ListByHostel(ctx context.Context, hostelID int64, f repository.MachineFilter) ([]domain.Machine, error)
	Update(ctx context.Context, m *domain.Machine) error
	SetStatus(ctx context.Context, machineID, actorID int64, to domain.MachineStatus, note string) (*domain.Machine, error)
	ListMaintenance(ctx context.Context, machineID int64) ([]domain.MaintenanceRecord, error)
	Delete(ctx context.Context, id int64) error
}

type HostelReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Hostel, error)
}

// BookingCounter guards machine deletion against active bookings.
type BookingCounter interface {
	CountActiveForMachine(ctx context.Context, machineID int64) (int64, error)
}
