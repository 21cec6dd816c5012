package machine

import (
	"context"
	"errors"
	"strings"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type Service struct {
	machines MachineRepository
	hostels  HostelReader
	bookings BookingCounter
}

func NewService(machines MachineRepository, hostels HostelReader, bookings BookingCounter) *Service {
	return &Service{machines: machines, hostels: hostels, bookings: bookings}
}

func (s *Service) Create(ctx context.Context, req CreateMachineRequest) (*domain.Machine, error) {
	mt := domain.MachineType(req.Type)
	if !mt.Valid() || strings.TrimSpace(req.Label) == "" || req.CostPerUse <= 0 {
		return nil, ErrValidation
	}

	if _, err := s.hostels.GetByID(ctx, req.HostelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}

	m := &domain.Machine{
		HostelID:   req.HostelID,
		Label:      strings.TrimSpace(req.Label),
		Type:       mt,
		Status:     domain.MachineAvailable,
		CostPerUse: req.CostPerUse,
	}
	if err := s.machines.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Machine, error) {
	m, err := s.machines.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *Service) ListByHostel(ctx context.Context, hostelID int64, machineType, status string) ([]domain.Machine, error) {
	if machineType != "" && !domain.MachineType(machineType).Valid() {
		return nil, ErrValidation
	}
	if status != "" && !domain.MachineStatus(status).Valid() {
		return nil, ErrValidation
	}
	return s.machines.ListByHostel(ctx, hostelID, repository.MachineFilter{Type: machineType, Status: status})
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateMachineRequest) (*domain.Machine, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Label != "" {
		m.Label = strings.TrimSpace(req.Label)
	}
	if req.CostPerUse > 0 {
		m.CostPerUse = req.CostPerUse
	}
	if req.HostelID > 0 && req.HostelID != m.HostelID {
		if _, err := s.hostels.GetByID(ctx, req.HostelID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrValidation
			}
			return nil, err
		}
		m.HostelID = req.HostelID
	}

	if err := s.machines.Update(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

// SetStatus transitions a machine and appends a maintenance record. in_use is
// reserved for the booking flow and cannot be set by hand.
func (s *Service) SetStatus(ctx context.Context, machineID, actorID int64, req SetStatusRequest) (*domain.Machine, error) {
	status := domain.MachineStatus(req.Status)
	if !status.Valid() || status == domain.MachineInUse {
		return nil, ErrInvalidStatus
	}

	m, err := s.machines.SetStatus(ctx, machineID, actorID, status, req.Note)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m.Status = status
	return m, nil
}

func (s *Service) MaintenanceHistory(ctx context.Context, machineID int64) ([]domain.MaintenanceRecord, error) {
	if _, err := s.Get(ctx, machineID); err != nil {
		return nil, err
	}
	return s.machines.ListMaintenance(ctx, machineID)
}

// Delete removes a machine that has no confirmed or in-progress bookings.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	cnt, err := s.bookings.CountActiveForMachine(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrHasBookings
	}

	if err := s.machines.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
