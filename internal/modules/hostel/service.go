package hostel

import (
	"context"
	"errors"
	"strings"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type Service struct {
	hostels  HostelRepository
	machines MachineCounter
}

func NewService(hostels HostelRepository, machines MachineCounter) *Service {
	return &Service{hostels: hostels, machines: machines}
}

func (s *Service) Create(ctx context.Context, req UpsertHostelRequest) (*domain.Hostel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrValidation
	}

	if _, err := s.hostels.GetByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	h := &domain.Hostel{Name: name, Location: strings.TrimSpace(req.Location)}
	if err := s.hostels.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*HostelView, error) {
	h, err := s.hostels.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	counts, err := s.machines.CountsByHostel(ctx, id)
	if err != nil {
		return nil, err
	}
	return &HostelView{Hostel: *h, Counts: *counts}, nil
}

func (s *Service) List(ctx context.Context) ([]HostelView, error) {
	hostels, err := s.hostels.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]HostelView, 0, len(hostels))
	for _, h := range hostels {
		counts, err := s.machines.CountsByHostel(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, HostelView{Hostel: h, Counts: *counts})
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpsertHostelRequest) (*domain.Hostel, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrValidation
	}

	if existing, err := s.hostels.GetByName(ctx, name); err == nil && existing.ID != id {
		return nil, ErrNameTaken
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	h := &domain.Hostel{ID: id, Name: name, Location: strings.TrimSpace(req.Location)}
	if err := s.hostels.Update(ctx, h); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.hostels.GetByID(ctx, id)
}

// Delete removes an empty hostel. Hostels with machines must be emptied
// first.
func (s *Service) Delete(ctx context.Context, id int64) error {
	cnt, err := s.machines.CountByHostel(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrHasMachines
	}

	if err := s.hostels.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
