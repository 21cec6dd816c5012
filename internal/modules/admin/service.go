package admin

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type Service struct {
	users    UserRepository
	hostels  HostelReader
	machines MachineCounter
	bookings BookingCounter
	revenue  RevenueReader
}

func NewService(users UserRepository, hostels HostelReader, machines MachineCounter, bookings BookingCounter, revenue RevenueReader) *Service {
	return &Service{
		users:    users,
		hostels:  hostels,
		machines: machines,
		bookings: bookings,
		revenue:  revenue,
	}
}

func (s *Service) ListUsers(ctx context.Context, f repository.UserFilter, limit, offset int) ([]domain.User, error) {
	if f.Role != "" && !domain.UserRole(f.Role).Valid() {
		return nil, ErrValidation
	}
	return s.users.List(ctx, f, limit, offset)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreateStaff provisions a staff account, optionally bound to a hostel.
func (s *Service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 || strings.TrimSpace(req.Name) == "" {
		return nil, ErrValidation
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if req.HostelID != nil {
		if _, err := s.hostels.GetByID(ctx, *req.HostelID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrHostelNotFound
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        req.Phone,
		Role:         domain.RoleStaff,
		HostelID:     req.HostelID,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangeRole moves a user between the role levels. Demoting the last
// remaining admin is refused so the system stays administrable.
func (s *Service) ChangeRole(ctx context.Context, userID int64, role string) (*domain.User, error) {
	newRole := domain.UserRole(strings.ToLower(strings.TrimSpace(role)))
	if !newRole.Valid() {
		return nil, ErrValidation
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Role == domain.RoleAdmin && newRole != domain.RoleAdmin {
		admins, err := s.users.Count(ctx, string(domain.RoleAdmin))
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, ErrLastAdmin
		}
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]any{"role": string(newRole)}); err != nil {
		return nil, err
	}
	u.Role = newRole
	return u, nil
}

func (s *Service) Ban(ctx context.Context, userID int64, reason string) (*domain.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{
		"is_banned":  true,
		"ban_reason": strings.TrimSpace(reason),
	}); err != nil {
		return nil, err
	}
	u.IsBanned = true
	u.BanReason = strings.TrimSpace(reason)
	return u, nil
}

func (s *Service) Unban(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{
		"is_banned":  false,
		"ban_reason": "",
	}); err != nil {
		return nil, err
	}
	u.IsBanned = false
	u.BanReason = ""
	return u, nil
}

// DeleteUser removes an account. Refused while the user still holds
// confirmed or running bookings.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return err
	}

	active, err := s.bookings.CountActiveForUser(ctx, userID)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrHasActiveBookings
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx, ""); err != nil {
		return nil, err
	}
	if stats.Students, err = s.users.Count(ctx, string(domain.RoleStudent)); err != nil {
		return nil, err
	}
	if stats.Staff, err = s.users.Count(ctx, string(domain.RoleStaff)); err != nil {
		return nil, err
	}
	if stats.TotalMachines, err = s.machines.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, err
	}
	confirmed, err := s.bookings.CountByStatus(ctx, domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.bookings.CountByStatus(ctx, domain.BookingInProgress)
	if err != nil {
		return nil, err
	}
	stats.ActiveBookings = confirmed + inProgress
	if stats.CompletedBookings, err = s.bookings.CountByStatus(ctx, domain.BookingCompleted); err != nil {
		return nil, err
	}
	if stats.Revenue, err = s.revenue.PaidTotal(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
