package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

// Service contains all business logic for authentication
type Service struct {
	users              UserRepository
	hostels            HostelReader
	jwt                jwtService
	studentEmailDomain string
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(users UserRepository, hostels HostelReader, jwt jwtService, studentEmailDomain string) *Service {
	return &Service{
		users:              users,
		hostels:            hostels,
		jwt:                jwt,
		studentEmailDomain: strings.TrimPrefix(strings.ToLower(studentEmailDomain), "@"),
	}
}

// RegisterStudent creates a student account. The email must belong to the
// configured campus domain and the hostel/room fields are mandatory.
func (s *Service) RegisterStudent(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !strings.HasSuffix(email, "@"+s.studentEmailDomain) {
		return nil, ErrEmailDomain
	}
	if req.HostelID == 0 || strings.TrimSpace(req.RoomNumber) == "" {
		return nil, ErrHostelRequired
	}

	if _, err := s.hostels.GetByID(ctx, req.HostelID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHostelRequired
		}
		return nil, err
	}

	if err := s.validateEmailUnique(ctx, email); err != nil {
		return nil, err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	hostelID := req.HostelID
	user := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleStudent,
		HostelID:     &hostelID,
		RoomNumber:   strings.TrimSpace(req.RoomNumber),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and returns an access token. Repeated failures
// lock the account for a while.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	if user.IsBanned {
		return nil, ErrAccountBanned
	}
	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		failedAttempts := user.FailedLoginAttempts + 1
		updates := map[string]any{"failed_login_attempts": failedAttempts}
		if failedAttempts >= maxFailedLoginAttempts {
			updates["locked_until"] = now.Add(lockoutDuration)
		}
		if updateErr := s.users.UpdateFields(ctx, user.ID, updates); updateErr != nil {
			return nil, updateErr
		}
		if failedAttempts >= maxFailedLoginAttempts {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		if err := s.users.UpdateFields(ctx, user.ID, map[string]any{
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}); err != nil {
			return nil, err
		}
	}

	accessToken, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: accessToken}, nil
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile changes the mutable profile fields. Empty fields are left
// untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	fields := map[string]any{}
	if v := strings.TrimSpace(req.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		fields["phone"] = v
	}
	if v := strings.TrimSpace(req.RoomNumber); v != "" {
		fields["room_number"] = v
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	return s.Me(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdateFields(ctx, userID, map[string]any{
		"password_hash":         hash,
		"failed_login_attempts": 0,
		"locked_until":          nil,
	})
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailTaken
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
