package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if u != nil && args.Error(0) == nil {
		u.ID = 10
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, f repository.UserFilter, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, f, limit, offset)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

type MockHostelReader struct {
	mock.Mock
}

func (m *MockHostelReader) GetByID(ctx context.Context, id int64) (*domain.Hostel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hostel), args.Error(1)
}

type MockMachineCounter struct {
	mock.Mock
}

func (m *MockMachineCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingCounter struct {
	mock.Mock
}

func (m *MockBookingCounter) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingCounter) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingCounter) CountActiveForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRevenueReader struct {
	mock.Mock
}

func (m *MockRevenueReader) PaidTotal(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService() (*Service, *MockUserRepository, *MockHostelReader, *MockMachineCounter, *MockBookingCounter, *MockRevenueReader) {
	users := new(MockUserRepository)
	hostels := new(MockHostelReader)
	machines := new(MockMachineCounter)
	bookings := new(MockBookingCounter)
	revenue := new(MockRevenueReader)
	return NewService(users, hostels, machines, bookings, revenue), users, hostels, machines, bookings, revenue
}

func TestListUsers_UnknownRole(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.ListUsers(context.Background(), repository.UserFilter{Role: "superuser"}, 20, 0)

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateStaff_Success(t *testing.T) {
	svc, users, hostels, _, _, _ := newTestService()
	hostelID := int64(3)

	users.On("GetByEmail", mock.Anything, "warden@hostel.edu").Return(nil, repository.ErrNotFound)
	hostels.On("GetByID", mock.Anything, hostelID).Return(&domain.Hostel{ID: 3}, nil)
	users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	u, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "  Warden@Hostel.edu ",
		Password: "sup3rsecret",
		Name:     "Warden",
		HostelID: &hostelID,
	})

	assert.NoError(t, err)
	assert.Equal(t, "warden@hostel.edu", u.Email)
	assert.Equal(t, domain.RoleStaff, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("sup3rsecret")))
}

func TestCreateStaff_EmailTaken(t *testing.T) {
	svc, users, _, _, _, _ := newTestService()

	users.On("GetByEmail", mock.Anything, "warden@hostel.edu").Return(&domain.User{ID: 2}, nil)

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "warden@hostel.edu",
		Password: "sup3rsecret",
		Name:     "Warden",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateStaff_ShortPassword(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "warden@hostel.edu",
		Password: "short",
		Name:     "Warden",
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateStaff_UnknownHostel(t *testing.T) {
	svc, users, hostels, _, _, _ := newTestService()
	hostelID := int64(99)

	users.On("GetByEmail", mock.Anything, "warden@hostel.edu").Return(nil, repository.ErrNotFound)
	hostels.On("GetByID", mock.Anything, hostelID).Return(nil, repository.ErrNotFound)

	_, err := svc.CreateStaff(context.Background(), CreateStaffRequest{
		Email:    "warden@hostel.edu",
		Password: "sup3rsecret",
		Name:     "Warden",
		HostelID: &hostelID,
	})

	assert.ErrorIs(t, err, ErrHostelNotFound)
}

func TestChangeRole_LastAdminGuard(t *testing.T) {
	svc, users, _, _, _, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)
	users.On("Count", mock.Anything, "admin").Return(int64(1), nil)

	_, err := svc.ChangeRole(context.Background(), 1, "staff")

	assert.ErrorIs(t, err, ErrLastAdmin)
	users.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeRole_DemotionAllowedWithSecondAdmin(t *testing.T) {
	svc, users, _, _, _, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Role: domain.RoleAdmin}, nil)
	users.On("Count", mock.Anything, "admin").Return(int64(2), nil)
	users.On("UpdateFields", mock.Anything, int64(1), map[string]any{"role": "staff"}).Return(nil)

	u, err := svc.ChangeRole(context.Background(), 1, " Staff ")

	assert.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, u.Role)
}

func TestChangeRole_UnknownRole(t *testing.T) {
	svc, _, _, _, _, _ := newTestService()

	_, err := svc.ChangeRole(context.Background(), 1, "superuser")

	assert.ErrorIs(t, err, ErrValidation)
}

func TestBanAndUnban(t *testing.T) {
	svc, users, _, _, _, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
	users.On("UpdateFields", mock.Anything, int64(5), map[string]any{
		"is_banned":  true,
		"ban_reason": "machine abuse",
	}).Return(nil)
	users.On("UpdateFields", mock.Anything, int64(5), map[string]any{
		"is_banned":  false,
		"ban_reason": "",
	}).Return(nil)

	u, err := svc.Ban(context.Background(), 5, " machine abuse ")
	assert.NoError(t, err)
	assert.True(t, u.IsBanned)
	assert.Equal(t, "machine abuse", u.BanReason)

	u, err = svc.Unban(context.Background(), 5)
	assert.NoError(t, err)
	assert.False(t, u.IsBanned)
}

func TestDeleteUser_BlockedByActiveBookings(t *testing.T) {
	svc, users, _, _, bookings, _ := newTestService()

	users.On("GetByID", mock.Anything, int64(5)).Return(&domain.User{ID: 5}, nil)
	bookings.On("CountActiveForUser", mock.Anything, int64(5)).Return(int64(2), nil)

	err := svc.DeleteUser(context.Background(), 5)

	assert.ErrorIs(t, err, ErrHasActiveBookings)
	users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDashboard_Aggregates(t *testing.T) {
	svc, users, _, machines, bookings, revenue := newTestService()

	users.On("Count", mock.Anything, "").Return(int64(10), nil)
	users.On("Count", mock.Anything, "student").Return(int64(8), nil)
	users.On("Count", mock.Anything, "staff").Return(int64(1), nil)
	machines.On("Count", mock.Anything).Return(int64(15), nil)
	bookings.On("Count", mock.Anything).Return(int64(120), nil)
	bookings.On("CountByStatus", mock.Anything, domain.BookingConfirmed).Return(int64(4), nil)
	bookings.On("CountByStatus", mock.Anything, domain.BookingInProgress).Return(int64(2), nil)
	bookings.On("CountByStatus", mock.Anything, domain.BookingCompleted).Return(int64(100), nil)
	revenue.On("PaidTotal", mock.Anything).Return(int64(2400), nil)

	stats, err := svc.Dashboard(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Equal(t, int64(6), stats.ActiveBookings)
	assert.Equal(t, int64(100), stats.CompletedBookings)
	assert.Equal(t, int64(2400), stats.Revenue)
}
