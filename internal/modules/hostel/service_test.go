package hostel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"dormwash/internal/domain"
	"dormwash/internal/repository"
)

type MockHostelRepository struct {
	mock.Mock
}

func (m *MockHostelRepository) Create(ctx context.Context, h *domain.Hostel) error {
	args := m.Called(ctx, h)
	if h != nil && args.Error(0) == nil {
		h.ID = 1
	}
	return args.Error(0)
}

func (m *MockHostelRepository) GetByID(ctx context.Context, id int64) (*domain.Hostel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hostel), args.Error(1)
}

func (m *MockHostelRepository) GetByName(ctx context.Context, name string) (*domain.Hostel, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hostel), args.Error(1)
}

func (m *MockHostelRepository) List(ctx context.Context) ([]domain.Hostel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hostel), args.Error(1)
}

func (m *MockHostelRepository) Update(ctx context.Context, h *domain.Hostel) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHostelRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockMachineCounter struct {
	mock.Mock
}

func (m *MockMachineCounter) CountsByHostel(ctx context.Context, hostelID int64) (*domain.HostelCounts, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HostelCounts), args.Error(1)
}

func (m *MockMachineCounter) CountByHostel(ctx context.Context, hostelID int64) (int64, error) {
	args := m.Called(ctx, hostelID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreate_DuplicateName(t *testing.T) {
	hostels := new(MockHostelRepository)
	svc := NewService(hostels, new(MockMachineCounter))

	hostels.On("GetByName", mock.Anything, "North Block").Return(&domain.Hostel{ID: 2, Name: "North Block"}, nil)

	_, err := svc.Create(context.Background(), UpsertHostelRequest{Name: "North Block"})

	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreate_Success(t *testing.T) {
	hostels := new(MockHostelRepository)
	svc := NewService(hostels, new(MockMachineCounter))

	hostels.On("GetByName", mock.Anything, "North Block").Return(nil, repository.ErrNotFound)
	hostels.On("Create", mock.Anything, mock.AnythingOfType("*domain.Hostel")).Return(nil)

	h, err := svc.Create(context.Background(), UpsertHostelRequest{Name: "  North Block  ", Location: "Campus Road 1"})

	assert.NoError(t, err)
	assert.Equal(t, "North Block", h.Name)
	assert.Equal(t, int64(1), h.ID)
}

func TestGet_CountsDerivedOnRead(t *testing.T) {
	hostels := new(MockHostelRepository)
	machines := new(MockMachineCounter)
	svc := NewService(hostels, machines)

	hostels.On("GetByID", mock.Anything, int64(3)).Return(&domain.Hostel{ID: 3, Name: "North Block"}, nil)
	machines.On("CountsByHostel", mock.Anything, int64(3)).Return(&domain.HostelCounts{
		TotalMachines:     5,
		Washers:           3,
		Dryers:            2,
		AvailableMachines: 4,
	}, nil)

	view, err := svc.Get(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), view.Counts.TotalMachines)
	assert.Equal(t, int64(3), view.Counts.Washers)
	assert.Equal(t, int64(4), view.Counts.AvailableMachines)
}

func TestUpdate_NameConflictExcludesSelf(t *testing.T) {
	hostels := new(MockHostelRepository)
	svc := NewService(hostels, new(MockMachineCounter))

	hostels.On("GetByName", mock.Anything, "North Block").Return(&domain.Hostel{ID: 3, Name: "North Block"}, nil)
	hostels.On("Update", mock.Anything, mock.AnythingOfType("*domain.Hostel")).Return(nil)
	hostels.On("GetByID", mock.Anything, int64(3)).Return(&domain.Hostel{ID: 3, Name: "North Block"}, nil)

	// Renaming to its own current name is not a conflict.
	_, err := svc.Update(context.Background(), 3, UpsertHostelRequest{Name: "North Block"})
	assert.NoError(t, err)

	// Another hostel taking that name is.
	_, err = svc.Update(context.Background(), 4, UpsertHostelRequest{Name: "North Block"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestDelete_RejectedWhileMachinesExist(t *testing.T) {
	hostels := new(MockHostelRepository)
	machines := new(MockMachineCounter)
	svc := NewService(hostels, machines)

	machines.On("CountByHostel", mock.Anything, int64(3)).Return(int64(2), nil)

	err := svc.Delete(context.Background(), 3)

	assert.ErrorIs(t, err, ErrHasMachines)
	hostels.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_EmptyHostel(t *testing.T) {
	hostels := new(MockHostelRepository)
	machines := new(MockMachineCounter)
	svc := NewService(hostels, machines)

	machines.On("CountByHostel", mock.Anything, int64(3)).Return(int64(0), nil)
	hostels.On("Delete", mock.Anything, int64(3)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 3))
}
