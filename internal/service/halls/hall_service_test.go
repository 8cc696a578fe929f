package halls

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHallRepository struct {
	mock.Mock
}

func (m *MockHallRepository) Create(ctx context.Context, hall *domain.Hall) error {
	args := m.Called(ctx, hall)
	return args.Error(0)
}

func (m *MockHallRepository) Update(ctx context.Context, hall *domain.Hall) error {
	args := m.Called(ctx, hall)
	return args.Error(0)
}

func (m *MockHallRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockHallRepository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hall), args.Error(1)
}

func (m *MockHallRepository) List(ctx context.Context, page domain.Page) ([]domain.Hall, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]domain.Hall), args.Error(1)
}

func (m *MockHallRepository) SearchByName(ctx context.Context, query string) ([]domain.Hall, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]domain.Hall), args.Error(1)
}

func (m *MockHallRepository) FilterByLocation(ctx context.Context, location string) ([]domain.Hall, error) {
	args := m.Called(ctx, location)
	return args.Get(0).([]domain.Hall), args.Error(1)
}

func (m *MockHallRepository) ListByAdmin(ctx context.Context, adminID int64) ([]domain.Hall, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).([]domain.Hall), args.Error(1)
}

func (m *MockHallRepository) ListActive(ctx context.Context) ([]domain.Hall, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hall), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetHalls(ctx context.Context, key string) ([]domain.Hall, bool, error) {
	args := m.Called(ctx, key)
	halls, _ := args.Get(0).([]domain.Hall)
	return halls, args.Bool(1), args.Error(2)
}

func (m *MockCache) SetHalls(ctx context.Context, key string, halls []domain.Hall) error {
	args := m.Called(ctx, key, halls)
	return args.Error(0)
}

func (m *MockCache) GetHall(ctx context.Context, id int64) (*domain.Hall, bool, error) {
	args := m.Called(ctx, id)
	hall, _ := args.Get(0).(*domain.Hall)
	return hall, args.Bool(1), args.Error(2)
}

func (m *MockCache) SetHall(ctx context.Context, hall *domain.Hall) error {
	args := m.Called(ctx, hall)
	return args.Error(0)
}

func (m *MockCache) InvalidateHall(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	admin      = domain.Principal{ID: 1, Role: domain.RoleAdmin}
	otherAdmin = domain.Principal{ID: 2, Role: domain.RoleAdmin}
	user       = domain.Principal{ID: 3, Role: domain.RoleUser}
)

func validInput() HallInput {
	return HallInput{
		Name:     " Grand Hall ",
		Capacity: 200,
		Address:  "1 Main St",
		Location: "Pune",
		RateCard: domain.RateCard{PricePerHour: 100, PricePerDay: 1500, WeekendPriceMultiplier: 1.5, SecurityDeposit: 50},
	}
}

func TestHallInput_Validate(t *testing.T) {
	assert.NoError(t, validInput().Validate())

	mutations := map[string]func(*HallInput){
		"no name":           func(in *HallInput) { in.Name = "  " },
		"no address":        func(in *HallInput) { in.Address = "" },
		"no location":       func(in *HallInput) { in.Location = "" },
		"zero capacity":     func(in *HallInput) { in.Capacity = 0 },
		"negative price":    func(in *HallInput) { in.PricePerHour = -1 },
		"negative deposit":  func(in *HallInput) { in.SecurityDeposit = -1 },
		"multiplier below1": func(in *HallInput) { in.WeekendPriceMultiplier = 0.9 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			assert.ErrorIs(t, in.Validate(), domain.ErrInvalidInput)
		})
	}
}

func TestHallService_CreateHall(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(h *domain.Hall) bool {
		return h.AdminID == 1 && h.Name == "Grand Hall" && h.PricePerDay == 1500
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Hall).ID = 10
	}).Return(nil).Once()
	cache.On("InvalidateHall", ctx, int64(10)).Return(nil).Once()

	hall, err := service.CreateHall(ctx, admin, validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(10), hall.ID)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestHallService_CreateHall_Rejects(t *testing.T) {
	repo := &MockHallRepository{}
	service := NewHallService(repo)
	ctx := context.Background()

	_, err := service.CreateHall(ctx, user, validInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	in := validInput()
	in.Capacity = -5
	_, err = service.CreateHall(ctx, admin, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHallService_UpdateHall_Ownership(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(10)).Return(&domain.Hall{ID: 10, AdminID: 1}, nil)

	_, err := service.UpdateHall(ctx, otherAdmin, 10, validInput())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	repo.On("Update", ctx, mock.AnythingOfType("*domain.Hall")).Return(nil).Once()
	cache.On("InvalidateHall", ctx, int64(10)).Return(errors.New("redis down")).Once()

	hall, err := service.UpdateHall(ctx, admin, 10, validInput())
	require.NoError(t, err, "cache failures must not fail the update")
	assert.Equal(t, "Grand Hall", hall.Name)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestHallService_DeleteHall(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()
	assert.ErrorIs(t, service.DeleteHall(ctx, admin, 99), domain.ErrNotFound)

	repo.On("GetByID", ctx, int64(10)).Return(&domain.Hall{ID: 10, AdminID: 1}, nil).Once()
	repo.On("SoftDelete", ctx, int64(10)).Return(nil).Once()
	cache.On("InvalidateHall", ctx, int64(10)).Return(nil).Once()
	assert.NoError(t, service.DeleteHall(ctx, admin, 10))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestHallService_List_CacheMiss(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()
	page := domain.Page{Number: 2, Limit: 5}
	halls := []domain.Hall{{ID: 6, Name: "Lotus"}}

	cache.On("GetHalls", ctx, "halls:page=2:limit=5").Return(nil, false, nil).Once()
	repo.On("List", ctx, page).Return(halls, nil).Once()
	cache.On("SetHalls", ctx, "halls:page=2:limit=5", halls).Return(nil).Once()

	result, err := service.List(ctx, page)
	assert.NoError(t, err)
	assert.Equal(t, halls, result)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestHallService_List_CacheHit(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()
	halls := []domain.Hall{{ID: 6}}

	cache.On("GetHalls", ctx, "halls:search:name:lot").Return(halls, true, nil).Once()

	result, err := service.SearchByName(ctx, " lot ")
	assert.NoError(t, err)
	assert.Equal(t, halls, result)

	repo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetHalls", mock.Anything, mock.Anything, mock.Anything)
}

func TestHallService_FilterByLocation_CacheError(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()
	halls := []domain.Hall{{ID: 6}}

	cache.On("GetHalls", ctx, "halls:filter:location:Pune").Return(nil, false, errors.New("redis down")).Once()
	repo.On("FilterByLocation", ctx, "Pune").Return(halls, nil).Once()
	cache.On("SetHalls", ctx, "halls:filter:location:Pune", halls).Return(errors.New("redis down")).Once()

	result, err := service.FilterByLocation(ctx, "Pune")
	assert.NoError(t, err)
	assert.Equal(t, halls, result)
}

func TestHallService_GetByID(t *testing.T) {
	repo := &MockHallRepository{}
	cache := &MockCache{}
	service := NewHallService(repo, WithCache(cache))
	ctx := context.Background()
	hall := &domain.Hall{ID: 4, Name: "Rose"}

	cache.On("GetHall", ctx, int64(4)).Return(nil, false, nil).Once()
	repo.On("GetByID", ctx, int64(4)).Return(hall, nil).Once()
	cache.On("SetHall", ctx, hall).Return(nil).Once()

	result, err := service.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, hall, result)

	cache.On("GetHall", ctx, int64(4)).Return(hall, true, nil).Once()
	result, err = service.GetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, hall, result)

	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestHallService_InvalidQueries(t *testing.T) {
	service := NewHallService(&MockHallRepository{})
	ctx := context.Background()

	_, err := service.List(ctx, domain.Page{Number: 0, Limit: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = service.SearchByName(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = service.FilterByLocation(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = service.ListOwned(ctx, user)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
