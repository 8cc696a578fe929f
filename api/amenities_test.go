package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/Domenick1991/hallbooking/internal/auth"
	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAmenityUseCase is a mock implementation of amenities.AmenityUseCase
type MockAmenityUseCase struct {
	mock.Mock
}

func (m *MockAmenityUseCase) CreateAmenity(ctx context.Context, p domain.Principal, name string) (*domain.Amenity, error) {
	args := m.Called(ctx, p, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Amenity), args.Error(1)
}

func (m *MockAmenityUseCase) AssignToHall(ctx context.Context, p domain.Principal, hallID int64, amenityIDs []int64) ([]domain.Amenity, error) {
	args := m.Called(ctx, p, hallID, amenityIDs)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

func (m *MockAmenityUseCase) List(ctx context.Context) ([]domain.Amenity, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

func (m *MockAmenityUseCase) ListByHall(ctx context.Context, hallID int64) ([]domain.Amenity, error) {
	args := m.Called(ctx, hallID)
	return args.Get(0).([]domain.Amenity), args.Error(1)
}

func TestAmenityHandler_list(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("GET", "/amenities", "")
	mockService.On("List", mock.Anything).Return([]domain.Amenity{{ID: 4, Name: "Parking"}}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":4,"name":"Parking"}]`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestAmenityHandler_listByHallMissing(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("GET", "/halls/9/amenities", "")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	mockService.On("ListByHall", mock.Anything, int64(9)).Return([]domain.Amenity(nil), domain.ErrNotFound)

	handler.listByHall(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAmenityHandler_create(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("POST", "/amenities", `{"name":"Parking"}`)
	auth.SetPrincipal(c, admin)
	mockService.On("CreateAmenity", mock.Anything, admin, "Parking").Return(&domain.Amenity{ID: 4, Name: "Parking"}, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":4,"name":"Parking"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestAmenityHandler_createDuplicate(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("POST", "/amenities", `{"name":"parking"}`)
	auth.SetPrincipal(c, admin)
	mockService.On("CreateAmenity", mock.Anything, admin, "parking").Return(nil, domain.ErrAlreadyExists)

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAmenityHandler_createMissingName(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("POST", "/amenities", `{}`)
	auth.SetPrincipal(c, admin)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateAmenity", mock.Anything, mock.Anything, mock.Anything)
}

func TestAmenityHandler_assign(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("POST", "/halls/3/amenities", `{"amenity_ids":[4,5]}`)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	auth.SetPrincipal(c, admin)
	mockService.On("AssignToHall", mock.Anything, admin, int64(3), []int64{4, 5}).
		Return([]domain.Amenity{{ID: 4, Name: "Parking"}, {ID: 5, Name: "Stage"}}, nil)

	handler.assign(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Stage"`)
	mockService.AssertExpectations(t)
}

func TestAmenityHandler_assignForbidden(t *testing.T) {
	mockService := &MockAmenityUseCase{}
	handler := NewAmenityHandler(mockService)

	c, w := testContext("POST", "/halls/3/amenities", `{"amenity_ids":[4]}`)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	auth.SetPrincipal(c, admin)
	mockService.On("AssignToHall", mock.Anything, admin, int64(3), []int64{4}).
		Return([]domain.Amenity(nil), domain.ErrForbidden)

	handler.assign(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
