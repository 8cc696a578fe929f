package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/hallbooking/internal/auth"
	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/payment"
	"github.com/Domenick1991/hallbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, p domain.Principal, input booking.CreateBookingInput) (*booking.CreateBookingResult, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CreateBookingResult), args.Error(1)
}

func (m *MockBookingUseCase) VerifyPayment(ctx context.Context, input booking.VerifyPaymentInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListMyBookings(ctx context.Context, p domain.Principal) ([]domain.Booking, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, p domain.Principal, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

var (
	customer = domain.Principal{ID: 5, Role: domain.RoleUser}
	admin    = domain.Principal{ID: 1, Role: domain.RoleAdmin}
)

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == "" {
		c.Request = httptest.NewRequest(method, target, nil)
	} else {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func storedBooking() *domain.Booking {
	return &domain.Booking{
		ID:     9,
		UserID: 5,
		HallID: 3,
		Span: domain.Span{
			StartDate: time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
			StartTime: domain.Clock(10 * 60),
			EndTime:   domain.Clock(14 * 60),
		},
		Status:        domain.BookingStatusBooked,
		PaymentMode:   domain.PaymentModeOnline,
		PaymentStatus: domain.PaymentStatusPending,
		TotalPrice:    650,
		OrderID:       "order_1",
		CreatedAt:     time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC),
	}
}

func TestBookingHandler_createOnline(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "rzp_key")

	c, w := testContext("POST", "/bookings",
		`{"hall_id":3,"start_date":"2025-06-07","end_date":"2025-06-07","start_time":"10:00","end_time":"14:00","payment_mode":"online"}`)
	auth.SetPrincipal(c, customer)

	input := booking.CreateBookingInput{
		HallID: 3, StartDate: "2025-06-07", EndDate: "2025-06-07",
		StartTime: "10:00", EndTime: "14:00", PaymentMode: "online",
	}
	mockService.On("CreateBooking", mock.Anything, customer, input).Return(&booking.CreateBookingResult{
		Booking: storedBooking(),
		Order:   &payment.Order{ID: "order_1", Amount: 65000, Currency: "INR"},
	}, nil)

	handler.create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp createBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order_1", resp.OrderID)
	assert.Equal(t, "rzp_key", resp.KeyID)
	assert.Equal(t, int64(65000), resp.Amount)
	assert.Equal(t, "2025-06-07", resp.Booking.StartDate)
	assert.Equal(t, "10:00", resp.Booking.StartTime)
	assert.Equal(t, "pending", resp.Booking.PaymentStatus)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_createVenueHasNoOrder(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "rzp_key")

	c, w := testContext("POST", "/bookings",
		`{"hall_id":3,"start_date":"2025-06-07","end_date":"2025-06-07","start_time":"10:00","end_time":"14:00"}`)
	auth.SetPrincipal(c, customer)

	b := storedBooking()
	b.PaymentMode = domain.PaymentModeVenue
	b.OrderID = ""
	mockService.On("CreateBooking", mock.Anything, customer, mock.Anything).
		Return(&booking.CreateBookingResult{Booking: b}, nil)

	handler.create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "razorpay_order_id")
	assert.NotContains(t, w.Body.String(), "razorpay_key_id")
}

func TestBookingHandler_createErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"conflict", domain.ErrConflict, http.StatusConflict},
		{"bad duration", domain.ErrInvalidDuration, http.StatusBadRequest},
		{"gateway down", domain.ErrPaymentGateway, http.StatusBadGateway},
		{"missing hall", domain.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService, "")

			c, w := testContext("POST", "/bookings", `{"hall_id":3}`)
			auth.SetPrincipal(c, customer)
			mockService.On("CreateBooking", mock.Anything, customer, mock.Anything).Return(nil, tt.err)

			handler.create(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestBookingHandler_createRequiresPrincipal(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("POST", "/bookings", `{"hall_id":3}`)

	handler.create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingHandler_verifyPayment(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("POST", "/bookings/9/verify-payment",
		`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	paid := storedBooking()
	paid.PaymentStatus = domain.PaymentStatusSuccess
	mockService.On("VerifyPayment", mock.Anything, booking.VerifyPaymentInput{
		BookingID: 9, OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
	}).Return(paid, nil)

	handler.verifyPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payment_status":"success"`)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_verifyPaymentRejectsBadSignature(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("POST", "/bookings/9/verify-payment",
		`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"forged"}`)
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	mockService.On("VerifyPayment", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidSignature)

	handler.verifyPayment(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestBookingHandler_verifyPaymentMissingFields(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("POST", "/bookings/9/verify-payment", `{"razorpay_order_id":"order_1"}`)
	c.Params = gin.Params{{Key: "id", Value: "9"}}

	handler.verifyPayment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "VerifyPayment", mock.Anything, mock.Anything)
}

func TestBookingHandler_mine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("GET", "/bookings/my", "")
	auth.SetPrincipal(c, customer)
	mockService.On("ListMyBookings", mock.Anything, customer).Return([]domain.Booking{*storedBooking()}, nil)

	handler.mine(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []bookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(9), resp[0].ID)
	assert.Equal(t, "14:00", resp[0].EndTime)
}

func TestBookingHandler_get(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("GET", "/bookings/9", "")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	auth.SetPrincipal(c, admin)
	mockService.On("GetBooking", mock.Anything, admin, int64(9)).Return(storedBooking(), nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_getInvalidID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("GET", "/bookings/abc", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	auth.SetPrincipal(c, customer)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("DELETE", "/bookings/9", "")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	auth.SetPrincipal(c, customer)

	cancelled := storedBooking()
	cancelled.Status = domain.BookingStatusCancelled
	mockService.On("CancelBooking", mock.Anything, customer, int64(9)).Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
}

func TestBookingHandler_cancelForbidden(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService, "")

	c, w := testContext("DELETE", "/bookings/9", "")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	auth.SetPrincipal(c, customer)
	mockService.On("CancelBooking", mock.Anything, customer, int64(9)).Return(nil, domain.ErrForbidden)

	handler.cancel(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
