package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type BookingHandler struct {
	service booking.BookingUseCase
	keyID   string
}

type verifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

type bookingResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	HallID        int64   `json:"hall_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	PaymentMode   string  `json:"payment_mode"`
	PaymentStatus string  `json:"payment_status"`
	TotalPrice    float64 `json:"total_price"`
	OrderID       string  `json:"razorpay_order_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type createBookingResponse struct {
	Message string          `json:"message"`
	Booking bookingResponse `json:"booking"`
	OrderID string          `json:"razorpay_order_id,omitempty"`
	KeyID   string          `json:"razorpay_key_id,omitempty"`
	Amount  int64           `json:"amount,omitempty"`
}

// NewBookingHandler takes the gateway key id handed to clients for checkout.
func NewBookingHandler(service booking.BookingUseCase, keyID string) *BookingHandler {
	return &BookingHandler{service: service, keyID: keyID}
}

// Register mounts the gateway callback on public and everything else on
// authed.
func (h *BookingHandler) Register(public, authed *gin.RouterGroup) {
	public.POST("/bookings/:id/verify-payment", h.verifyPayment)

	authed.POST("/bookings", h.create)
	authed.GET("/bookings/my", h.mine)
	authed.GET("/bookings/:id", h.get)
	authed.DELETE("/bookings/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := createBookingResponse{
		Message: "Booking created. Pay at venue.",
		Booking: toBookingResponse(*result.Booking),
	}
	if result.Order != nil {
		resp.Message = "Proceed with online payment"
		resp.OrderID = result.Order.ID
		resp.KeyID = h.keyID
		resp.Amount = result.Order.Amount
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) verifyPayment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.VerifyPayment(c.Request.Context(), booking.VerifyPaymentInput{
		BookingID: id,
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*b))
}

func (h *BookingHandler) mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	bookings, err := h.service.ListMyBookings(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, lo.Map(bookings, func(b domain.Booking, _ int) bookingResponse {
		return toBookingResponse(b)
	}))
}

func (h *BookingHandler) get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*b))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), p, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(*b))
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		HallID:        b.HallID,
		StartDate:     b.Span.StartDate.Format(domain.DateLayout),
		EndDate:       b.Span.EndDate.Format(domain.DateLayout),
		StartTime:     b.Span.StartTime.String(),
		EndTime:       b.Span.EndTime.String(),
		Status:        string(b.Status),
		PaymentMode:   string(b.PaymentMode),
		PaymentStatus: string(b.PaymentStatus),
		TotalPrice:    b.TotalPrice,
		OrderID:       b.OrderID,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
