package api

import (
	"net/http"

	"github.com/Domenick1991/hallbooking/internal/service/analytics"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service analytics.AnalyticsUseCase
}

func NewAnalyticsHandler(service analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Register expects router to require an admin principal.
func (h *AnalyticsHandler) Register(router *gin.RouterGroup) {
	router.GET("/admin/analytics/revenue/total", h.totalRevenue)
	router.GET("/admin/analytics/revenue/monthly", h.monthlyRevenue)
	router.GET("/admin/analytics/revenue/halls", h.revenuePerHall)
	router.GET("/admin/analytics/bookings/halls", h.bookingsPerHall)
	router.GET("/admin/analytics/payments/stats", h.paymentStats)
	router.GET("/admin/stats", h.adminStats)
}

func (h *AnalyticsHandler) totalRevenue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	total, err := h.service.TotalRevenue(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_revenue": total})
}

func (h *AnalyticsHandler) monthlyRevenue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	year, err := intQuery(c, "year", 0)
	if err != nil {
		writeError(c, err)
		return
	}
	months, err := h.service.MonthlyRevenue(c.Request.Context(), p, year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "monthly_revenue": months})
}

func (h *AnalyticsHandler) revenuePerHall(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	halls, err := h.service.RevenuePerHall(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, halls)
}

func (h *AnalyticsHandler) bookingsPerHall(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	counts, err := h.service.BookingCountPerHall(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *AnalyticsHandler) paymentStats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	stats, err := h.service.PaymentStats(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AnalyticsHandler) adminStats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	stats, err := h.service.AdminStats(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
