package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/service/availability"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type AvailabilityHandler struct {
	service availability.AvailabilityUseCase
}

func NewAvailabilityHandler(service availability.AvailabilityUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/halls/:id/availability", h.dates)
	router.GET("/halls/:id/slots", h.slots)
	router.GET("/calendar", h.calendar)
}

func (h *AvailabilityHandler) dates(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	month := c.Query("month")
	dates, err := h.service.AvailableDates(c.Request.Context(), id, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hall_id":         id,
		"month":           month,
		"available_dates": formatDates(dates),
	})
}

func (h *AvailabilityHandler) slots(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	date := c.Query("date")
	slots, err := h.service.AvailableSlots(c.Request.Context(), id, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"hall_id":         id,
		"date":            date,
		"available_slots": slots,
	})
}

func (h *AvailabilityHandler) calendar(c *gin.Context) {
	month := c.Query("month")
	calendar, err := h.service.Calendar(c.Request.Context(), month)
	if err != nil {
		writeError(c, err)
		return
	}
	halls := make(map[string][]string, len(calendar))
	for hallID, dates := range calendar {
		halls[strconv.FormatInt(hallID, 10)] = formatDates(dates)
	}
	c.JSON(http.StatusOK, gin.H{"month": month, "halls": halls})
}

func formatDates(dates []time.Time) []string {
	return lo.Map(dates, func(d time.Time, _ int) string { return d.Format(domain.DateLayout) })
}
