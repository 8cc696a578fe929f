package api

import (
	"net/http"

	"github.com/Domenick1991/hallbooking/internal/domain"
	"github.com/Domenick1991/hallbooking/internal/service/halls"
	"github.com/gin-gonic/gin"
)

type HallHandler struct {
	service halls.HallUseCase
}

func NewHallHandler(service halls.HallUseCase) *HallHandler {
	return &HallHandler{service: service}
}

// Register mounts the public reads on public and the mutations on admin,
// which must already require an admin principal.
func (h *HallHandler) Register(public, admin *gin.RouterGroup) {
	public.GET("/halls", h.list)
	public.GET("/halls/search", h.search)
	public.GET("/halls/filter", h.filter)
	public.GET("/halls/:id", h.get)

	admin.POST("/halls", h.create)
	admin.PUT("/halls/:id", h.update)
	admin.DELETE("/halls/:id", h.delete)
	admin.GET("/admin/halls", h.owned)
}

func (h *HallHandler) list(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 10)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.service.List(c.Request.Context(), domain.Page{Number: page, Limit: limit})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HallHandler) search(c *gin.Context) {
	result, err := h.service.SearchByName(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HallHandler) filter(c *gin.Context) {
	result, err := h.service.FilterByLocation(c.Request.Context(), c.Query("location"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *HallHandler) get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	hall, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hall)
}

func (h *HallHandler) create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req halls.HallInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hall, err := h.service.CreateHall(c.Request.Context(), p, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, hall)
}

func (h *HallHandler) update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req halls.HallInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hall, err := h.service.UpdateHall(c.Request.Context(), p, id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, hall)
}

func (h *HallHandler) delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteHall(c.Request.Context(), p, id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hall deleted"})
}

func (h *HallHandler) owned(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	result, err := h.service.ListOwned(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
