package api

import (
	"net/http"

	"github.com/Domenick1991/hallbooking/internal/service/amenities"
	"github.com/gin-gonic/gin"
)

type AmenityHandler struct {
	service amenities.AmenityUseCase
}

func NewAmenityHandler(service amenities.AmenityUseCase) *AmenityHandler {
	return &AmenityHandler{service: service}
}

type createAmenityRequest struct {
	Name string `json:"name" binding:"required"`
}

type assignAmenitiesRequest struct {
	AmenityIDs []int64 `json:"amenity_ids" binding:"required"`
}

// Register mounts the catalogue reads on public and the mutations on admin.
func (h *AmenityHandler) Register(public, admin *gin.RouterGroup) {
	public.GET("/amenities", h.list)
	public.GET("/halls/:id/amenities", h.listByHall)

	admin.POST("/amenities", h.create)
	admin.POST("/halls/:id/amenities", h.assign)
}

func (h *AmenityHandler) list(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AmenityHandler) listByHall(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	result, err := h.service.ListByHall(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hall_id": id, "amenities": result})
}

func (h *AmenityHandler) create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createAmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amenity, err := h.service.CreateAmenity(c.Request.Context(), p, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, amenity)
}

func (h *AmenityHandler) assign(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req assignAmenitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.service.AssignToHall(c.Request.Context(), p, id, req.AmenityIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hall_id": id, "amenities": result})
}
