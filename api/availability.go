package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/chargebooking/internal/service/availability"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	service availability.Calculator
}

func NewAvailabilityHandler(service availability.Calculator) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/availability", h.slots)
}

func (h *AvailabilityHandler) slots(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	granularity := 60
	if raw := c.Query("granularity"); raw != "" {
		granularity, err = strconv.Atoi(raw)
		if err != nil || granularity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "granularity must be a positive integer of minutes"})
			return
		}
	}

	slots, err := h.service.SlotsForDay(c.Request.Context(), c.Param("id"), day, granularity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
