package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/Domenick1991/chargebooking/internal/repository"
	"github.com/Domenick1991/chargebooking/internal/timeutil"
	"github.com/gin-gonic/gin"
)

type StationHandler struct {
	stations  repository.StationRepository
	schedules repository.ScheduleRepository
}

func NewStationHandler(stations repository.StationRepository, schedules repository.ScheduleRepository) *StationHandler {
	return &StationHandler{stations: stations, schedules: schedules}
}

func (h *StationHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/schedules", h.scheduleRange)
	router.PUT("/:id/schedules", h.upsertSchedule)
}

func (h *StationHandler) list(c *gin.Context) {
	stations, err := h.stations.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (h *StationHandler) get(c *gin.Context) {
	station, err := h.stations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, station)
}

func (h *StationHandler) scheduleRange(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}

	schedules, err := h.schedules.Range(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

type upsertScheduleRequest struct {
	Day           string `json:"day"`
	OpenMinutes   int    `json:"open_minutes"`
	CloseMinutes  int    `json:"close_minutes"`
	MaxConcurrent int    `json:"max_concurrent"`
}

// upsertSchedule writes a day schedule; the repository enforces the window
// shape and the station capacity ceiling. Edits never touch existing
// bookings.
func (h *StationHandler) upsertSchedule(c *gin.Context) {
	var req upsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	day, err := time.Parse("2006-01-02", req.Day)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
		return
	}

	schedule := domain.StationSchedule{
		StationID:     c.Param("id"),
		Day:           timeutil.DayStart(day),
		OpenMinutes:   req.OpenMinutes,
		CloseMinutes:  req.CloseMinutes,
		MaxConcurrent: req.MaxConcurrent,
	}
	if err := h.schedules.Upsert(c.Request.Context(), &schedule); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}
