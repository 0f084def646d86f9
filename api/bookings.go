package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/Domenick1991/chargebooking/internal/service/booking"
	"github.com/Domenick1991/chargebooking/internal/timeutil"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

// timeField accepts either an absolute UTC instant or a local wall-clock
// time plus a zone id. Exactly one variant must be set; it is resolved once
// here at the boundary.
type timeField struct {
	UTC   *time.Time `json:"utc,omitempty"`
	Local *time.Time `json:"local,omitempty"`
	Zone  string     `json:"zone,omitempty"`
}

func (f timeField) toInput() timeutil.TimeInput {
	if f.UTC != nil {
		return timeutil.UTCInput(*f.UTC)
	}
	if f.Local != nil {
		return timeutil.LocalInput(*f.Local, f.Zone)
	}
	return timeutil.TimeInput{}
}

type createBookingRequest struct {
	OwnerID   string    `json:"owner_id"`
	StationID string    `json:"station_id"`
	Start     timeField `json:"start"`
	End       timeField `json:"end"`
}

type updateBookingRequest struct {
	OwnerID string    `json:"owner_id"`
	Start   timeField `json:"start"`
	End     timeField `json:"end"`
}

type operatorActionRequest struct {
	OperatorID string `json:"operator_id"`
}

type cancelBookingRequest struct {
	OwnerID string `json:"owner_id"`
}

type bookingResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	StationID    string     `json:"station_id"`
	StartUTC     string     `json:"start_utc"`
	EndUTC       string     `json:"end_utc"`
	Status       string     `json:"status"`
	IsAuthActive bool       `json:"is_auth_active"`
	QRToken      string     `json:"qr_token"`
	TokenExpires string     `json:"token_expires_at"`
	ValidatedAt  *time.Time `json:"validated_at,omitempty"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:           b.ID,
		OwnerID:      b.OwnerID,
		StationID:    b.StationID,
		StartUTC:     b.StartUTC.Format(time.RFC3339),
		EndUTC:       b.EndUTC.Format(time.RFC3339),
		Status:       string(b.Status),
		IsAuthActive: b.IsAuthActive,
		QRToken:      b.QRToken,
		TokenExpires: b.TokenExpiresAt.Format(time.RFC3339),
		ValidatedAt:  b.ValidatedAt,
	}
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/approve", h.approve)
	router.POST("/:id/reject", h.reject)
	router.POST("/:id/finalize", h.finalize)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		OwnerID:   req.OwnerID,
		StationID: req.StationID,
		Start:     req.Start.toInput(),
		End:       req.End.toInput(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(result))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.UpdateBooking(c.Request.Context(), booking.UpdateBookingInput{
		BookingID: c.Param("id"),
		OwnerID:   req.OwnerID,
		Start:     req.Start.toInput(),
		End:       req.End.toInput(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(result))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("id"), req.OwnerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(result))
}

func (h *BookingHandler) approve(c *gin.Context) {
	h.operatorAction(c, h.service.ApproveBooking)
}

func (h *BookingHandler) reject(c *gin.Context) {
	h.operatorAction(c, h.service.RejectBooking)
}

func (h *BookingHandler) finalize(c *gin.Context) {
	h.operatorAction(c, h.service.FinalizeBooking)
}

func (h *BookingHandler) operatorAction(c *gin.Context, action func(ctx context.Context, bookingID, operatorID string) (*domain.Booking, error)) {
	var req operatorActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := action(c.Request.Context(), c.Param("id"), req.OperatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(result))
}
