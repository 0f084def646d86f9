package api

import (
	"net/http"

	"github.com/Domenick1991/chargebooking/internal/service/scan"
	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	service scan.ScanUseCase
}

type scanRequest struct {
	Token string `json:"token"`
}

func NewScanHandler(service scan.ScanUseCase) *ScanHandler {
	return &ScanHandler{service: service}
}

func (h *ScanHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.scan)
}

func (h *ScanHandler) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	result, err := h.service.Scan(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(result))
}
