package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/chargebooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// respondError maps the typed core errors onto HTTP statuses. Inadmissible
// and scan failures keep their machine-readable reason/code in the body so
// callers can branch without string matching.
func respondError(c *gin.Context, err error) {
	var inadmissible *domain.InadmissibleError
	if errors.As(err, &inadmissible) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": string(inadmissible.Reason)})
		return
	}

	var scanErr *domain.ScanError
	if errors.As(err, &scanErr) {
		status := http.StatusForbidden
		if scanErr.Code == domain.ScanNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": string(scanErr.Code)})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrTooLateToModify):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "TooLateToModify"})
	case errors.Is(err, domain.ErrCapacityRace):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "CapacityRace"})
	case errors.Is(err, domain.ErrBadSchedule):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConfiguration):
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
