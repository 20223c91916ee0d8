package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/models"
)

// respondError maps a domain error to its HTTP status. Validation failures
// are 400, missing records 404, and rule violations that depend on current
// state (conflicts, transitions, deletion protection) are 409.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date_range", "message": err.Error()})
	case errors.Is(err, models.ErrCapacityExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity_exceeded", "message": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, models.ErrDateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "date_conflict", "message": err.Error()})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": err.Error()})
	case errors.Is(err, models.ErrDeletionBlocked):
		c.JSON(http.StatusConflict, gin.H{"error": "deletion_blocked", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Something went wrong"})
	}
}
