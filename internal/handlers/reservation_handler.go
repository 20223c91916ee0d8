package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/services"
)

// ReservationHandler exposes the reservation lifecycle over HTTP
type ReservationHandler struct {
	reservationService *services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservationService *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservation books a room for a customer
// POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.reservationService.CreateReservation(&req, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, detail)
}

// GetReservation retrieves a single reservation
// GET /api/v1/reservations/:id
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	detail, err := h.reservationService.GetReservation(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListReservations retrieves reservations with optional filters
// GET /api/v1/reservations?status=&room_id=&customer_id=&from=&to=
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	filter := models.ReservationFilter{
		RoomID:     c.Query("room_id"),
		CustomerID: c.Query("customer_id"),
	}

	if status := c.Query("status"); status != "" {
		filter.Status = models.ReservationStatus(status)
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
			return
		}
	}

	if from := c.Query("from"); from != "" {
		parsed, err := models.ParseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be formatted YYYY-MM-DD"})
			return
		}
		filter.From = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := models.ParseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be formatted YYYY-MM-DD"})
			return
		}
		filter.To = parsed
	}

	reservations, err := h.reservationService.ListReservations(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// TransitionReservation checks a reservation in or out, or refunds it
// POST /api/v1/reservations/:id/transition
func (h *ReservationHandler) TransitionReservation(c *gin.Context) {
	var req models.TransitionReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	detail, err := h.reservationService.TransitionReservation(c.Param("id"), req.TargetStatus, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// BatchTransition applies one status change across many reservations and
// reports the outcome for each
// POST /api/v1/reservations/batch-transition
func (h *ReservationHandler) BatchTransition(c *gin.Context) {
	var req models.BatchTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	results, err := h.reservationService.BatchTransition(&req, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// SweepOverdue force-runs the overdue checkout sweep that otherwise runs
// on the background schedule
// POST /api/v1/reservations/sweep-overdue
func (h *ReservationHandler) SweepOverdue(c *gin.Context) {
	swept, err := h.reservationService.SweepOverdue(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"swept": swept})
}

// DeleteReservation removes a reservation, releasing its room if it was
// still active
// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	if err := h.reservationService.DeleteReservation(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted"})
}
