package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/services"
)

// RoomHandler exposes room management over HTTP
type RoomHandler struct {
	roomRepo           *database.RoomRepository
	reservationService *services.ReservationService
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomRepo *database.RoomRepository, reservationService *services.ReservationService) *RoomHandler {
	return &RoomHandler{
		roomRepo:           roomRepo,
		reservationService: reservationService,
	}
}

// CreateRoom registers a new room
// POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room := &models.Room{
		RoomNumber:  req.RoomNumber,
		RoomType:    req.RoomType,
		Price:       req.Price,
		Facilities:  req.Facilities,
		Floor:       req.Floor,
		Capacity:    req.Capacity,
		Description: req.Description,
		PictureURL:  req.PictureURL,
	}

	if err := h.roomRepo.Create(room); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRoom retrieves a single room
// GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// ListRooms retrieves rooms with optional filters
// GET /api/v1/rooms?status=&room_type=&floor=
func (h *RoomHandler) ListRooms(c *gin.Context) {
	filter := models.RoomFilter{}

	if status := c.Query("status"); status != "" {
		filter.Status = models.RoomStatus(status)
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
			return
		}
	}
	if roomType := c.Query("room_type"); roomType != "" {
		filter.RoomType = models.RoomType(roomType)
		if !filter.RoomType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown room_type filter"})
			return
		}
	}
	if floor := c.Query("floor"); floor != "" {
		parsed, err := strconv.Atoi(floor)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "floor must be an integer"})
			return
		}
		filter.Floor = parsed
	}

	rooms, err := h.roomRepo.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// UpdateRoom applies a partial update to a room. Status may only be set to
// Available or Maintenance by hand; the reservation engine owns the rest.
// PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Status != nil && *req.Status != room.Status {
		active, err := h.reservationService.RoomHasActive(room.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if active {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "update_blocked",
				"message": "room status is engine-owned while reservations are active",
			})
			return
		}
	}

	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.Price != nil {
		room.Price = *req.Price
	}
	if req.Facilities != nil {
		room.Facilities = *req.Facilities
	}
	if req.Status != nil {
		room.Status = *req.Status
	}
	if req.Floor != nil {
		room.Floor = *req.Floor
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Description != nil {
		room.Description = req.Description
	}
	if req.PictureURL != nil {
		room.PictureURL = req.PictureURL
	}

	if err := h.roomRepo.Update(room); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// DeleteRoom removes a room unless an active reservation references it
// DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomID := c.Param("id")

	if err := h.reservationService.CanDeleteRoom(roomID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.roomRepo.Delete(roomID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}
