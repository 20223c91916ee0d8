package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborview/hms-backend/pkg/validator"
)

// RoomType enumerates the room categories on offer.
type RoomType string

const (
	RoomTypeSingle RoomType = "Single"
	RoomTypeDouble RoomType = "Double"
	RoomTypeSuite  RoomType = "Suite"
	RoomTypeDeluxe RoomType = "Deluxe"
)

// Valid reports whether the room type is one of the known categories.
func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypeDeluxe:
		return true
	}
	return false
}

// RoomStatus enumerates occupancy states of a room.
type RoomStatus string

const (
	RoomStatusAvailable   RoomStatus = "Available"
	RoomStatusBooked      RoomStatus = "Booked"
	RoomStatusOccupied    RoomStatus = "Occupied"
	RoomStatusMaintenance RoomStatus = "Maintenance"
)

// Valid reports whether the status is one of the known room states.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomStatusAvailable, RoomStatusBooked, RoomStatusOccupied, RoomStatusMaintenance:
		return true
	}
	return false
}

// DeriveRoomStatus recomputes a room's status from its active reservations.
// Any checked-in reservation outranks booked ones; a room under maintenance
// keeps that status until the directory clears it manually.
func DeriveRoomStatus(current RoomStatus, hasCheckedIn, hasBooked bool) RoomStatus {
	if current == RoomStatusMaintenance {
		return RoomStatusMaintenance
	}
	switch {
	case hasCheckedIn:
		return RoomStatusOccupied
	case hasBooked:
		return RoomStatusBooked
	default:
		return RoomStatusAvailable
	}
}

// Room represents a hotel room and its live occupancy status. The status
// column is owned by the reservation engine while any active reservation
// references the room.
type Room struct {
	ID          string          `json:"id" db:"id"`
	RoomNumber  string          `json:"room_number" db:"room_number"`
	RoomType    RoomType        `json:"room_type" db:"room_type"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Facilities  string          `json:"facilities" db:"facilities"`
	Status      RoomStatus      `json:"status" db:"status"`
	Floor       int             `json:"floor" db:"floor"`
	Capacity    int             `json:"capacity" db:"capacity"`
	Description *string         `json:"description,omitempty" db:"description"`
	PictureURL  *string         `json:"picture_url,omitempty" db:"picture_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateRoomRequest represents the request to register a room
type CreateRoomRequest struct {
	RoomNumber  string          `json:"room_number" binding:"required"`
	RoomType    RoomType        `json:"room_type" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Facilities  string          `json:"facilities"`
	Floor       int             `json:"floor" binding:"required"`
	Capacity    int             `json:"capacity" binding:"required"`
	Description *string         `json:"description,omitempty"`
	PictureURL  *string         `json:"picture_url,omitempty"`
}

// Validate validates the create room request
func (r *CreateRoomRequest) Validate() error {
	if !validator.IsValidRoomNumber(r.RoomNumber) {
		return errors.New("room_number must be exactly three digits")
	}
	if !r.RoomType.Valid() {
		return fmt.Errorf("unknown room_type %q", r.RoomType)
	}
	if r.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if r.Floor < 1 {
		return errors.New("floor must be at least 1")
	}
	if r.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	return nil
}

// UpdateRoomRequest represents a partial update of a room. Nil fields are
// left unchanged. Status may only move between Available and Maintenance;
// Booked/Occupied are engine-owned.
type UpdateRoomRequest struct {
	RoomType    *RoomType        `json:"room_type,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Facilities  *string          `json:"facilities,omitempty"`
	Status      *RoomStatus      `json:"status,omitempty"`
	Floor       *int             `json:"floor,omitempty"`
	Capacity    *int             `json:"capacity,omitempty"`
	Description *string          `json:"description,omitempty"`
	PictureURL  *string          `json:"picture_url,omitempty"`
}

// Validate validates the update room request
func (r *UpdateRoomRequest) Validate() error {
	if r.RoomType != nil && !r.RoomType.Valid() {
		return fmt.Errorf("unknown room_type %q", *r.RoomType)
	}
	if r.Price != nil && r.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if r.Status != nil && *r.Status != RoomStatusAvailable && *r.Status != RoomStatusMaintenance {
		return fmt.Errorf("status may only be set to %s or %s manually", RoomStatusAvailable, RoomStatusMaintenance)
	}
	if r.Floor != nil && *r.Floor < 1 {
		return errors.New("floor must be at least 1")
	}
	if r.Capacity != nil && *r.Capacity < 1 {
		return errors.New("capacity must be at least 1")
	}
	return nil
}

// RoomFilter narrows room listings.
type RoomFilter struct {
	Status   RoomStatus
	RoomType RoomType
	Floor    int
}
