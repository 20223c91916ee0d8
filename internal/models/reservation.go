package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaxGuests caps the party size of a single reservation regardless of room
// capacity.
const MaxGuests = 100

// ReservationStatus enumerates the lifecycle states of a reservation.
type ReservationStatus string

const (
	StatusBooked     ReservationStatus = "Booked"
	StatusCheckedIn  ReservationStatus = "CheckedIn"
	StatusCheckedOut ReservationStatus = "CheckedOut"
	StatusRefunded   ReservationStatus = "Refunded"
)

// Valid reports whether the status is one of the lifecycle states.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusCheckedIn, StatusCheckedOut, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted.
func (s ReservationStatus) Terminal() bool {
	return s == StatusCheckedOut || s == StatusRefunded
}

// Active reports whether the reservation still occupies its room.
func (s ReservationStatus) Active() bool {
	return s == StatusBooked || s == StatusCheckedIn
}

// CanTransitionTo reports whether the lifecycle table allows s -> target:
// Booked -> CheckedIn or Refunded, CheckedIn -> CheckedOut or Refunded,
// terminal states allow nothing.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	switch s {
	case StatusBooked:
		return target == StatusCheckedIn || target == StatusRefunded
	case StatusCheckedIn:
		return target == StatusCheckedOut || target == StatusRefunded
	default:
		return false
	}
}

// Reservation is a booking of one room by one customer for a half-open
// date range [check_in_date, check_out_date). PaidAmount is computed once
// at confirmation and frozen; the two recorded flags guard at-most-once
// ledger writes.
type Reservation struct {
	ID              string            `json:"id" db:"id"`
	RoomID          string            `json:"room_id" db:"room_id"`
	CustomerID      string            `json:"customer_id" db:"customer_id"`
	CheckInDate     Date              `json:"check_in_date" db:"check_in_date"`
	CheckOutDate    Date              `json:"check_out_date" db:"check_out_date"`
	Guests          int               `json:"guests" db:"guests"`
	SpecialRequests *string           `json:"special_requests,omitempty" db:"special_requests"`
	Status          ReservationStatus `json:"status" db:"status"`
	PaidAmount      decimal.Decimal   `json:"paid_amount" db:"paid_amount"`
	RefundAmount    decimal.Decimal   `json:"refund_amount" db:"refund_amount"`
	IncomeRecorded  bool              `json:"income_recorded" db:"income_recorded"`
	RefundRecorded  bool              `json:"refund_recorded" db:"refund_recorded"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" db:"updated_at"`
}

// Nights returns the whole days between check-in and check-out.
func (r *Reservation) Nights() int {
	return r.CheckInDate.DaysUntil(r.CheckOutDate)
}

// ComputeStayAmount prices a stay: whole nights times the nightly rate,
// fixed to two decimal places.
func ComputeStayAmount(checkIn, checkOut Date, nightlyPrice decimal.Decimal) decimal.Decimal {
	nights := checkIn.DaysUntil(checkOut)
	return nightlyPrice.Mul(decimal.NewFromInt(int64(nights))).Round(2)
}

// IncomeDescription synthesizes the deterministic ledger text for the room
// income entry of this reservation.
func (r *Reservation) IncomeDescription(customerName, roomNumber string) string {
	return fmt.Sprintf("预订号:%s|客户:%s|房间:%s|%s至%s(%d天)|人数:%d",
		r.ID, customerName, roomNumber, r.CheckInDate, r.CheckOutDate, r.Nights(), r.Guests)
}

// RefundDescription synthesizes the deterministic ledger text for the
// refund expense entry of this reservation.
func (r *Reservation) RefundDescription(customerName, roomNumber string) string {
	return fmt.Sprintf("退款-预订号:%s|客户:%s|房间:%s|%s至%s(%d天)|退款:￥%s",
		r.ID, customerName, roomNumber, r.CheckInDate, r.CheckOutDate, r.Nights(), r.PaidAmount.StringFixed(2))
}

// ReservationDetail is a reservation joined with the display fields the
// ledger descriptions and listings need.
type ReservationDetail struct {
	Reservation
	CustomerName string `json:"customer_name" db:"customer_name"`
	RoomNumber   string `json:"room_number" db:"room_number"`
}

// CreateReservationRequest represents the request to book a room
type CreateReservationRequest struct {
	RoomID          string  `json:"room_id" binding:"required"`
	CustomerID      string  `json:"customer_id" binding:"required"`
	CheckInDate     Date    `json:"check_in_date" binding:"required"`
	CheckOutDate    Date    `json:"check_out_date" binding:"required"`
	Guests          int     `json:"guests" binding:"required"`
	SpecialRequests *string `json:"special_requests,omitempty"`
}

// Validate checks date order and the absolute guest bounds. Capacity
// against the concrete room is the engine's job.
func (r *CreateReservationRequest) Validate() error {
	if !r.CheckOutDate.After(r.CheckInDate.Time) {
		return fmt.Errorf("%w: check_out_date %s must be after check_in_date %s",
			ErrInvalidDateRange, r.CheckOutDate, r.CheckInDate)
	}
	if r.Guests < 1 || r.Guests > MaxGuests {
		return fmt.Errorf("%w: guests must be between 1 and %d", ErrCapacityExceeded, MaxGuests)
	}
	return nil
}

// TransitionReservationRequest represents a status change request
type TransitionReservationRequest struct {
	TargetStatus ReservationStatus `json:"target_status" binding:"required"`
}

// Validate validates the transition request
func (r *TransitionReservationRequest) Validate() error {
	if !r.TargetStatus.Valid() {
		return fmt.Errorf("unknown target_status %q", r.TargetStatus)
	}
	if r.TargetStatus == StatusBooked {
		return fmt.Errorf("%w: reservations are created as %s, not transitioned into it",
			ErrInvalidTransition, StatusBooked)
	}
	return nil
}

// BatchTransitionRequest represents a status change over a set of reservations
type BatchTransitionRequest struct {
	ReservationIDs []string          `json:"reservation_ids" binding:"required"`
	TargetStatus   ReservationStatus `json:"target_status" binding:"required"`
}

// Validate validates the batch transition request
func (r *BatchTransitionRequest) Validate() error {
	if len(r.ReservationIDs) == 0 {
		return fmt.Errorf("reservation_ids cannot be empty")
	}
	if !r.TargetStatus.Valid() {
		return fmt.Errorf("unknown target_status %q", r.TargetStatus)
	}
	if r.TargetStatus == StatusBooked {
		return fmt.Errorf("%w: reservations are created as %s, not transitioned into it",
			ErrInvalidTransition, StatusBooked)
	}
	return nil
}

// BatchOutcome says what happened to one reservation in a batch call.
type BatchOutcome string

const (
	BatchApplied BatchOutcome = "applied"
	BatchSkipped BatchOutcome = "skipped"
)

// BatchResult reports the per-item outcome of a batch transition. Skipped
// items carry the reason; items never affect each other.
type BatchResult struct {
	Outcome BatchOutcome `json:"outcome"`
	Reason  string       `json:"reason,omitempty"`
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	Status     ReservationStatus
	RoomID     string
	CustomerID string
	From       Date
	To         Date
}
