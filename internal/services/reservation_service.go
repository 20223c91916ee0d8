package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
)

// ReservationService drives the reservation lifecycle: booking, check-in,
// check-out, refund, deletion, and the deletion-protection checks for rooms
// and customers. Every operation takes the evaluation time from the caller
// so behavior is reproducible.
type ReservationService struct {
	reservationRepo *database.ReservationRepository
	roomRepo        *database.RoomRepository
	customerRepo    *database.CustomerRepository
	logger          *logrus.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	reservationRepo *database.ReservationRepository,
	roomRepo *database.RoomRepository,
	customerRepo *database.CustomerRepository,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		customerRepo:    customerRepo,
		logger:          logger,
	}
}

// CreateReservation books a room. The paid amount is nights times the
// room's current nightly price, frozen from here on, and the matching
// income entry commits atomically with the reservation.
func (s *ReservationService) CreateReservation(req *models.CreateReservationRequest, now time.Time) (*models.ReservationDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		RoomID:          req.RoomID,
		CustomerID:      req.CustomerID,
		CheckInDate:     req.CheckInDate,
		CheckOutDate:    req.CheckOutDate,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	}

	detail, err := s.reservationRepo.Create(reservation, now)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": detail.ID,
		"room_number":    detail.RoomNumber,
		"customer":       detail.CustomerName,
		"check_in":       detail.CheckInDate.String(),
		"check_out":      detail.CheckOutDate.String(),
		"nights":         detail.Nights(),
		"paid_amount":    detail.PaidAmount.StringFixed(2),
	}).Info("Reservation created")

	return detail, nil
}

// GetReservation retrieves one reservation with its display fields
func (s *ReservationService) GetReservation(reservationID string) (*models.ReservationDetail, error) {
	return s.reservationRepo.GetDetailByID(reservationID)
}

// ListReservations retrieves reservations matching the filter
func (s *ReservationService) ListReservations(filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	return s.reservationRepo.List(filter)
}

// TransitionReservation moves one reservation to the target status and
// applies the ledger side effects. Repeating an already-applied transition
// succeeds without writing anything.
func (s *ReservationService) TransitionReservation(reservationID string, target models.ReservationStatus, now time.Time) (*models.ReservationDetail, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("unknown target_status %q", target)
	}
	if target == models.StatusBooked {
		return nil, fmt.Errorf("%w: reservations are created as %s, not transitioned into it",
			models.ErrInvalidTransition, models.StatusBooked)
	}

	detail, changed, err := s.reservationRepo.Transition(reservationID, target, now)
	if err != nil {
		return nil, err
	}

	if changed {
		s.logger.WithFields(logrus.Fields{
			"reservation_id": detail.ID,
			"room_number":    detail.RoomNumber,
			"status":         detail.Status,
			"refund_amount":  detail.RefundAmount.StringFixed(2),
		}).Info("Reservation transitioned")
	}

	return detail, nil
}

// BatchTransition applies one target status across many reservations.
// Items are independent: each gets its own transaction and its own
// outcome, and one failure never rolls back another item.
func (s *ReservationService) BatchTransition(req *models.BatchTransitionRequest, now time.Time) (map[string]models.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results := make(map[string]models.BatchResult, len(req.ReservationIDs))
	applied := 0

	for _, id := range req.ReservationIDs {
		_, changed, err := s.reservationRepo.Transition(id, req.TargetStatus, now)
		switch {
		case err != nil:
			results[id] = models.BatchResult{Outcome: models.BatchSkipped, Reason: skipReason(err)}
		case !changed:
			results[id] = models.BatchResult{Outcome: models.BatchSkipped, Reason: fmt.Sprintf("already %s", req.TargetStatus)}
		default:
			results[id] = models.BatchResult{Outcome: models.BatchApplied}
			applied++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"target_status": req.TargetStatus,
		"requested":     len(req.ReservationIDs),
		"applied":       applied,
		"skipped":       len(results) - applied,
	}).Info("Batch transition finished")

	return results, nil
}

// skipReason turns a per-item transition error into the reason reported in
// the batch result.
func skipReason(err error) string {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return "reservation not found"
	case errors.Is(err, models.ErrInvalidTransition):
		return err.Error()
	default:
		return fmt.Sprintf("transition failed: %v", err)
	}
}

// DeleteReservation removes a reservation outright. An active reservation
// releases its room; ledger entries stay untouched either way.
func (s *ReservationService) DeleteReservation(reservationID string) error {
	reservation, err := s.reservationRepo.Delete(reservationID)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"room_id":        reservation.RoomID,
		"status":         reservation.Status,
		"room_released":  reservation.Status.Active(),
	}).Info("Reservation deleted")

	return nil
}

// CanDeleteRoom reports whether the room can be removed. Rooms referenced
// by a Booked or CheckedIn reservation are protected.
func (s *ReservationService) CanDeleteRoom(roomID string) error {
	if _, err := s.roomRepo.GetByID(roomID); err != nil {
		return err
	}

	active, err := s.reservationRepo.HasActiveForRoom(roomID)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("%w: room has active reservations", models.ErrDeletionBlocked)
	}

	return nil
}

// CanDeleteCustomer reports whether the customer can be removed. Customers
// holding a Booked or CheckedIn reservation are protected.
func (s *ReservationService) CanDeleteCustomer(customerID string) error {
	if _, err := s.customerRepo.GetByID(customerID); err != nil {
		return err
	}

	active, err := s.reservationRepo.HasActiveForCustomer(customerID)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("%w: customer has active reservations", models.ErrDeletionBlocked)
	}

	return nil
}

// CustomerCheckedIn reports whether the customer currently occupies a
// room. The directory refuses identity edits for in-house guests.
func (s *ReservationService) CustomerCheckedIn(customerID string) (bool, error) {
	return s.reservationRepo.HasCheckedInForCustomer(customerID)
}

// RoomHasActive reports whether any Booked or CheckedIn reservation
// references the room. The engine owns the room's status while one does,
// so the directory refuses manual status edits in that window.
func (s *ReservationService) RoomHasActive(roomID string) (bool, error) {
	return s.reservationRepo.HasActiveForRoom(roomID)
}

// SweepOverdue checks out every CheckedIn reservation whose checkout date
// has passed. Each reservation is its own transaction; one failure does
// not stop the sweep. Returns the number checked out.
func (s *ReservationService) SweepOverdue(now time.Time) (int, error) {
	today := models.DateOf(now)

	ids, err := s.reservationRepo.ListOverdueCheckedIn(today)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, id := range ids {
		_, changed, err := s.reservationRepo.Transition(id, models.StatusCheckedOut, now)
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"reservation_id": id,
				"error":          err.Error(),
			}).Warn("Failed to auto check out overdue reservation")
			continue
		}
		if changed {
			swept++
		}
	}

	if swept > 0 {
		s.logger.WithFields(logrus.Fields{
			"overdue": len(ids),
			"swept":   swept,
		}).Info("Overdue reservations checked out")
	}

	return swept, nil
}
