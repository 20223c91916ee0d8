package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/harborview/hms-backend/internal/models"
)

// ReservationRepository handles database operations for reservations and
// their ledger side effects. Every write runs inside one transaction that
// takes the room row lock, so writes touching the same room serialize and
// two overlapping bookings can never both commit.
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, room_id, customer_id, check_in_date, check_out_date, guests, special_requests, status, paid_amount, refund_amount, income_recorded, refund_recorded, created_at, updated_at`

const reservationDetailColumns = `
	r.id, r.room_id, r.customer_id, r.check_in_date, r.check_out_date,
	r.guests, r.special_requests, r.status, r.paid_amount, r.refund_amount,
	r.income_recorded, r.refund_recorded, r.created_at, r.updated_at,
	c.name AS customer_name, rm.room_number`

const reservationDetailFrom = `
	FROM reservations r
	JOIN customers c ON c.id = r.customer_id
	JOIN rooms rm ON rm.id = r.room_id`

// lockedRoom is the slice of the room row read under FOR UPDATE.
type lockedRoom struct {
	ID         string            `db:"id"`
	RoomNumber string            `db:"room_number"`
	Price      decimal.Decimal   `db:"price"`
	Capacity   int               `db:"capacity"`
	Status     models.RoomStatus `db:"status"`
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(reservationID string) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	reservation := &models.Reservation{}
	err := r.db.Get(reservation, query, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return reservation, nil
}

// GetDetailByID retrieves a reservation joined with its customer and room
// display fields
func (r *ReservationRepository) GetDetailByID(reservationID string) (*models.ReservationDetail, error) {
	query := `SELECT ` + reservationDetailColumns + reservationDetailFrom + ` WHERE r.id = $1`

	detail := &models.ReservationDetail{}
	err := r.db.Get(detail, query, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return detail, nil
}

// List retrieves reservations with optional filters. From/To select
// reservations whose stay overlaps the window, using the same half-open
// interval rule as conflict detection.
func (r *ReservationRepository) List(filter models.ReservationFilter) ([]models.ReservationDetail, error) {
	query := `SELECT ` + reservationDetailColumns + reservationDetailFrom + ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND r.status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.RoomID != "" {
		query += fmt.Sprintf(" AND r.room_id = $%d", argPos)
		args = append(args, filter.RoomID)
		argPos++
	}
	if filter.CustomerID != "" {
		query += fmt.Sprintf(" AND r.customer_id = $%d", argPos)
		args = append(args, filter.CustomerID)
		argPos++
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND r.check_out_date > $%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND r.check_in_date < $%d", argPos)
		args = append(args, filter.To)
		argPos++
	}

	query += " ORDER BY r.check_in_date DESC, r.created_at DESC"

	reservations := []models.ReservationDetail{}
	if err := r.db.Select(&reservations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return reservations, nil
}

// HasActiveForRoom reports whether the room is referenced by any Booked or
// CheckedIn reservation
func (r *ReservationRepository) HasActiveForRoom(roomID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE room_id = $1 AND status IN ($2, $3))`

	var exists bool
	err := r.db.Get(&exists, query, roomID, models.StatusBooked, models.StatusCheckedIn)
	if err != nil {
		return false, fmt.Errorf("failed to check room reservations: %w", err)
	}

	return exists, nil
}

// HasActiveForCustomer reports whether the customer holds any Booked or
// CheckedIn reservation
func (r *ReservationRepository) HasActiveForCustomer(customerID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE customer_id = $1 AND status IN ($2, $3))`

	var exists bool
	err := r.db.Get(&exists, query, customerID, models.StatusBooked, models.StatusCheckedIn)
	if err != nil {
		return false, fmt.Errorf("failed to check customer reservations: %w", err)
	}

	return exists, nil
}

// HasCheckedInForCustomer reports whether the customer is currently
// checked in somewhere
func (r *ReservationRepository) HasCheckedInForCustomer(customerID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reservations WHERE customer_id = $1 AND status = $2)`

	var exists bool
	err := r.db.Get(&exists, query, customerID, models.StatusCheckedIn)
	if err != nil {
		return false, fmt.Errorf("failed to check customer reservations: %w", err)
	}

	return exists, nil
}

// ListOverdueCheckedIn returns the IDs of CheckedIn reservations whose
// checkout date has already passed
func (r *ReservationRepository) ListOverdueCheckedIn(today models.Date) ([]string, error) {
	query := `SELECT id FROM reservations WHERE status = $1 AND check_out_date < $2 ORDER BY check_out_date`

	ids := []string{}
	if err := r.db.Select(&ids, query, models.StatusCheckedIn, today); err != nil {
		return nil, fmt.Errorf("failed to list overdue reservations: %w", err)
	}

	return ids, nil
}

// Create books a room inside a single transaction: it locks the room row,
// re-checks capacity and date conflicts under the lock, computes the frozen
// paid amount from the room's current price, writes the income ledger entry,
// and refreshes the room status. The reservation enters as Booked.
func (r *ReservationRepository) Create(res *models.Reservation, now time.Time) (*models.ReservationDetail, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Lock the room row. This is the serialization point for the room:
	// concurrent bookings queue here and see each other's committed rows.
	room := lockedRoom{}
	err = tx.Get(&room, `SELECT id, room_number, price, capacity, status FROM rooms WHERE id = $1 FOR UPDATE`, res.RoomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", res.RoomID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}

	var customerName string
	err = tx.Get(&customerName, `SELECT name FROM customers WHERE id = $1`, res.CustomerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", res.CustomerID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if res.Guests > room.Capacity {
		return nil, fmt.Errorf("%w: room %s sleeps %d, requested %d guests",
			models.ErrCapacityExceeded, room.RoomNumber, room.Capacity, res.Guests)
	}

	// 2. Conflict check over the half-open interval [check_in, check_out):
	// back-to-back stays sharing a boundary date do not collide.
	var conflictID string
	err = tx.Get(&conflictID, `
		SELECT id FROM reservations
		WHERE room_id = $1
		  AND status IN ($2, $3)
		  AND check_in_date < $4
		  AND check_out_date > $5
		LIMIT 1`,
		res.RoomID, models.StatusBooked, models.StatusCheckedIn, res.CheckOutDate, res.CheckInDate)
	if err == nil {
		return nil, fmt.Errorf("%w: room %s is held by reservation %s for overlapping dates",
			models.ErrDateConflict, room.RoomNumber, conflictID)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check date conflicts: %w", err)
	}

	// 3. Freeze the amount at today's nightly price. Later price changes
	// never touch existing reservations.
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	res.Status = models.StatusBooked
	res.PaidAmount = models.ComputeStayAmount(res.CheckInDate, res.CheckOutDate, room.Price)
	res.RefundAmount = decimal.Zero
	res.IncomeRecorded = res.PaidAmount.GreaterThan(decimal.Zero)
	res.RefundRecorded = false

	insertQuery := `
		INSERT INTO reservations (
			id, room_id, customer_id, check_in_date, check_out_date,
			guests, special_requests, status, paid_amount, refund_amount,
			income_recorded, refund_recorded
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRowx(insertQuery,
		res.ID, res.RoomID, res.CustomerID, res.CheckInDate, res.CheckOutDate,
		res.Guests, res.SpecialRequests, res.Status, res.PaidAmount, res.RefundAmount,
		res.IncomeRecorded, res.RefundRecorded,
	).Scan(&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	// 4. Record the income once, in the same commit as the reservation.
	if res.IncomeRecorded {
		_, err = tx.Exec(`
			INSERT INTO income_entries (id, entry_date, amount, source, description)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), models.DateOf(now), res.PaidAmount,
			models.IncomeSourceRoom, res.IncomeDescription(customerName, room.RoomNumber))
		if err != nil {
			return nil, fmt.Errorf("failed to record income: %w", err)
		}
	}

	if err := refreshRoomStatus(tx, res.RoomID, room.Status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ReservationDetail{
		Reservation:  *res,
		CustomerName: customerName,
		RoomNumber:   room.RoomNumber,
	}, nil
}

// Transition moves a reservation to target and applies the refund ledger
// entry when the target is Refunded, all in one transaction. The returned
// bool is false when the reservation already had the target status and the
// call was a no-op. Lock order is reservation row first, then room row.
func (r *ReservationRepository) Transition(reservationID string, target models.ReservationStatus, now time.Time) (*models.ReservationDetail, bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	detail := &models.ReservationDetail{}
	query := `SELECT ` + reservationDetailColumns + reservationDetailFrom + ` WHERE r.id = $1 FOR UPDATE OF r`
	err = tx.Get(detail, query, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
		}
		return nil, false, fmt.Errorf("failed to lock reservation: %w", err)
	}

	// Retry of an already-applied transition. Nothing to write.
	if detail.Status == target {
		return detail, false, nil
	}

	if !detail.Status.CanTransitionTo(target) {
		return nil, false, fmt.Errorf("%w: %s cannot become %s",
			models.ErrInvalidTransition, detail.Status, target)
	}

	var roomStatus models.RoomStatus
	err = tx.Get(&roomStatus, `SELECT status FROM rooms WHERE id = $1 FOR UPDATE`, detail.RoomID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock room: %w", err)
	}

	if target == models.StatusRefunded {
		// Full refund of the frozen amount, recorded at most once. A
		// reservation that never produced income produces no expense.
		if !detail.RefundRecorded && detail.PaidAmount.GreaterThan(decimal.Zero) {
			detail.RefundAmount = detail.PaidAmount
			detail.RefundRecorded = true

			_, err = tx.Exec(`
				INSERT INTO expense_entries (id, entry_date, amount, category, description)
				VALUES ($1, $2, $3, $4, $5)`,
				uuid.New().String(), models.DateOf(now), detail.RefundAmount,
				models.ExpenseCategoryOther, detail.RefundDescription(detail.CustomerName, detail.RoomNumber))
			if err != nil {
				return nil, false, fmt.Errorf("failed to record refund: %w", err)
			}
		}
	}

	detail.Status = target
	err = tx.QueryRowx(`
		UPDATE reservations
		SET status = $1, refund_amount = $2, refund_recorded = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at`,
		detail.Status, detail.RefundAmount, detail.RefundRecorded, detail.ID,
	).Scan(&detail.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to update reservation: %w", err)
	}

	if err := refreshRoomStatus(tx, detail.RoomID, roomStatus); err != nil {
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, true, nil
}

// Delete removes a reservation and releases its room when the reservation
// was still active. Ledger entries are never touched: history outlives the
// reservation row.
func (r *ReservationRepository) Delete(reservationID string) (*models.Reservation, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	reservation := &models.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	err = tx.Get(reservation, query, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %s: %w", reservationID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to lock reservation: %w", err)
	}

	var roomStatus models.RoomStatus
	err = tx.Get(&roomStatus, `SELECT status FROM rooms WHERE id = $1 FOR UPDATE`, reservation.RoomID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock room: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM reservations WHERE id = $1`, reservationID); err != nil {
		return nil, fmt.Errorf("failed to delete reservation: %w", err)
	}

	if err := refreshRoomStatus(tx, reservation.RoomID, roomStatus); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return reservation, nil
}

// refreshRoomStatus recomputes the room status from the reservations that
// remain after the caller's writes. Runs inside the caller's transaction
// while the room row is locked.
func refreshRoomStatus(tx *sqlx.Tx, roomID string, current models.RoomStatus) error {
	var counts struct {
		CheckedIn int `db:"checked_in"`
		Booked    int `db:"booked"`
	}
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = $2) AS checked_in,
			COUNT(*) FILTER (WHERE status = $3) AS booked
		FROM reservations
		WHERE room_id = $1`

	if err := tx.Get(&counts, query, roomID, models.StatusCheckedIn, models.StatusBooked); err != nil {
		return fmt.Errorf("failed to count active reservations: %w", err)
	}

	next := models.DeriveRoomStatus(current, counts.CheckedIn > 0, counts.Booked > 0)
	if next == current {
		return nil
	}

	if _, err := tx.Exec(`UPDATE rooms SET status = $1, updated_at = now() WHERE id = $2`, next, roomID); err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}

	return nil
}
