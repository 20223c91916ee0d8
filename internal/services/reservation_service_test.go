package services

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newReservationServiceTest builds the service on repositories backed by a
// sqlmock connection, so tests drive the full service-to-SQL path.
func newReservationServiceTest(t *testing.T) (*ReservationService, sqlmock.Sqlmock, *database.PostgresDB) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	wrapped := &database.PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}

	svc := NewReservationService(
		database.NewReservationRepository(wrapped),
		database.NewRoomRepository(wrapped),
		database.NewCustomerRepository(wrapped),
		testLogger(),
	)
	return svc, mock, wrapped
}

var reservationDetailCols = []string{
	"id", "room_id", "customer_id", "check_in_date", "check_out_date",
	"guests", "special_requests", "status", "paid_amount", "refund_amount",
	"income_recorded", "refund_recorded", "created_at", "updated_at",
	"customer_name", "room_number",
}

// expectTransition queues the expectations for one successful
// Booked -> CheckedIn transition of the given reservation.
func expectTransition(mock sqlmock.Sqlmock, id string, now time.Time) {
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE OF r`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(reservationDetailCols).AddRow(
			id, "room-1", "customer-1", "2025-07-01", "2025-07-03",
			2, nil, "Booked", "200.00", "0",
			true, false, now, now, "Zhang Wei", "301",
		))
	mock.ExpectQuery(`SELECT status FROM rooms`).
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Booked"))
	mock.ExpectQuery(`UPDATE reservations SET status`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectQuery(`COUNT\(\*\) FILTER`).
		WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
		WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(1, 0))
	mock.ExpectExec(`UPDATE rooms SET status`).
		WithArgs(models.RoomStatusOccupied, "room-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestCreateReservation_Validation(t *testing.T) {
	svc, mock, db := newReservationServiceTest(t)
	defer db.Close()

	now := time.Now()

	t.Run("Checkout Not After Checkin", func(t *testing.T) {
		_, err := svc.CreateReservation(&models.CreateReservationRequest{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  models.NewDate(2025, time.July, 3),
			CheckOutDate: models.NewDate(2025, time.July, 1),
			Guests:       2,
		}, now)
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})

	t.Run("Same Day Stay", func(t *testing.T) {
		day := models.NewDate(2025, time.July, 1)
		_, err := svc.CreateReservation(&models.CreateReservationRequest{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  day,
			CheckOutDate: day,
			Guests:       2,
		}, now)
		assert.ErrorIs(t, err, models.ErrInvalidDateRange)
	})

	t.Run("Zero Guests", func(t *testing.T) {
		_, err := svc.CreateReservation(&models.CreateReservationRequest{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  models.NewDate(2025, time.July, 1),
			CheckOutDate: models.NewDate(2025, time.July, 3),
			Guests:       0,
		}, now)
		assert.ErrorIs(t, err, models.ErrCapacityExceeded)
	})

	t.Run("Guests Above Absolute Cap", func(t *testing.T) {
		_, err := svc.CreateReservation(&models.CreateReservationRequest{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  models.NewDate(2025, time.July, 1),
			CheckOutDate: models.NewDate(2025, time.July, 3),
			Guests:       models.MaxGuests + 1,
		}, now)
		assert.ErrorIs(t, err, models.ErrCapacityExceeded)
	})

	// Rejected requests never reach the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionReservation(t *testing.T) {
	now := time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Unknown Target", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		_, err := svc.TransitionReservation("res-1", "Archived", now)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown target_status")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booked Target Rejected", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		_, err := svc.TransitionReservation("res-1", models.StatusBooked, now)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Check In Applies", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		expectTransition(mock, "res-1", now)

		detail, err := svc.TransitionReservation("res-1", models.StatusCheckedIn, now)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCheckedIn, detail.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retry Is A No-Op Success", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(sqlmock.NewRows(reservationDetailCols).AddRow(
				"res-1", "room-1", "customer-1", "2025-07-01", "2025-07-03",
				2, nil, "CheckedIn", "200.00", "0",
				true, false, now, now, "Zhang Wei", "301",
			))
		mock.ExpectRollback()

		detail, err := svc.TransitionReservation("res-1", models.StatusCheckedIn, now)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCheckedIn, detail.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBatchTransition(t *testing.T) {
	now := time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC)

	t.Run("Mixed Outcomes", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		// res-a: Booked, applies.
		expectTransition(mock, "res-a", now)

		// res-b: already CheckedOut, invalid transition.
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-b").
			WillReturnRows(sqlmock.NewRows(reservationDetailCols).AddRow(
				"res-b", "room-2", "customer-2", "2025-06-01", "2025-06-05",
				1, nil, "CheckedOut", "400.00", "0",
				true, false, now, now, "Li Na", "302",
			))
		mock.ExpectRollback()

		// res-c: does not exist.
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-c").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		// res-d: already at the target.
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-d").
			WillReturnRows(sqlmock.NewRows(reservationDetailCols).AddRow(
				"res-d", "room-3", "customer-3", "2025-07-01", "2025-07-02",
				1, nil, "CheckedIn", "150.00", "0",
				true, false, now, now, "Wang Fang", "303",
			))
		mock.ExpectRollback()

		results, err := svc.BatchTransition(&models.BatchTransitionRequest{
			ReservationIDs: []string{"res-a", "res-b", "res-c", "res-d"},
			TargetStatus:   models.StatusCheckedIn,
		}, now)
		require.NoError(t, err)
		require.Len(t, results, 4)

		assert.Equal(t, models.BatchApplied, results["res-a"].Outcome)
		assert.Empty(t, results["res-a"].Reason)

		assert.Equal(t, models.BatchSkipped, results["res-b"].Outcome)
		assert.Contains(t, results["res-b"].Reason, "CheckedOut cannot become CheckedIn")

		assert.Equal(t, models.BatchSkipped, results["res-c"].Outcome)
		assert.Equal(t, "reservation not found", results["res-c"].Reason)

		assert.Equal(t, models.BatchSkipped, results["res-d"].Outcome)
		assert.Equal(t, "already CheckedIn", results["res-d"].Reason)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty ID List", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		_, err := svc.BatchTransition(&models.BatchTransitionRequest{
			ReservationIDs: []string{},
			TargetStatus:   models.StatusCheckedIn,
		}, now)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Booked Target Rejected", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		_, err := svc.BatchTransition(&models.BatchTransitionRequest{
			ReservationIDs: []string{"res-a"},
			TargetStatus:   models.StatusBooked,
		}, now)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCanDeleteRoom(t *testing.T) {
	roomCols := []string{
		"id", "room_number", "room_type", "price", "facilities", "status",
		"floor", "capacity", "description", "picture_url", "created_at", "updated_at",
	}
	now := time.Now()

	t.Run("Blocked By Active Reservation", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`FROM rooms WHERE id`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(
				"room-1", "301", "Double", "100.00", "wifi", "Booked",
				3, 2, nil, nil, now, now,
			))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("room-1", models.StatusBooked, models.StatusCheckedIn).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := svc.CanDeleteRoom("room-1")
		assert.ErrorIs(t, err, models.ErrDeletionBlocked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Free To Delete", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`FROM rooms WHERE id`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows(roomCols).AddRow(
				"room-1", "301", "Double", "100.00", "wifi", "Available",
				3, 2, nil, nil, now, now,
			))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("room-1", models.StatusBooked, models.StatusCheckedIn).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := svc.CanDeleteRoom("room-1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Room Missing", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`FROM rooms WHERE id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		err := svc.CanDeleteRoom("missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCanDeleteCustomer(t *testing.T) {
	customerCols := []string{
		"id", "name", "id_number", "phone", "email", "address", "created_at", "updated_at",
	}
	now := time.Now()

	t.Run("Blocked By Active Reservation", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`FROM customers WHERE id`).
			WithArgs("customer-1").
			WillReturnRows(sqlmock.NewRows(customerCols).AddRow(
				"customer-1", "Zhang Wei", "110101199003074258", "13812345678", nil, nil, now, now,
			))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("customer-1", models.StatusBooked, models.StatusCheckedIn).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := svc.CanDeleteCustomer("customer-1")
		assert.ErrorIs(t, err, models.ErrDeletionBlocked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Free To Delete", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`FROM customers WHERE id`).
			WithArgs("customer-1").
			WillReturnRows(sqlmock.NewRows(customerCols).AddRow(
				"customer-1", "Zhang Wei", "110101199003074258", "13812345678", nil, nil, now, now,
			))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("customer-1", models.StatusBooked, models.StatusCheckedIn).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := svc.CanDeleteCustomer("customer-1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSweepOverdue(t *testing.T) {
	now := time.Date(2025, time.July, 10, 0, 10, 0, 0, time.UTC)

	t.Run("Checks Out Overdue Stays", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT id FROM reservations`).
			WithArgs(models.StatusCheckedIn, models.DateOf(now)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("res-1").AddRow("res-2"))

		// res-1 checks out.
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(sqlmock.NewRows(reservationDetailCols).AddRow(
				"res-1", "room-1", "customer-1", "2025-07-01", "2025-07-03",
				2, nil, "CheckedIn", "200.00", "0",
				true, false, now, now, "Zhang Wei", "301",
			))
		mock.ExpectQuery(`SELECT status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Occupied"))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(0, 0))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusAvailable, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// res-2 was deleted between listing and locking; the sweep moves on.
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-2").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		swept, err := svc.SweepOverdue(now)
		require.NoError(t, err)
		assert.Equal(t, 1, swept)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing Overdue", func(t *testing.T) {
		svc, mock, db := newReservationServiceTest(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT id FROM reservations`).
			WithArgs(models.StatusCheckedIn, models.DateOf(now)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		swept, err := svc.SweepOverdue(now)
		require.NoError(t, err)
		assert.Zero(t, swept)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
