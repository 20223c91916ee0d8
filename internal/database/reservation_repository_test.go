package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/hms-backend/internal/models"
)

// newMockDB wraps a sqlmock connection in the sqlx layer the repositories
// expect. Callers close the returned DB.
func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &PostgresDB{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

var reservationTestColumns = []string{
	"id", "room_id", "customer_id", "check_in_date", "check_out_date",
	"guests", "special_requests", "status", "paid_amount", "refund_amount",
	"income_recorded", "refund_recorded", "created_at", "updated_at",
}

var reservationDetailTestColumns = append(
	append([]string{}, reservationTestColumns...),
	"customer_name", "room_number",
)

// detailRow builds one joined reservation row for the fixed test stay
// 2025-07-01 to 2025-07-03 in room 301.
func detailRow(id string, status models.ReservationStatus, paid, refund string, refundRecorded bool, now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(reservationDetailTestColumns).AddRow(
		id, "room-1", "customer-1", "2025-07-01", "2025-07-03",
		2, nil, string(status), paid, refund,
		true, refundRecorded, now, now,
		"Zhang Wei", "301",
	)
}

func TestReservationCreate(t *testing.T) {
	checkIn := models.NewDate(2025, time.July, 1)
	checkOut := models.NewDate(2025, time.July, 3)
	now := time.Date(2025, time.June, 20, 10, 30, 0, 0, time.UTC)
	paid := decimal.NewFromInt(200)

	t.Run("Success", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_number, price, capacity, status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "price", "capacity", "status"}).
				AddRow("room-1", "301", "100.00", 2, "Available"))
		mock.ExpectQuery(`SELECT name FROM customers`).
			WithArgs("customer-1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Zhang Wei"))
		mock.ExpectQuery(`SELECT id FROM reservations`).
			WithArgs("room-1", models.StatusBooked, models.StatusCheckedIn, checkOut, checkIn).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO reservations`).
			WithArgs(sqlmock.AnyArg(), "room-1", "customer-1", checkIn, checkOut,
				2, nil, models.StatusBooked, paid, decimal.Zero, true, false).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(`INSERT INTO income_entries`).
			WithArgs(sqlmock.AnyArg(), models.DateOf(now), paid, models.IncomeSourceRoom, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(0, 1))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusBooked, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		detail, err := repo.Create(&models.Reservation{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			Guests:       2,
		}, now)
		require.NoError(t, err)
		require.NotNil(t, detail)

		assert.NotEmpty(t, detail.ID)
		assert.Equal(t, models.StatusBooked, detail.Status)
		assert.Equal(t, "200.00", detail.PaidAmount.StringFixed(2))
		assert.True(t, detail.RefundAmount.IsZero())
		assert.True(t, detail.IncomeRecorded)
		assert.False(t, detail.RefundRecorded)
		assert.Equal(t, "Zhang Wei", detail.CustomerName)
		assert.Equal(t, "301", detail.RoomNumber)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Room Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_number, price, capacity, status FROM rooms`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		detail, err := repo.Create(&models.Reservation{
			RoomID:       "missing",
			CustomerID:   "customer-1",
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			Guests:       2,
		}, now)
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Capacity Exceeded", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_number, price, capacity, status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "price", "capacity", "status"}).
				AddRow("room-1", "301", "100.00", 2, "Available"))
		mock.ExpectQuery(`SELECT name FROM customers`).
			WithArgs("customer-1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Zhang Wei"))
		mock.ExpectRollback()

		detail, err := repo.Create(&models.Reservation{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			Guests:       3,
		}, now)
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, models.ErrCapacityExceeded)
		assert.Contains(t, err.Error(), "room 301 sleeps 2")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Date Conflict", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_number, price, capacity, status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "price", "capacity", "status"}).
				AddRow("room-1", "301", "100.00", 2, "Booked"))
		mock.ExpectQuery(`SELECT name FROM customers`).
			WithArgs("customer-1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Zhang Wei"))
		mock.ExpectQuery(`SELECT id FROM reservations`).
			WithArgs("room-1", models.StatusBooked, models.StatusCheckedIn, checkOut, checkIn).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("holder-1"))
		mock.ExpectRollback()

		detail, err := repo.Create(&models.Reservation{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			Guests:       2,
		}, now)
		assert.Nil(t, detail)
		assert.ErrorIs(t, err, models.ErrDateConflict)
		assert.Contains(t, err.Error(), "holder-1")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero Price Skips Income", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_number, price, capacity, status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "price", "capacity", "status"}).
				AddRow("room-1", "301", "0.00", 2, "Available"))
		mock.ExpectQuery(`SELECT name FROM customers`).
			WithArgs("customer-1").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Zhang Wei"))
		mock.ExpectQuery(`SELECT id FROM reservations`).
			WithArgs("room-1", models.StatusBooked, models.StatusCheckedIn, checkOut, checkIn).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO reservations`).
			WithArgs(sqlmock.AnyArg(), "room-1", "customer-1", checkIn, checkOut,
				2, nil, models.StatusBooked, decimal.Zero, decimal.Zero, false, false).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(0, 1))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusBooked, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		detail, err := repo.Create(&models.Reservation{
			RoomID:       "room-1",
			CustomerID:   "customer-1",
			CheckInDate:  checkIn,
			CheckOutDate: checkOut,
			Guests:       2,
		}, now)
		require.NoError(t, err)
		assert.False(t, detail.IncomeRecorded)
		assert.True(t, detail.PaidAmount.IsZero())

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationTransition(t *testing.T) {
	now := time.Date(2025, time.July, 2, 9, 0, 0, 0, time.UTC)
	paid := decimal.NewFromInt(200)

	t.Run("Check In", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(detailRow("res-1", models.StatusBooked, "200.00", "0", false, now))
		mock.ExpectQuery(`SELECT status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Booked"))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WithArgs(models.StatusCheckedIn, decimal.Zero, false, "res-1").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(1, 0))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusOccupied, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		detail, changed, err := repo.Transition("res-1", models.StatusCheckedIn, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, models.StatusCheckedIn, detail.Status)
		assert.False(t, detail.RefundRecorded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already At Target", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(detailRow("res-1", models.StatusCheckedIn, "200.00", "0", false, now))
		mock.ExpectRollback()

		detail, changed, err := repo.Transition("res-1", models.StatusCheckedIn, now)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, models.StatusCheckedIn, detail.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Transition", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(detailRow("res-1", models.StatusCheckedOut, "200.00", "0", false, now))
		mock.ExpectRollback()

		detail, changed, err := repo.Transition("res-1", models.StatusCheckedIn, now)
		assert.Nil(t, detail)
		assert.False(t, changed)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "CheckedOut cannot become CheckedIn")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Refund Records Expense Once", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(detailRow("res-1", models.StatusBooked, "200.00", "0", false, now))
		mock.ExpectQuery(`SELECT status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Booked"))
		mock.ExpectExec(`INSERT INTO expense_entries`).
			WithArgs(sqlmock.AnyArg(), models.DateOf(now), paid, models.ExpenseCategoryOther, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WithArgs(models.StatusRefunded, paid, true, "res-1").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(0, 0))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusAvailable, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		detail, changed, err := repo.Transition("res-1", models.StatusRefunded, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, models.StatusRefunded, detail.Status)
		assert.Equal(t, "200.00", detail.RefundAmount.StringFixed(2))
		assert.True(t, detail.RefundRecorded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Refund Already Recorded Skips Expense", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		// refund_recorded already set: no second expense row may be written.
		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("res-1").
			WillReturnRows(detailRow("res-1", models.StatusCheckedIn, "200.00", "200.00", true, now))
		mock.ExpectQuery(`SELECT status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Occupied"))
		mock.ExpectQuery(`UPDATE reservations SET status`).
			WithArgs(models.StatusRefunded, paid, true, "res-1").
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(0, 0))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusAvailable, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		detail, changed, err := repo.Transition("res-1", models.StatusRefunded, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, detail.RefundRecorded)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`FOR UPDATE OF r`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		detail, changed, err := repo.Transition("missing", models.StatusCheckedIn, now)
		assert.Nil(t, detail)
		assert.False(t, changed)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationDelete(t *testing.T) {
	now := time.Now()

	t.Run("Success Releases Room", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_id, customer_id`).
			WithArgs("res-1").
			WillReturnRows(sqlmock.NewRows(reservationTestColumns).AddRow(
				"res-1", "room-1", "customer-1", "2025-07-01", "2025-07-03",
				2, nil, "Booked", "200.00", "0",
				true, false, now, now,
			))
		mock.ExpectQuery(`SELECT status FROM rooms`).
			WithArgs("room-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Booked"))
		mock.ExpectExec(`DELETE FROM reservations`).
			WithArgs("res-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`COUNT\(\*\) FILTER`).
			WithArgs("room-1", models.StatusCheckedIn, models.StatusBooked).
			WillReturnRows(sqlmock.NewRows([]string{"checked_in", "booked"}).AddRow(0, 0))
		mock.ExpectExec(`UPDATE rooms SET status`).
			WithArgs(models.RoomStatusAvailable, "room-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		reservation, err := repo.Delete("res-1")
		require.NoError(t, err)
		assert.Equal(t, "res-1", reservation.ID)
		assert.Equal(t, models.StatusBooked, reservation.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()
		repo := NewReservationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, room_id, customer_id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		reservation, err := repo.Delete("missing")
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db)

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT id, room_id, customer_id`).
			WithArgs("res-1").
			WillReturnRows(sqlmock.NewRows(reservationTestColumns).AddRow(
				"res-1", "room-1", "customer-1", "2025-07-01", "2025-07-03",
				2, nil, "Booked", "200.00", "0",
				true, false, now, now,
			))

		reservation, err := repo.GetByID("res-1")
		require.NoError(t, err)
		assert.Equal(t, "res-1", reservation.ID)
		assert.Equal(t, 2, reservation.Nights())
		assert.Equal(t, "200.00", reservation.PaidAmount.StringFixed(2))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, room_id, customer_id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		reservation, err := repo.GetByID("missing")
		assert.Nil(t, reservation)
		assert.ErrorIs(t, err, models.ErrNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, room_id, customer_id`).
			WithArgs("res-1").
			WillReturnError(fmt.Errorf("database error"))

		reservation, err := repo.GetByID("res-1")
		assert.Nil(t, reservation)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get reservation")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationList(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db)

	t.Run("Filter By Status And Room", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(reservationDetailTestColumns).
			AddRow("res-2", "room-1", "customer-2", "2025-07-05", "2025-07-08",
				1, nil, "Booked", "300.00", "0", true, false, now, now, "Li Na", "301").
			AddRow("res-1", "room-1", "customer-1", "2025-07-01", "2025-07-03",
				2, nil, "Booked", "200.00", "0", true, false, now, now, "Zhang Wei", "301")

		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(models.StatusBooked, "room-1").
			WillReturnRows(rows)

		list, err := repo.List(models.ReservationFilter{Status: models.StatusBooked, RoomID: "room-1"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "res-2", list[0].ID)
		assert.Equal(t, "Li Na", list[0].CustomerName)
		assert.Equal(t, 3, list[0].Nights())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Window Overlap Filter", func(t *testing.T) {
		from := models.NewDate(2025, time.July, 2)
		to := models.NewDate(2025, time.July, 10)

		mock.ExpectQuery(`FROM reservations r`).
			WithArgs(from, to).
			WillReturnRows(sqlmock.NewRows(reservationDetailTestColumns))

		list, err := repo.List(models.ReservationFilter{From: from, To: to})
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHasActiveForRoom(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db)

	t.Run("Active Reservation Exists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("room-1", models.StatusBooked, models.StatusCheckedIn).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		active, err := repo.HasActiveForRoom("room-1")
		require.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("No Active Reservation", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("room-2", models.StatusBooked, models.StatusCheckedIn).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		active, err := repo.HasActiveForRoom("room-2")
		require.NoError(t, err)
		assert.False(t, active)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasActiveForCustomer(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("customer-1", models.StatusBooked, models.StatusCheckedIn).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	active, err := repo.HasActiveForCustomer("customer-1")
	require.NoError(t, err)
	assert.True(t, active)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOverdueCheckedIn(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()
	repo := NewReservationRepository(db)

	today := models.NewDate(2025, time.July, 10)

	mock.ExpectQuery(`SELECT id FROM reservations`).
		WithArgs(models.StatusCheckedIn, today).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("res-1").AddRow("res-2"))

	ids, err := repo.ListOverdueCheckedIn(today)
	require.NoError(t, err)
	assert.Equal(t, []string{"res-1", "res-2"}, ids)

	assert.NoError(t, mock.ExpectationsWereMet())
}
