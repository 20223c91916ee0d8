package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harborview/hms-backend/internal/models"
)

// RoomRepository handles database operations for the rooms table
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, room_number, room_type, price, facilities, status, floor, capacity, description, picture_url, created_at, updated_at`

// Create inserts a new room
func (r *RoomRepository) Create(room *models.Room) error {
	query := `
		INSERT INTO rooms (
			id, room_number, room_type, price, facilities,
			status, floor, capacity, description, picture_url
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING created_at, updated_at
	`

	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}

	err := r.db.QueryRow(
		query,
		room.ID, room.RoomNumber, room.RoomType, room.Price, room.Facilities,
		room.Status, room.Floor, room.Capacity, room.Description, room.PictureURL,
	).Scan(&room.CreatedAt, &room.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("room number %s already exists", room.RoomNumber)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(roomID string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = $1`

	room := &models.Room{}
	err := r.db.Get(room, query, roomID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("room %s: %w", roomID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// List retrieves rooms matching the filter, ordered by room number
func (r *RoomRepository) List(filter models.RoomFilter) ([]models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}
	if filter.RoomType != "" {
		query += fmt.Sprintf(" AND room_type = $%d", argPos)
		args = append(args, filter.RoomType)
		argPos++
	}
	if filter.Floor > 0 {
		query += fmt.Sprintf(" AND floor = $%d", argPos)
		args = append(args, filter.Floor)
		argPos++
	}

	query += " ORDER BY room_number"

	rooms := []models.Room{}
	if err := r.db.Select(&rooms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	return rooms, nil
}

// Update rewrites the mutable fields of a room
func (r *RoomRepository) Update(room *models.Room) error {
	query := `
		UPDATE rooms
		SET room_type = $2, price = $3, facilities = $4, status = $5,
			floor = $6, capacity = $7, description = $8, picture_url = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		room.ID, room.RoomType, room.Price, room.Facilities, room.Status,
		room.Floor, room.Capacity, room.Description, room.PictureURL,
	).Scan(&room.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("room %s: %w", room.ID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update room: %w", err)
	}

	return nil
}

// Delete removes a room. Callers must check deletion protection first.
func (r *RoomRepository) Delete(roomID string) error {
	result, err := r.db.Exec(`DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("room %s: %w", roomID, models.ErrNotFound)
	}

	return nil
}
