package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/hms-backend/internal/models"
)

// StaffRepository handles database operations for staff accounts
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new StaffRepository
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffColumns = `id, username, password_hash, display_name, role, is_active, last_login_at, created_at, updated_at`

// Create inserts a new staff account
func (r *StaffRepository) Create(staff *models.Staff) error {
	query := `
		INSERT INTO staff (
			id, username, password_hash, display_name, role, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at, updated_at
	`

	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		staff.ID, staff.Username, staff.PasswordHash, staff.DisplayName, staff.Role, staff.IsActive,
	).Scan(&staff.CreatedAt, &staff.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("username %s already exists", staff.Username)
		}
		return fmt.Errorf("failed to create staff account: %w", err)
	}

	return nil
}

// GetByID retrieves a staff account by ID
func (r *StaffRepository) GetByID(staffID string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	staff := &models.Staff{}
	err := r.db.Get(staff, query, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff %s: %w", staffID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}

	return staff, nil
}

// GetByUsername retrieves a staff account by username
func (r *StaffRepository) GetByUsername(username string) (*models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1`

	staff := &models.Staff{}
	err := r.db.Get(staff, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff %s: %w", username, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}

	return staff, nil
}

// List retrieves all staff accounts
func (r *StaffRepository) List() ([]models.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff ORDER BY username`

	accounts := []models.Staff{}
	if err := r.db.Select(&accounts, query); err != nil {
		return nil, fmt.Errorf("failed to list staff accounts: %w", err)
	}

	return accounts, nil
}

// UpdateLastLogin stamps a successful login
func (r *StaffRepository) UpdateLastLogin(staffID string, at time.Time) error {
	query := `UPDATE staff SET last_login_at = $1, updated_at = now() WHERE id = $2`

	_, err := r.db.Exec(query, at, staffID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// SetActive enables or disables a staff account
func (r *StaffRepository) SetActive(staffID string, active bool) error {
	query := `UPDATE staff SET is_active = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.Exec(query, active, staffID)
	if err != nil {
		return fmt.Errorf("failed to update staff account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("staff %s: %w", staffID, models.ErrNotFound)
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *StaffRepository) UpdatePassword(staffID, passwordHash string) error {
	query := `UPDATE staff SET password_hash = $1, updated_at = now() WHERE id = $2`

	result, err := r.db.Exec(query, passwordHash, staffID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("staff %s: %w", staffID, models.ErrNotFound)
	}

	return nil
}
