package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harborview/hms-backend/internal/models"
)

// StaffSessionRepository handles database operations for issued sessions.
// Sessions store the token's ID (jti), not the token itself.
type StaffSessionRepository struct {
	db DB
}

// NewStaffSessionRepository creates a new StaffSessionRepository
func NewStaffSessionRepository(db DB) *StaffSessionRepository {
	return &StaffSessionRepository{db: db}
}

const staffSessionColumns = `id, staff_id, token_id, device, ip_address, created_at, expires_at, revoked_at`

// Create records a newly issued session
func (r *StaffSessionRepository) Create(session *models.StaffSession) error {
	query := `
		INSERT INTO staff_sessions (
			id, staff_id, token_id, device, ip_address, expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		RETURNING created_at
	`

	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		session.ID, session.StaffID, session.TokenID, session.Device, session.IPAddress, session.ExpiresAt,
	).Scan(&session.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByTokenID retrieves the session for a token ID. Returns nil when no
// session exists; callers treat a missing session as an invalid token.
func (r *StaffSessionRepository) GetByTokenID(tokenID string) (*models.StaffSession, error) {
	query := `SELECT ` + staffSessionColumns + ` FROM staff_sessions WHERE token_id = $1`

	session := &models.StaffSession{}
	err := r.db.Get(session, query, tokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// Revoke marks the session for a token ID as logged out
func (r *StaffSessionRepository) Revoke(tokenID string, at time.Time) error {
	query := `
		UPDATE staff_sessions
		SET revoked_at = $1
		WHERE token_id = $2 AND revoked_at IS NULL
	`

	result, err := r.db.Exec(query, at, tokenID)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session not found or already revoked")
	}

	return nil
}

// RevokeAllForStaff logs out every live session of one account
func (r *StaffSessionRepository) RevokeAllForStaff(staffID string, at time.Time) error {
	query := `
		UPDATE staff_sessions
		SET revoked_at = $1
		WHERE staff_id = $2 AND revoked_at IS NULL
	`

	if _, err := r.db.Exec(query, at, staffID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

// ListActiveForStaff retrieves the live sessions of one account
func (r *StaffSessionRepository) ListActiveForStaff(staffID string, now time.Time) ([]models.StaffSession, error) {
	query := `
		SELECT ` + staffSessionColumns + `
		FROM staff_sessions
		WHERE staff_id = $1 AND revoked_at IS NULL AND expires_at > $2
		ORDER BY created_at DESC
	`

	sessions := []models.StaffSession{}
	if err := r.db.Select(&sessions, query, staffID, now); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// CleanupExpired removes sessions whose tokens can no longer be presented
func (r *StaffSessionRepository) CleanupExpired(now time.Time) (int64, error) {
	query := `DELETE FROM staff_sessions WHERE expires_at < $1`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup sessions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
