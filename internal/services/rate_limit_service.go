package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/harborview/hms-backend/internal/database"
)

// RateLimitService throttles failed login attempts per account and per
// client address. Attempts are recorded in the login_attempts table and
// counted over a sliding window, so limits survive restarts and apply
// across replicas sharing the database.
type RateLimitService struct {
	db database.DB
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(db database.DB) *RateLimitService {
	return &RateLimitService{
		db: db,
	}
}

// RateLimitConfig holds login throttling configuration
type RateLimitConfig struct {
	MaxUsernameFailures int           // Max failed logins per username
	UsernameWindow      time.Duration // Time window for username limit
	MaxIPFailures       int           // Max failed logins per IP
	IPWindow            time.Duration // Time window for IP limit
}

// DefaultRateLimitConfig returns the default login throttle configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxUsernameFailures: 5,                // 5 failures
		UsernameWindow:      15 * time.Minute, // per 15 minutes
		MaxIPFailures:       20,               // 20 failures
		IPWindow:            1 * time.Hour,    // per hour
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "username" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckLoginRateLimit reports whether a username or client IP has
// accumulated too many recent failed logins. Successful logins are never
// recorded, so legitimate staff are only throttled after repeated
// failures.
func (s *RateLimitService) CheckLoginRateLimit(username, ip string) error {
	config := DefaultRateLimitConfig()

	if username != "" {
		count, lastAttempt, err := s.getAttemptCount(username, "username", config.UsernameWindow)
		if err != nil {
			return fmt.Errorf("failed to check username rate limit: %w", err)
		}

		if count >= config.MaxUsernameFailures {
			retryAfter := lastAttempt.Add(config.UsernameWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many failed login attempts for this account. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "username",
			}
		}
	}

	if ip != "" {
		count, lastAttempt, err := s.getAttemptCount(ip, "ip", config.IPWindow)
		if err != nil {
			return fmt.Errorf("failed to check IP rate limit: %w", err)
		}

		if count >= config.MaxIPFailures {
			retryAfter := lastAttempt.Add(config.IPWindow)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many failed login attempts from this address. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "ip",
			}
		}
	}

	return nil
}

// getAttemptCount counts failed attempts within the time window
func (s *RateLimitService) getAttemptCount(identifier, identifierType string, window time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Add(-window)

	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM login_attempts
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`

	var count int
	var lastAttempt time.Time

	err := s.db.QueryRow(query, identifier, identifierType, windowStart).Scan(&count, &lastAttempt)
	if err != nil && err != sql.ErrNoRows {
		return 0, time.Time{}, err
	}

	return count, lastAttempt, nil
}

// RecordFailedLogin records a failed login attempt against both the
// username and the client IP.
func (s *RateLimitService) RecordFailedLogin(username, ip string) error {
	if username != "" {
		if err := s.recordAttempt(username, "username"); err != nil {
			return fmt.Errorf("failed to record username attempt: %w", err)
		}
	}

	if ip != "" {
		if err := s.recordAttempt(ip, "ip"); err != nil {
			return fmt.Errorf("failed to record IP attempt: %w", err)
		}
	}

	return nil
}

// recordAttempt inserts a login attempt record
func (s *RateLimitService) recordAttempt(identifier, identifierType string) error {
	query := `
		INSERT INTO login_attempts (identifier, identifier_type, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.Exec(query, identifier, identifierType)
	return err
}

// CleanupExpiredAttempts removes attempt records older than the longest
// throttle window.
func (s *RateLimitService) CleanupExpiredAttempts() (int64, error) {
	config := DefaultRateLimitConfig()

	maxWindow := config.IPWindow
	if config.UsernameWindow > maxWindow {
		maxWindow = config.UsernameWindow
	}

	cutoffTime := time.Now().Add(-maxWindow)

	query := `
		DELETE FROM login_attempts
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup login attempts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
