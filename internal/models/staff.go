package models

import (
	"errors"
	"fmt"
	"time"
)

// StaffRole enumerates back-office roles. Roles are carried in the access
// token; account administration and the manual overdue sweep are role-gated.
type StaffRole string

const (
	RoleAdmin     StaffRole = "admin"
	RoleManager   StaffRole = "manager"
	RoleFrontdesk StaffRole = "frontdesk"
)

// Valid reports whether the role is known.
func (r StaffRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleFrontdesk:
		return true
	}
	return false
}

// Staff represents a back-office account that operates the system.
type Staff struct {
	ID           string     `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose in JSON
	DisplayName  string     `json:"display_name" db:"display_name"`
	Role         StaffRole  `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// StaffSession records one issued token and the device it was issued to.
type StaffSession struct {
	ID        string     `json:"id" db:"id"`
	StaffID   string     `json:"staff_id" db:"staff_id"`
	TokenID   string     `json:"token_id" db:"token_id"`
	Device    string     `json:"device" db:"device"`
	IPAddress string     `json:"ip_address" db:"ip_address"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
}

// Revoked reports whether the session has been logged out.
func (s *StaffSession) Revoked() bool {
	return s.RevokedAt != nil
}

// LoginRequest represents a staff login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and the authenticated account
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Staff     *Staff    `json:"staff"`
}

// CreateStaffRequest represents the request to open a staff account
type CreateStaffRequest struct {
	Username    string    `json:"username" binding:"required"`
	Password    string    `json:"password" binding:"required"`
	DisplayName string    `json:"display_name" binding:"required"`
	Role        StaffRole `json:"role" binding:"required"`
}

// Validate validates the create staff request
func (r *CreateStaffRequest) Validate() error {
	if len(r.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if r.DisplayName == "" {
		return errors.New("display_name is required")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("unknown role %q", r.Role)
	}
	return nil
}
