package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborview/hms-backend/pkg/validator"
)

// EmployeePosition enumerates staffed roles in the hotel.
type EmployeePosition string

const (
	PositionReceptionist EmployeePosition = "Receptionist"
	PositionKitchen      EmployeePosition = "Kitchen"
	PositionCleaning     EmployeePosition = "Cleaning"
	PositionSecurity     EmployeePosition = "Security"
	PositionManager      EmployeePosition = "Manager"
)

// Valid reports whether the position is one of the known roles.
func (p EmployeePosition) Valid() bool {
	switch p {
	case PositionReceptionist, PositionKitchen, PositionCleaning, PositionSecurity, PositionManager:
		return true
	}
	return false
}

// EmploymentStatus enumerates whether an employee is on the payroll.
type EmploymentStatus string

const (
	EmploymentActive   EmploymentStatus = "Active"
	EmploymentResigned EmploymentStatus = "Resigned"
)

// Valid reports whether the status is a known employment state.
func (s EmploymentStatus) Valid() bool {
	return s == EmploymentActive || s == EmploymentResigned
}

// Employee represents a member of the hotel workforce.
type Employee struct {
	ID        string           `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Position  EmployeePosition `json:"position" db:"position"`
	Phone     string           `json:"phone" db:"phone"`
	Email     *string          `json:"email,omitempty" db:"email"`
	Address   *string          `json:"address,omitempty" db:"address"`
	Salary    decimal.Decimal  `json:"salary" db:"salary"`
	HireDate  Date             `json:"hire_date" db:"hire_date"`
	Status    EmploymentStatus `json:"status" db:"status"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// CreateEmployeeRequest represents the request to register an employee
type CreateEmployeeRequest struct {
	Name     string           `json:"name" binding:"required"`
	Position EmployeePosition `json:"position" binding:"required"`
	Phone    string           `json:"phone" binding:"required"`
	Email    *string          `json:"email,omitempty"`
	Address  *string          `json:"address,omitempty"`
	Salary   decimal.Decimal  `json:"salary"`
	HireDate Date             `json:"hire_date" binding:"required"`
}

// Validate validates the create employee request
func (r *CreateEmployeeRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !r.Position.Valid() {
		return fmt.Errorf("unknown position %q", r.Position)
	}
	if !validator.IsValidPhone(r.Phone) {
		return errors.New("phone must be a valid 11-digit mobile number")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		return errors.New("email is not a valid address")
	}
	if !r.Salary.IsPositive() {
		return errors.New("salary must be positive")
	}
	if r.HireDate.IsZero() {
		return errors.New("hire_date is required")
	}
	return nil
}

// UpdateEmployeeRequest represents a partial update of an employee. Nil
// fields are left unchanged.
type UpdateEmployeeRequest struct {
	Name     *string           `json:"name,omitempty"`
	Position *EmployeePosition `json:"position,omitempty"`
	Phone    *string           `json:"phone,omitempty"`
	Email    *string           `json:"email,omitempty"`
	Address  *string           `json:"address,omitempty"`
	Salary   *decimal.Decimal  `json:"salary,omitempty"`
	Status   *EmploymentStatus `json:"status,omitempty"`
}

// Validate validates the update employee request
func (r *UpdateEmployeeRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.Position != nil && !r.Position.Valid() {
		return fmt.Errorf("unknown position %q", *r.Position)
	}
	if r.Phone != nil && !validator.IsValidPhone(*r.Phone) {
		return errors.New("phone must be a valid 11-digit mobile number")
	}
	if r.Salary != nil && !r.Salary.IsPositive() {
		return errors.New("salary must be positive")
	}
	if r.Status != nil && !r.Status.Valid() {
		return fmt.Errorf("unknown status %q", *r.Status)
	}
	return nil
}

// EmployeeFilter narrows employee listings.
type EmployeeFilter struct {
	Position EmployeePosition
	Status   EmploymentStatus
}
