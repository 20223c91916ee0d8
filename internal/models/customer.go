package models

import (
	"errors"
	"time"

	"github.com/harborview/hms-backend/pkg/validator"
)

// Customer represents a registered hotel guest.
type Customer struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IDNumber  string    `json:"id_number" db:"id_number"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Address   *string   `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCustomerRequest represents the request to register a customer
type CreateCustomerRequest struct {
	Name     string  `json:"name" binding:"required"`
	IDNumber string  `json:"id_number" binding:"required"`
	Phone    string  `json:"phone" binding:"required"`
	Email    *string `json:"email,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// Validate validates the create customer request
func (r *CreateCustomerRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if !validator.IsValidNationalID(r.IDNumber) {
		return errors.New("id_number must be a valid 18-character identity number")
	}
	if !validator.IsValidPhone(r.Phone) {
		return errors.New("phone must be a valid 11-digit mobile number")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		return errors.New("email is not a valid address")
	}
	return nil
}

// UpdateCustomerRequest represents a partial update of a customer. Nil
// fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
}

// Validate validates the update customer request
func (r *UpdateCustomerRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return errors.New("name cannot be empty")
	}
	if r.Phone != nil && !validator.IsValidPhone(*r.Phone) {
		return errors.New("phone must be a valid 11-digit mobile number")
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		return errors.New("email is not a valid address")
	}
	return nil
}

// CustomerFilter narrows customer listings. Search matches name, identity
// number, or phone.
type CustomerFilter struct {
	Search string
}
