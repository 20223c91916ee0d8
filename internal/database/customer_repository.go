package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harborview/hms-backend/internal/models"
)

// CustomerRepository handles database operations for the customers table
type CustomerRepository struct {
	db DB
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, name, id_number, phone, email, address, created_at, updated_at`

// Create inserts a new customer
func (r *CustomerRepository) Create(customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, id_number, phone, email, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		customer.ID, customer.Name, customer.IDNumber,
		customer.Phone, customer.Email, customer.Address,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("customer with id number %s already exists", customer.IDNumber)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(customerID string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer := &models.Customer{}
	err := r.db.Get(customer, query, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", customerID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// List retrieves customers, optionally matching a search term against
// name, identity number, or phone
func (r *CustomerRepository) List(filter models.CustomerFilter) ([]models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	args := []interface{}{}

	if filter.Search != "" {
		query += ` WHERE name ILIKE $1 OR id_number ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	query += ` ORDER BY name`

	customers := []models.Customer{}
	if err := r.db.Select(&customers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// Update rewrites the mutable fields of a customer
func (r *CustomerRepository) Update(customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address,
	).Scan(&customer.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("customer %s: %w", customer.ID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// Delete removes a customer. Callers must check deletion protection first.
func (r *CustomerRepository) Delete(customerID string) error {
	result, err := r.db.Exec(`DELETE FROM customers WHERE id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("customer %s: %w", customerID, models.ErrNotFound)
	}

	return nil
}
