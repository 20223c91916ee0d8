package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harborview/hms-backend/internal/models"
)

// EmployeeRepository handles database operations for the employees table
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, name, position, phone, email, address, salary, hire_date, status, created_at, updated_at`

// Create inserts a new employee
func (r *EmployeeRepository) Create(employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, name, position, phone, email, address, salary, hire_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	if employee.ID == "" {
		employee.ID = uuid.New().String()
	}
	if employee.Status == "" {
		employee.Status = models.EmploymentActive
	}

	err := r.db.QueryRow(
		query,
		employee.ID, employee.Name, employee.Position, employee.Phone,
		employee.Email, employee.Address, employee.Salary, employee.HireDate, employee.Status,
	).Scan(&employee.CreatedAt, &employee.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(employeeID string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	employee := &models.Employee{}
	err := r.db.Get(employee, query, employeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("employee %s: %w", employeeID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return employee, nil
}

// List retrieves employees matching the filter, ordered by name
func (r *EmployeeRepository) List(filter models.EmployeeFilter) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Position != "" {
		query += fmt.Sprintf(" AND position = $%d", argPos)
		args = append(args, filter.Position)
		argPos++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	query += " ORDER BY name"

	employees := []models.Employee{}
	if err := r.db.Select(&employees, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	return employees, nil
}

// Update rewrites the mutable fields of an employee
func (r *EmployeeRepository) Update(employee *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $2, position = $3, phone = $4, email = $5, address = $6,
			salary = $7, status = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		query,
		employee.ID, employee.Name, employee.Position, employee.Phone,
		employee.Email, employee.Address, employee.Salary, employee.Status,
	).Scan(&employee.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("employee %s: %w", employee.ID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return nil
}

// Delete removes an employee record
func (r *EmployeeRepository) Delete(employeeID string) error {
	result, err := r.db.Exec(`DELETE FROM employees WHERE id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("employee %s: %w", employeeID, models.ErrNotFound)
	}

	return nil
}
