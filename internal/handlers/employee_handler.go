package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
)

// EmployeeHandler exposes workforce management over HTTP
type EmployeeHandler struct {
	employeeRepo *database.EmployeeRepository
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeRepo *database.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{employeeRepo: employeeRepo}
}

// CreateEmployee registers a new employee
// POST /api/v1/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := &models.Employee{
		Name:     req.Name,
		Position: req.Position,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Salary:   req.Salary,
		HireDate: req.HireDate,
		Status:   models.EmploymentActive,
	}

	if err := h.employeeRepo.Create(employee); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, employee)
}

// GetEmployee retrieves a single employee
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// ListEmployees retrieves employees with optional filters
// GET /api/v1/employees?position=&status=
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	filter := models.EmployeeFilter{}

	if position := c.Query("position"); position != "" {
		filter.Position = models.EmployeePosition(position)
		if !filter.Position.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown position filter"})
			return
		}
	}
	if status := c.Query("status"); status != "" {
		filter.Status = models.EmploymentStatus(status)
		if !filter.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status filter"})
			return
		}
	}

	employees, err := h.employeeRepo.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employees)
}

// UpdateEmployee applies a partial update to an employee
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee, err := h.employeeRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Email != nil {
		employee.Email = req.Email
	}
	if req.Address != nil {
		employee.Address = req.Address
	}
	if req.Salary != nil {
		employee.Salary = *req.Salary
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}

	if err := h.employeeRepo.Update(employee); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee removes an employee record
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	if err := h.employeeRepo.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}
