package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
	"github.com/harborview/hms-backend/internal/services"
)

// CustomerHandler exposes customer management over HTTP
type CustomerHandler struct {
	customerRepo       *database.CustomerRepository
	reservationService *services.ReservationService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerRepo *database.CustomerRepository, reservationService *services.ReservationService) *CustomerHandler {
	return &CustomerHandler{
		customerRepo:       customerRepo,
		reservationService: reservationService,
	}
}

// CreateCustomer registers a new customer
// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req models.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := &models.Customer{
		Name:     req.Name,
		IDNumber: req.IDNumber,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
	}

	if err := h.customerRepo.Create(customer); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomer retrieves a single customer
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ListCustomers retrieves customers, optionally matching a search term
// against name, identity number, or phone
// GET /api/v1/customers?search=
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	filter := models.CustomerFilter{Search: c.Query("search")}

	customers, err := h.customerRepo.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customers)
}

// UpdateCustomer applies a partial update to a customer. The identity
// number is immutable.
// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var req models.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.customerRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	checkedIn, err := h.reservationService.CustomerCheckedIn(customer.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if checkedIn {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "update_blocked",
			"message": "customer is currently checked in",
		})
		return
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Address != nil {
		customer.Address = req.Address
	}

	if err := h.customerRepo.Update(customer); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer unless they hold an active reservation
// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	customerID := c.Param("id")

	if err := h.reservationService.CanDeleteCustomer(customerID); err != nil {
		respondError(c, err)
		return
	}

	if err := h.customerRepo.Delete(customerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
