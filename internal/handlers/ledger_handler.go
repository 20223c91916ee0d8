package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborview/hms-backend/internal/database"
	"github.com/harborview/hms-backend/internal/models"
)

// LedgerHandler exposes the income and expense ledgers over HTTP. Entries
// are append-only; there is no update or delete route.
type LedgerHandler struct {
	ledgerRepo *database.LedgerRepository
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerRepo *database.LedgerRepository) *LedgerHandler {
	return &LedgerHandler{ledgerRepo: ledgerRepo}
}

// CreateIncome records a manual income entry, e.g. restaurant takings
// POST /api/v1/finance/income
func (h *LedgerHandler) CreateIncome(c *gin.Context) {
	var req models.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.IncomeEntry{
		EntryDate:   req.EntryDate,
		Amount:      req.Amount,
		Source:      req.Source,
		Description: req.Description,
	}

	if err := h.ledgerRepo.CreateIncome(entry); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListIncome retrieves income entries
// GET /api/v1/finance/income?source=&from=&to=
func (h *LedgerHandler) ListIncome(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	if source := c.Query("source"); source != "" {
		filter.Source = models.IncomeSource(source)
		if !filter.Source.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source filter"})
			return
		}
	}

	entries, err := h.ledgerRepo.ListIncome(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// CreateExpense records a manual expense entry, e.g. payroll or utilities
// POST /api/v1/finance/expenses
func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.ExpenseEntry{
		EntryDate:   req.EntryDate,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}

	if err := h.ledgerRepo.CreateExpense(entry); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListExpenses retrieves expense entries
// GET /api/v1/finance/expenses?category=&from=&to=
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	if category := c.Query("category"); category != "" {
		filter.Category = models.ExpenseCategory(category)
		if !filter.Category.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category filter"})
			return
		}
	}

	entries, err := h.ledgerRepo.ListExpenses(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// GetSummary totals both ledgers over an optional date window
// GET /api/v1/finance/summary?from=&to=
func (h *LedgerHandler) GetSummary(c *gin.Context) {
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	summary, err := h.ledgerRepo.Summarize(filter.From, filter.To)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// parseFilter reads the shared from/to window. Responds with 400 and
// returns false on a malformed date.
func (h *LedgerHandler) parseFilter(c *gin.Context) (models.LedgerFilter, bool) {
	filter := models.LedgerFilter{}

	if from := c.Query("from"); from != "" {
		parsed, err := models.ParseDate(from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be formatted YYYY-MM-DD"})
			return filter, false
		}
		filter.From = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := models.ParseDate(to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be formatted YYYY-MM-DD"})
			return filter, false
		}
		filter.To = parsed
	}

	return filter, true
}
