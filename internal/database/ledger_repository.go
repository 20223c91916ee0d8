package database

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/harborview/hms-backend/internal/models"
)

// LedgerRepository handles database operations for the income and expense
// tables. Both ledgers are append-only: there are no update or delete
// operations here on purpose.
type LedgerRepository struct {
	db DB
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateIncome appends an income entry
func (r *LedgerRepository) CreateIncome(entry *models.IncomeEntry) error {
	query := `
		INSERT INTO income_entries (id, entry_date, amount, source, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		entry.ID, entry.EntryDate, entry.Amount, entry.Source, entry.Description,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create income entry: %w", err)
	}

	return nil
}

// CreateExpense appends an expense entry
func (r *LedgerRepository) CreateExpense(entry *models.ExpenseEntry) error {
	query := `
		INSERT INTO expense_entries (id, entry_date, amount, category, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		entry.ID, entry.EntryDate, entry.Amount, entry.Category, entry.Description,
	).Scan(&entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create expense entry: %w", err)
	}

	return nil
}

// ListIncome retrieves income entries matching the filter, newest first
func (r *LedgerRepository) ListIncome(filter models.LedgerFilter) ([]models.IncomeEntry, error) {
	query := `SELECT id, entry_date, amount, source, description, created_at FROM income_entries WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argPos)
		args = append(args, filter.Source)
		argPos++
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND entry_date >= $%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND entry_date <= $%d", argPos)
		args = append(args, filter.To)
		argPos++
	}

	query += " ORDER BY entry_date DESC, created_at DESC"

	entries := []models.IncomeEntry{}
	if err := r.db.Select(&entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list income entries: %w", err)
	}

	return entries, nil
}

// ListExpenses retrieves expense entries matching the filter, newest first
func (r *LedgerRepository) ListExpenses(filter models.LedgerFilter) ([]models.ExpenseEntry, error) {
	query := `SELECT id, entry_date, amount, category, description, created_at FROM expense_entries WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argPos)
		args = append(args, filter.Category)
		argPos++
	}
	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND entry_date >= $%d", argPos)
		args = append(args, filter.From)
		argPos++
	}
	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND entry_date <= $%d", argPos)
		args = append(args, filter.To)
		argPos++
	}

	query += " ORDER BY entry_date DESC, created_at DESC"

	entries := []models.ExpenseEntry{}
	if err := r.db.Select(&entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list expense entries: %w", err)
	}

	return entries, nil
}

// Summarize totals both ledgers over an optional date window
func (r *LedgerRepository) Summarize(from, to models.Date) (*models.LedgerSummary, error) {
	args := []interface{}{}
	argPos := 1

	// Each subquery binds its own copy of the window.
	buildWindow := func() string {
		window := ""
		if !from.IsZero() {
			window += fmt.Sprintf(" AND entry_date >= $%d", argPos)
			args = append(args, from)
			argPos++
		}
		if !to.IsZero() {
			window += fmt.Sprintf(" AND entry_date <= $%d", argPos)
			args = append(args, to)
			argPos++
		}
		return window
	}

	incomeWindow := buildWindow()
	expenseWindow := buildWindow()

	query := fmt.Sprintf(`
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM income_entries WHERE 1=1%s) AS total_income,
			(SELECT COALESCE(SUM(amount), 0) FROM expense_entries WHERE 1=1%s) AS total_expense
	`, incomeWindow, expenseWindow)

	summary := &models.LedgerSummary{}
	if err := r.db.Get(summary, query, args...); err != nil {
		return nil, fmt.Errorf("failed to summarize ledger: %w", err)
	}

	summary.Net = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary, nil
}
