package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IncomeSource enumerates where revenue came from.
type IncomeSource string

const (
	IncomeSourceRoom  IncomeSource = "Room"
	IncomeSourceFood  IncomeSource = "Food"
	IncomeSourceOther IncomeSource = "Other"
)

// Valid reports whether the source is a known revenue category.
func (s IncomeSource) Valid() bool {
	switch s {
	case IncomeSourceRoom, IncomeSourceFood, IncomeSourceOther:
		return true
	}
	return false
}

// ExpenseCategory enumerates what an expense paid for.
type ExpenseCategory string

const (
	ExpenseCategorySalary      ExpenseCategory = "Salary"
	ExpenseCategoryMaintenance ExpenseCategory = "Maintenance"
	ExpenseCategoryUtilities   ExpenseCategory = "Utilities"
	ExpenseCategoryOther       ExpenseCategory = "Other"
)

// Valid reports whether the category is a known expense kind.
func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategorySalary, ExpenseCategoryMaintenance, ExpenseCategoryUtilities, ExpenseCategoryOther:
		return true
	}
	return false
}

// IncomeEntry is an append-only revenue record. The engine writes room
// income on booking confirmation; other entries arrive manually. Entries
// are never mutated or deleted.
type IncomeEntry struct {
	ID          string          `json:"id" db:"id"`
	EntryDate   Date            `json:"entry_date" db:"entry_date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Source      IncomeSource    `json:"source" db:"source"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// ExpenseEntry is an append-only cost record. The engine writes refund
// expenses on cancellation; other entries arrive manually.
type ExpenseEntry struct {
	ID          string          `json:"id" db:"id"`
	EntryDate   Date            `json:"entry_date" db:"entry_date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Category    ExpenseCategory `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// CreateIncomeRequest represents a manual income entry
type CreateIncomeRequest struct {
	EntryDate   Date            `json:"entry_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Source      IncomeSource    `json:"source" binding:"required"`
	Description string          `json:"description"`
}

// Validate validates the manual income entry
func (r *CreateIncomeRequest) Validate() error {
	if r.EntryDate.IsZero() {
		return errors.New("entry_date is required")
	}
	if r.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if !r.Source.Valid() {
		return fmt.Errorf("unknown income source %q", r.Source)
	}
	return nil
}

// CreateExpenseRequest represents a manual expense entry
type CreateExpenseRequest struct {
	EntryDate   Date            `json:"entry_date" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    ExpenseCategory `json:"category" binding:"required"`
	Description string          `json:"description"`
}

// Validate validates the manual expense entry
func (r *CreateExpenseRequest) Validate() error {
	if r.EntryDate.IsZero() {
		return errors.New("entry_date is required")
	}
	if r.Amount.IsNegative() {
		return errors.New("amount must not be negative")
	}
	if !r.Category.Valid() {
		return fmt.Errorf("unknown expense category %q", r.Category)
	}
	return nil
}

// LedgerFilter narrows ledger listings to a category and a date window.
// Source applies to income queries, Category to expense queries.
type LedgerFilter struct {
	Source   IncomeSource
	Category ExpenseCategory
	From     Date
	To       Date
}

// LedgerSummary aggregates both ledgers over a date window.
type LedgerSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income" db:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense" db:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}
