package entity

import (
	"time"
)

// DefaultBudgetName is the budget created alongside a new user.
const DefaultBudgetName = "My Budget"

// DefaultCurrency is used when a budget is created without an explicit currency.
const DefaultCurrency = "USD"

// Budget is a named container a user organizes transactions under.
// At most one budget per user carries IsDefault.
type Budget struct {
	ID        string
	UserID    string
	Name      string
	Currency  string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
