package repository

import (
	"context"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// BudgetRepository defines the interface for budget-related database
// operations. Every method is scoped by the owning user id; a budget owned by
// someone else is indistinguishable from one that does not exist.
type BudgetRepository interface {
	// ListByUser returns the user's budgets, newest-created first.
	ListByUser(ctx context.Context, userID string) ([]entity.Budget, error)
	GetByID(ctx context.Context, userID, id string) (*entity.Budget, error)
	// GetDefault returns the budget flagged default, ErrNotFound when none is.
	GetDefault(ctx context.Context, userID string) (*entity.Budget, error)
	// GetLatest returns the most recently created budget, ErrNotFound when the
	// user has no budgets.
	GetLatest(ctx context.Context, userID string) (*entity.Budget, error)
	// Create inserts the budget. When b.IsDefault, the user's prior default is
	// cleared in the same transaction.
	Create(ctx context.Context, b *entity.Budget) error
	// Update persists name/currency/is-default. When b.IsDefault, every other
	// budget of the user is cleared in the same transaction.
	Update(ctx context.Context, b *entity.Budget) error
	// DeleteAndPromote deletes the budget. ErrLastBudget when it is the user's
	// only one; when it is the default, the most recently created survivor is
	// promoted inside the same transaction.
	DeleteAndPromote(ctx context.Context, userID, id string) error
}
