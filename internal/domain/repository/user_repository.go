package repository

import (
	"context"
	"time"

	"github.com/budgetwise/backend/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// CreateWithDefaultBudget inserts the user and their initial default budget
	// in a single transaction. Either both rows exist afterwards or neither.
	CreateWithDefaultBudget(ctx context.Context, u *entity.User, budgetName string) (*entity.Budget, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetResetToken stores a reset token and its absolute expiry on the user row.
	SetResetToken(ctx context.Context, id, token string, exp time.Time) error
	// ResetPassword sets the password hash and clears the reset token, but only
	// when the stored token matches and has not expired. ErrNotFound otherwise.
	ResetPassword(ctx context.Context, id, token, passwordHash string) error
}
