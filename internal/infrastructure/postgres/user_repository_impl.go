package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, first_name, last_name, reset_token, reset_token_exp, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ResetToken, &u.ResetTokenExp, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreateWithDefaultBudget inserts the user row and their initial default budget
// in one transaction, so a failure between the two writes cannot leave a user
// without a budget.
func (r *UserRepository) CreateWithDefaultBudget(ctx context.Context, u *entity.User, budgetName string) (*entity.Budget, error) {
	b := &entity.Budget{Name: budgetName, Currency: entity.DefaultCurrency, IsDefault: true}

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, first_name, last_name)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`, u.Email, u.PasswordHash, u.FirstName, u.LastName)
		if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}

		b.UserID = u.ID
		row = tx.QueryRow(ctx, `
			INSERT INTO budgets (user_id, name, currency, is_default)
			VALUES ($1, $2, $3, true)
			RETURNING id, created_at, updated_at
		`, b.UserID, b.Name, b.Currency)
		return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return b, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, exp time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_token = $1, reset_token_exp = $2, updated_at = now()
		WHERE id = $3
	`, token, exp, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ResetPassword is a single conditional update: the stored token must match and
// must not have expired, and the token fields are cleared in the same write so
// a reset token is usable exactly once.
func (r *UserRepository) ResetPassword(ctx context.Context, id, token, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_exp = NULL, updated_at = now()
		WHERE id = $2 AND reset_token = $3 AND reset_token_exp > now()
	`, passwordHash, id, token)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
