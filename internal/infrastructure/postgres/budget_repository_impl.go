package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/budgetwise/backend/internal/domain/entity"
	"github.com/budgetwise/backend/internal/domain/repository"
)

type BudgetRepository struct {
	pool *pgxpool.Pool
}

func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, name, currency, is_default, created_at, updated_at`

func scanBudget(row pgx.Row) (*entity.Budget, error) {
	b := &entity.Budget{}
	if err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Currency, &b.IsDefault,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID string) ([]entity.Budget, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]entity.Budget, 0)
	for rows.Next() {
		var b entity.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Currency, &b.IsDefault,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) GetByID(ctx context.Context, userID, id string) (*entity.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE id = $1 AND user_id = $2
	`, id, userID))
}

func (r *BudgetRepository) GetDefault(ctx context.Context, userID string) (*entity.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1 AND is_default
	`, userID))
}

func (r *BudgetRepository) GetLatest(ctx context.Context, userID string) (*entity.Budget, error) {
	return scanBudget(r.pool.QueryRow(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID))
}

// Create inserts the budget. A default insert clears the user's prior default
// inside the same transaction; the partial unique index on (user_id) WHERE
// is_default rejects any interleaving that would leave two defaults.
func (r *BudgetRepository) Create(ctx context.Context, b *entity.Budget) error {
	if b.Currency == "" {
		b.Currency = entity.DefaultCurrency
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if b.IsDefault {
			if _, err := tx.Exec(ctx, `
				UPDATE budgets SET is_default = false, updated_at = now()
				WHERE user_id = $1 AND is_default
			`, b.UserID); err != nil {
				return err
			}
		}
		row := tx.QueryRow(ctx, `
			INSERT INTO budgets (user_id, name, currency, is_default)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`, b.UserID, b.Name, b.Currency, b.IsDefault)
		return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	})
}

func (r *BudgetRepository) Update(ctx context.Context, b *entity.Budget) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if b.IsDefault {
			if _, err := tx.Exec(ctx, `
				UPDATE budgets SET is_default = false, updated_at = now()
				WHERE user_id = $1 AND is_default AND id <> $2
			`, b.UserID, b.ID); err != nil {
				return err
			}
		}
		row := tx.QueryRow(ctx, `
			UPDATE budgets
			SET name = $1, currency = $2, is_default = $3, updated_at = now()
			WHERE id = $4 AND user_id = $5
			RETURNING updated_at
		`, b.Name, b.Currency, b.IsDefault, b.ID, b.UserID)
		if err := row.Scan(&b.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}
		return nil
	})
}

// DeleteAndPromote deletes the budget in one transaction. The user's whole
// budget set is locked up front so concurrent deletes serialize; locking only
// the target row would let deletes of two different budgets each count both
// rows, pass the only-budget check, and leave the user with none. When the
// default is being deleted, the most recently created survivor is promoted.
func (r *BudgetRepository) DeleteAndPromote(ctx context.Context, userID, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, is_default FROM budgets
			WHERE user_id = $1
			FOR UPDATE
		`, userID)
		if err != nil {
			return err
		}
		var count int64
		var found, isDefault bool
		for rows.Next() {
			var rowID string
			var rowDefault bool
			if err := rows.Scan(&rowID, &rowDefault); err != nil {
				rows.Close()
				return err
			}
			count++
			if rowID == id {
				found, isDefault = true, rowDefault
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if !found {
			return repository.ErrNotFound
		}
		if count <= 1 {
			return repository.ErrLastBudget
		}

		// Delete before promoting: the partial unique index would reject a
		// second default while the doomed row still holds the flag. The
		// transaction commits both or neither.
		if _, err := tx.Exec(ctx, `
			DELETE FROM budgets WHERE id = $1 AND user_id = $2
		`, id, userID); err != nil {
			return err
		}

		if isDefault {
			if _, err := tx.Exec(ctx, `
				UPDATE budgets SET is_default = true, updated_at = now()
				WHERE id = (
					SELECT id FROM budgets
					WHERE user_id = $1
					ORDER BY created_at DESC
					LIMIT 1
				)
			`, userID); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ repository.BudgetRepository = (*BudgetRepository)(nil)
