package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/budgetwise/backend/internal/domain/entity"
	repo "github.com/budgetwise/backend/internal/domain/repository"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrLastBudget     = errors.New("cannot delete the only budget")
)

// BudgetService implements budget CRUD for an authenticated user. Every call
// takes the owning user id; the repository scopes each query by it, so
// cross-user access is impossible by construction.
type BudgetService struct {
	Repo   repo.BudgetRepository
	Logger *logrus.Logger
}

func NewBudgetService(r repo.BudgetRepository, logger *logrus.Logger) *BudgetService {
	return &BudgetService{Repo: r, Logger: logger}
}

// List returns the user's budgets, newest-created first.
func (s *BudgetService) List(ctx context.Context, userID string) ([]entity.Budget, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *BudgetService) Get(ctx context.Context, userID, id string) (*entity.Budget, error) {
	b, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetDefault returns the default-flagged budget, falling back to the most
// recently created one. ErrBudgetNotFound only when the user has zero budgets.
func (s *BudgetService) GetDefault(ctx context.Context, userID string) (*entity.Budget, error) {
	b, err := s.Repo.GetDefault(ctx, userID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	b, err = s.Repo.GetLatest(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return b, nil
}

type CreateBudgetInput struct {
	Name      string
	Currency  string
	IsDefault bool
}

func (s *BudgetService) Create(ctx context.Context, userID string, in CreateBudgetInput) (*entity.Budget, error) {
	b := &entity.Budget{
		UserID:    userID,
		Name:      in.Name,
		Currency:  in.Currency,
		IsDefault: in.IsDefault,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("create budget failed")
		return nil, err
	}
	return b, nil
}

// UpdateBudgetInput carries partial-update fields: a nil pointer means the
// field keeps its previous value.
type UpdateBudgetInput struct {
	Name      *string
	Currency  *string
	IsDefault *bool
}

func (s *BudgetService) Update(ctx context.Context, userID, id string, in UpdateBudgetInput) (*entity.Budget, error) {
	b, err := s.Repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		b.Name = *in.Name
	}
	if in.Currency != nil {
		b.Currency = *in.Currency
	}
	if in.IsDefault != nil {
		b.IsDefault = *in.IsDefault
	}

	if err := s.Repo.Update(ctx, b); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBudgetNotFound
		}
		s.Logger.WithError(err).WithField("budget_id", id).Error("update budget failed")
		return nil, err
	}
	return b, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.DeleteAndPromote(ctx, userID, id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return ErrBudgetNotFound
		case errors.Is(err, repo.ErrLastBudget):
			return ErrLastBudget
		default:
			s.Logger.WithError(err).WithField("budget_id", id).Error("delete budget failed")
			return err
		}
	}
	return nil
}
