package repository

import "errors"

var (
	// ErrNotFound is returned when the requested row does not exist, or does
	// not belong to the given user. Repositories never distinguish the two.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user insert violates the email
	// uniqueness constraint.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrLastBudget is returned when deleting a user's only budget.
	ErrLastBudget = errors.New("cannot delete the only budget")
)
