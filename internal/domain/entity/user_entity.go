package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in PasswordHash. ResetToken and
// ResetTokenExp are set by the forgot-password flow and cleared when the reset
// completes; both are nil otherwise.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	ResetToken    *string
	ResetTokenExp *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
