package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/budgetwise/backend/config"
	"github.com/budgetwise/backend/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@budgetwise.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name
		RETURNING id
	`, email, hash, "Demo", "User").Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	// Ensure the default budget exists, plus a second one to exercise
	// default-flag transitions.
	if _, err := db.Exec(`
		INSERT INTO budgets (user_id, name, currency, is_default)
		SELECT $1, 'My Budget', 'USD', true
		WHERE NOT EXISTS (SELECT 1 FROM budgets WHERE user_id = $1 AND is_default)
	`, id); err != nil {
		log.Fatalf("failed to seed default budget: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO budgets (user_id, name, currency, is_default)
		SELECT $1, 'Trips', 'EUR', false
		WHERE NOT EXISTS (SELECT 1 FROM budgets WHERE user_id = $1 AND name = 'Trips')
	`, id); err != nil {
		log.Fatalf("failed to seed second budget: %v", err)
	}
	fmt.Println("budgets ensured: My Budget (default), Trips")
}
