package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Both dialects share table and column names so repository SQL is portable;
// only key generation and timestamp types differ.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		identity_key BIGINT PRIMARY KEY,
		user_name TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_user_name ON users(user_name);`,
	`CREATE TABLE IF NOT EXISTS exercises (
		exercise_id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		constants TEXT NOT NULL DEFAULT '',
		predicates TEXT NOT NULL DEFAULT '',
		functions TEXT NOT NULL DEFAULT '',
		constraints TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS propositions (
		proposition_id BIGSERIAL PRIMARY KEY,
		exercise_id BIGINT NOT NULL REFERENCES exercises(exercise_id) ON DELETE CASCADE,
		proposition TEXT NOT NULL,
		sort_order INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_propositions_exercise ON propositions(exercise_id, sort_order);`,
	`CREATE TABLE IF NOT EXISTS formalizations (
		formalization_id BIGSERIAL PRIMARY KEY,
		proposition_id BIGINT NOT NULL REFERENCES propositions(proposition_id) ON DELETE CASCADE,
		formalization TEXT NOT NULL,
		constraints TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_formalizations_proposition ON formalizations(proposition_id, sort_order);`,
	`CREATE TABLE IF NOT EXISTS solutions (
		solution_id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(identity_key),
		proposition_id BIGINT NOT NULL REFERENCES propositions(proposition_id) ON DELETE CASCADE,
		solution TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_solutions_proposition_user ON solutions(proposition_id, user_id, submitted_at);`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		identity_key INTEGER PRIMARY KEY,
		user_name TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_users_user_name ON users(user_name);`,
	`CREATE TABLE IF NOT EXISTS exercises (
		exercise_id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		constants TEXT NOT NULL DEFAULT '',
		predicates TEXT NOT NULL DEFAULT '',
		functions TEXT NOT NULL DEFAULT '',
		constraints TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS propositions (
		proposition_id INTEGER PRIMARY KEY AUTOINCREMENT,
		exercise_id INTEGER NOT NULL REFERENCES exercises(exercise_id) ON DELETE CASCADE,
		proposition TEXT NOT NULL,
		sort_order INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_propositions_exercise ON propositions(exercise_id, sort_order);`,
	`CREATE TABLE IF NOT EXISTS formalizations (
		formalization_id INTEGER PRIMARY KEY AUTOINCREMENT,
		proposition_id INTEGER NOT NULL REFERENCES propositions(proposition_id) ON DELETE CASCADE,
		formalization TEXT NOT NULL,
		constraints TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_formalizations_proposition ON formalizations(proposition_id, sort_order);`,
	`CREATE TABLE IF NOT EXISTS solutions (
		solution_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(identity_key),
		proposition_id INTEGER NOT NULL REFERENCES propositions(proposition_id) ON DELETE CASCADE,
		solution TEXT NOT NULL,
		is_correct BOOLEAN NOT NULL,
		submitted_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_solutions_proposition_user ON solutions(proposition_id, user_id, submitted_at);`,
}

// Migrate creates any missing tables for driver. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var statements []string
	switch driver {
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
