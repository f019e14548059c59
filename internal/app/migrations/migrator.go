package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// migration is a single versioned schema change.
type migration struct {
	Version string
	Name    string
	SQL     string
}

// migrationSet lists all schema migrations in order.
// The schema is embedded so the binary carries everything it needs to
// initialize a fresh database file.
var migrationSet = []migration{
	{
		Version: "001",
		Name:    "create_students",
		SQL: `
		CREATE TABLE IF NOT EXISTS students (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			last_name TEXT NOT NULL,
			first_name TEXT NOT NULL,
			faculty TEXT NOT NULL,
			course TEXT NOT NULL,
			grade REAL NOT NULL
		);`,
	},
}

// Migrator manages database migrations
type Migrator struct {
	db *sql.DB
}

// NewMigrator creates a new migrator
func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{
		db: db,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := m.db.ExecContext(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?);`
	err := m.db.QueryRowContext(ctx, query, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// Migrate applies all pending migrations. Safe to run against an already
// migrated database.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	for _, mig := range migrationSet {
		applied, err := m.isMigrationApplied(ctx, mig.Version)
		if err != nil {
			return err
		}

		if applied {
			logger.Debug().Str("version", mig.Version).Str("name", mig.Name).Msg("Migration already applied, skipping")
			continue
		}

		if err := m.applyMigration(ctx, mig); err != nil {
			return fmt.Errorf("migration %s_%s failed: %w", mig.Version, mig.Name, err)
		}

		logger.Info().Str("version", mig.Version).Str("name", mig.Name).Msg("Migration applied")
	}

	return nil
}

// applyMigration executes a single migration inside a transaction
func (m *Migrator) applyMigration(ctx context.Context, mig migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return fmt.Errorf("error occurred during SQL migration execution: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
		mig.Version, time.Now()); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}
