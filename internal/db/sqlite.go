package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kkolkov/students-api/internal/config"
	"github.com/kkolkov/students-api/internal/pkg/logger"
)

// SQLiteDB database connection structure
type SQLiteDB struct {
	DB *sql.DB
}

// NewSQLiteDB opens the file-backed SQLite database at the configured path
func NewSQLiteDB(cfg *config.Config) (*SQLiteDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dsn := BuildDSN(cfg.Database.Path, cfg.BusyTimeoutMillis())

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connection pool configuration
	conn.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	conn.SetConnMaxLifetime(maxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &SQLiteDB{DB: conn}, nil
}

// BuildDSN builds a SQLite DSN for the given file path.
// The busy timeout keeps concurrent writers from failing immediately with SQLITE_BUSY.
func BuildDSN(path string, busyTimeoutMillis int64) string {
	q := url.Values{}
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMillis))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}

// Close closing method
func (db *SQLiteDB) Close() error {
	if db.DB != nil {
		return db.DB.Close()
	}
	return nil
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs a function within a transaction
func (db *SQLiteDB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback on panic
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
