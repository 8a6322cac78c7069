// Package db provides the SQL-backed content store behind the surfacing
// tracker.
//
// 1. The creation method runs embedded migrations against SQLite or
//    Postgres.
// 2. Category-scoped queries over candidate items.
// 3. A day-boundary cache for "today's" generated context.
package db

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kayleyai/kayley/pkg/surfacing"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store wraps a SQL database connection. It implements
// surfacing.ContentStore.
type Store struct {
	db     *sqlx.DB
	logger *log.Logger
}

var _ surfacing.ContentStore = (*Store)(nil)

// NewStore opens a SQLite-backed store at dbPath and runs migrations.
// dbPath may be ":memory:" for tests.
func NewStore(ctx context.Context, dbPath string, logger *log.Logger) (*Store, error) {
	return Open(ctx, DriverSQLite, dbPath, logger)
}

// Open connects to the given driver ("sqlite3" or "postgres") and runs
// pending migrations.
func Open(ctx context.Context, driver, dsn string, logger *log.Logger) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if driver == DriverSQLite {
		// WAL mode for better concurrency between the scheduler tick and
		// the consumer's selection reads.
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := RunMigrations(db.DB, driver, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying sqlx.DB instance.
func (s *Store) DB() *sqlx.DB {
	return s.db
}
