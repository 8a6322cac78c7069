package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations runs all pending migrations automatically.
func RunMigrations(db *sql.DB, driver string, logger *log.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := goose.Up(db, "migrations"); err != nil {
		logger.Error("Database migrations failed", "error", err)
		return err
	}
	logger.Info("Database migrations completed successfully")
	return nil
}
