package infra

import (
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Migrate applies pending goose migrations from the configured directory.
// Goose keeps its own database/sql connection; the pgx pool is opened after
// migrations have finished.
func Migrate(cfg *Config) error {
	db, err := goose.OpenDBWithDriver("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
