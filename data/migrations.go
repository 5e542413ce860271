package data

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded goose migrations at startup.
func RunMigrations(db *sql.DB, fs embed.FS) error {
	goose.SetBaseFS(fs)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.Up(db, "data/migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
