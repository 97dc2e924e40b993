package database

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// MigrationsDir is relative to the working directory; tests point it at
// the repository root.
var MigrationsDir = "file://migrations"

// RunMigrations applies every pending migration of the category_rates schema.
func RunMigrations(databaseURL string) error {
	return withMigrator(databaseURL, "up", (*migrate.Migrate).Up)
}

// RollbackMigrations reverts the whole schema. cmd/migrate exposes it as
// the "down" command.
func RollbackMigrations(databaseURL string) error {
	return withMigrator(databaseURL, "down", (*migrate.Migrate).Down)
}

func withMigrator(databaseURL, direction string, step func(*migrate.Migrate) error) error {
	m, err := migrate.New(MigrationsDir, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator from %s: %w", MigrationsDir, err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	event := log.Info().Str("direction", direction)
	if version, dirty, err := m.Version(); err == nil {
		event = event.Uint("version", version).Bool("dirty", dirty)
	}
	event.Msg("rate schema migrated")
	return nil
}
