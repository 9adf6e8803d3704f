package db

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/bmw-wellness/apiserver/config"
	"github.com/bmw-wellness/apiserver/internal/db/migrations"
)

// Migrate applies the embedded schema for the configured driver. Applying an
// up-to-date schema is a no-op.
func Migrate(cfg config.DatabaseConfig) error {
	dir, err := migrationDir(cfg.Driver)
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, MigrationURL(cfg))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	return nil
}

// MigrationURL returns the database URL understood by the migrator.
func MigrationURL(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return "sqlite://" + filepath.ToSlash(filepath.Clean(cfg.SQLitePath))
	}
	return PostgresURL(cfg)
}

func migrationDir(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite", nil
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverPostgresJSONB:
		return "postgres_jsonb", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
