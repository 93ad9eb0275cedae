package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// newMigrator wraps db in a migrate instance reading the embedded schema.
// The instance must not be closed: closing it closes db.
func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending migration.
func (s *SQLiteStore) MigrateUp() error {
	m, err := newMigrator(s.db)
	if err != nil {
		return err
	}
	return classifyMigrationError(m.Up())
}

// MigrateDown rolls back the given number of migrations.
func (s *SQLiteStore) MigrateDown(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive (got %d)", steps)
	}
	m, err := newMigrator(s.db)
	if err != nil {
		return err
	}
	return classifyMigrationError(m.Steps(-steps))
}

// SchemaVersion reports the currently applied migration version.
// A database with no migrations applied returns version 0.
func (s *SQLiteStore) SchemaVersion() (version uint, dirty bool, err error) {
	m, err := newMigrator(s.db)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

func classifyMigrationError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Debug("No new migrations found")
		return nil
	}
	var dirtyErr migrate.ErrDirty
	if errors.As(err, &dirtyErr) {
		return fmt.Errorf("migration failed: dirty database version %d", dirtyErr.Version)
	}
	return fmt.Errorf("migration failed: %w", err)
}
