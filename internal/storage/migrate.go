package storage

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/nft-dashboard/internal/logging"
)

// Migrator applies the profiles schema migrations. The service owns a single
// Postgres database, so one migrator covers the whole schema.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens the migration source directory against the database URL.
func NewMigrator(databaseURL, migrationsPath string) (*Migrator, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations at %s: %w", migrationsPath, err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. An already current schema is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logging.GetGlobalLogger().Info("Profiles schema already up to date")
			return nil
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logging.GetGlobalLogger().Info("Profiles schema migrated")
	return nil
}

// Down rolls back the most recent migration.
func (mg *Migrator) Down() error {
	if err := mg.m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	logging.GetGlobalLogger().Info("Profiles schema rolled back one step")
	return nil
}

// Version reports the current schema version. A fresh database with no
// applied migrations reports version zero.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the migration source and database handles.
func (mg *Migrator) Close() {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		logging.GetGlobalLogger().WithError(srcErr).Warn("Failed to close migration source")
	}
	if dbErr != nil {
		logging.GetGlobalLogger().WithError(dbErr).Warn("Failed to close migration database handle")
	}
}
