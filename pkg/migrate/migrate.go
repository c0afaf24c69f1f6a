// Package migrate applies versioned SQL migrations to SQLite and PostgreSQL databases.
package migrate

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/chrissnell/voltview/internal/log"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// DB represents either a database connection or transaction
type DB interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// MigrationProvider defines how migrations are loaded and how applied versions are tracked
type MigrationProvider interface {
	GetMigrations() ([]Migration, error)
	GetCurrentVersion(db *sql.DB) (int, error)
	SetVersion(db DB, version int) error
	CreateMigrationTable(db *sql.DB) error
}

// Migrator handles the execution of migrations
type Migrator struct {
	db       *sql.DB
	provider MigrationProvider
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *sql.DB, provider MigrationProvider) *Migrator {
	return &Migrator{
		db:       db,
		provider: provider,
	}
}

// MigrateUp runs all pending migrations and returns how many were applied
func (m *Migrator) MigrateUp() (int, error) {
	return m.MigrateTo(-1)
}

// MigrateTo runs migrations up or down to reach a specific version. -1 means latest.
func (m *Migrator) MigrateTo(targetVersion int) (int, error) {
	currentVersion, err := m.GetCurrentVersion()
	if err != nil {
		return 0, err
	}

	migrations, err := m.sortedMigrations(true)
	if err != nil {
		return 0, err
	}

	if targetVersion == -1 {
		if len(migrations) == 0 {
			return 0, nil
		}
		targetVersion = migrations[len(migrations)-1].Version
	}

	if targetVersion < currentVersion {
		return m.MigrateDown(targetVersion)
	}

	applied := 0
	for _, migration := range migrations {
		if migration.Version > currentVersion && migration.Version <= targetVersion {
			if err := m.executeMigration(migration, true); err != nil {
				return applied, fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
			}
			applied++
		}
	}
	return applied, nil
}

// MigrateDown reverts migrations newer than targetVersion
func (m *Migrator) MigrateDown(targetVersion int) (int, error) {
	currentVersion, err := m.GetCurrentVersion()
	if err != nil {
		return 0, err
	}

	if targetVersion >= currentVersion {
		return 0, fmt.Errorf("target version %d must be less than current version %d", targetVersion, currentVersion)
	}

	migrations, err := m.sortedMigrations(false)
	if err != nil {
		return 0, err
	}

	reverted := 0
	for _, migration := range migrations {
		if migration.Version > targetVersion && migration.Version <= currentVersion {
			if err := m.executeMigration(migration, false); err != nil {
				return reverted, fmt.Errorf("failed to rollback migration %d: %w", migration.Version, err)
			}
			reverted++
		}
	}
	return reverted, nil
}

// GetCurrentVersion returns the current migration version
func (m *Migrator) GetCurrentVersion() (int, error) {
	if err := m.provider.CreateMigrationTable(m.db); err != nil {
		return 0, fmt.Errorf("failed to create migration table: %w", err)
	}
	v, err := m.provider.GetCurrentVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return v, nil
}

// GetPendingMigrations returns migrations that haven't been applied yet
func (m *Migrator) GetPendingMigrations() ([]Migration, error) {
	currentVersion, err := m.GetCurrentVersion()
	if err != nil {
		return nil, err
	}

	migrations, err := m.sortedMigrations(true)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, migration := range migrations {
		if migration.Version > currentVersion {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

func (m *Migrator) sortedMigrations(ascending bool) ([]Migration, error) {
	migrations, err := m.provider.GetMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to get migrations: %w", err)
	}
	sort.Slice(migrations, func(i, j int) bool {
		if ascending {
			return migrations[i].Version < migrations[j].Version
		}
		return migrations[i].Version > migrations[j].Version
	})
	return migrations, nil
}

// executeMigration runs a single migration and records the resulting version
// in the same transaction
func (m *Migrator) executeMigration(migration Migration, up bool) error {
	direction, stmt, newVersion := "up", migration.Up, migration.Version
	if !up {
		direction, stmt, newVersion = "down", migration.Down, migration.Version-1
	}

	if stmt == "" {
		return fmt.Errorf("migration %d has no %s SQL", migration.Version, direction)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(stmt); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if err := m.provider.SetVersion(tx, newVersion); err != nil {
		return fmt.Errorf("failed to update migration version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration transaction: %w", err)
	}

	log.Infow("applied migration", "version", migration.Version, "name", migration.Name, "direction", direction)
	return nil
}
