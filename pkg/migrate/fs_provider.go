package migrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Dialect selects the SQL flavour of the version table
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

var migrationFile = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// FSProvider loads migrations from a directory of an fs.FS, usually an
// embed.FS. Files are named 001_name.up.sql / 001_name.down.sql.
//
// Vars are substituted into the SQL as ${name} before execution, which lets
// one migration set target a configurable table. Values must already be
// validated identifiers.
type FSProvider struct {
	fsys           fs.FS
	dir            string
	migrationTable string
	dialect        Dialect
	vars           map[string]string
}

// NewFSProvider creates a migration provider reading dir from fsys
func NewFSProvider(fsys fs.FS, dir, migrationTable string, dialect Dialect, vars map[string]string) *FSProvider {
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}
	return &FSProvider{
		fsys:           fsys,
		dir:            dir,
		migrationTable: migrationTable,
		dialect:        dialect,
		vars:           vars,
	}
}

func (fp *FSProvider) expand(stmt string) string {
	if len(fp.vars) == 0 {
		return stmt
	}
	pairs := make([]string, 0, len(fp.vars)*2)
	for k, v := range fp.vars {
		pairs = append(pairs, "${"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(stmt)
}

// GetMigrations loads every migration in the directory
func (fp *FSProvider) GetMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(fp.fsys, fp.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", fp.dir, err)
	}

	byVersion := make(map[int]*Migration)
	var versions []int

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := migrationFile.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}

		version, err := strconv.Atoi(matches[1])
		if err != nil {
			return nil, fmt.Errorf("invalid version number in file %s: %w", entry.Name(), err)
		}

		content, err := fs.ReadFile(fp.fsys, path.Join(fp.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		m, ok := byVersion[version]
		if !ok {
			m = &Migration{Version: version, Name: strings.ReplaceAll(matches[2], "_", " ")}
			byVersion[version] = m
			versions = append(versions, version)
		}
		if matches[3] == "up" {
			m.Up = fp.expand(string(content))
		} else {
			m.Down = fp.expand(string(content))
		}
	}

	migrations := make([]Migration, 0, len(versions))
	for _, v := range versions {
		migrations = append(migrations, *byVersion[v])
	}
	return migrations, nil
}

// CreateMigrationTable creates the migration tracking table
func (fp *FSProvider) CreateMigrationTable(db *sql.DB) error {
	timestampType := "DATETIME"
	if fp.dialect == Postgres {
		timestampType = "TIMESTAMPTZ"
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			applied_at %s DEFAULT CURRENT_TIMESTAMP
		)
	`, fp.migrationTable, timestampType)

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}
	return nil
}

// GetCurrentVersion returns the highest applied migration version
func (fp *FSProvider) GetCurrentVersion(db *sql.DB) (int, error) {
	query := fmt.Sprintf("SELECT COALESCE(MAX(version), 0) FROM %s", fp.migrationTable)

	var version int
	if err := db.QueryRow(query).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// SetVersion records version as the latest applied migration
func (fp *FSProvider) SetVersion(db DB, version int) error {
	// Rolling back removes every version above the new one
	if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE version > %d", fp.migrationTable, version)); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	if version == 0 {
		return nil
	}

	var query string
	if fp.dialect == Postgres {
		query = fmt.Sprintf(`
			INSERT INTO %s (version, applied_at)
			VALUES ($1, CURRENT_TIMESTAMP)
			ON CONFLICT (version) DO UPDATE SET applied_at = CURRENT_TIMESTAMP
		`, fp.migrationTable)
	} else {
		query = fmt.Sprintf(`
			INSERT OR REPLACE INTO %s (version, applied_at)
			VALUES (?, CURRENT_TIMESTAMP)
		`, fp.migrationTable)
	}

	if _, err := db.Exec(query, version); err != nil {
		return fmt.Errorf("failed to set version: %w", err)
	}
	return nil
}
