package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/chrissnell/voltview/internal/voltage"
	"github.com/chrissnell/voltview/pkg/migrate"
	"github.com/jackc/pgx/v5"
)

//go:embed migrations/*.sql
var readingsMigrations embed.FS

// DefaultStationColumn is used by the importer when no station column is configured
const DefaultStationColumn = "station"

func (q ReadingQuery) stationColumn() string {
	if q.StationColumn == "" {
		return DefaultStationColumn
	}
	return q.StationColumn
}

// indexPrefix turns a possibly schema-qualified table name into a bare identifier
func (q ReadingQuery) indexPrefix() string {
	return strings.ReplaceAll(q.Table, ".", "_")
}

// MigrateReadings creates the readings table described by q as a TimescaleDB
// hypertable, applying only the steps that are still pending
func MigrateReadings(db *sql.DB, q ReadingQuery) (int, error) {
	vars := map[string]string{
		"table":          q.Table,
		"time_column":    q.TimeColumn,
		"value_column":   q.ValueColumn,
		"station_column": q.stationColumn(),
		"index_prefix":   q.indexPrefix(),
	}
	provider := migrate.NewFSProvider(readingsMigrations, "migrations",
		q.indexPrefix()+"_schema_migrations", migrate.Postgres, vars)

	applied, err := migrate.NewMigrator(db, provider).MigrateUp()
	if err != nil {
		return applied, fmt.Errorf("failed to migrate %s: %w", q.Table, err)
	}
	return applied, nil
}

// CopyReadings bulk-loads samples into the readings table with COPY
func CopyReadings(ctx context.Context, conn *pgx.Conn, q ReadingQuery, station string, samples []voltage.Sample) (int64, error) {
	ident := pgx.Identifier(strings.Split(q.Table, "."))
	columns := []string{q.TimeColumn, q.ValueColumn, q.stationColumn()}

	var stationValue any
	if station != "" {
		stationValue = station
	}

	rows := pgx.CopyFromSlice(len(samples), func(i int) ([]any, error) {
		return []any{samples[i].Timestamp, samples[i].Value, stationValue}, nil
	})

	n, err := conn.CopyFrom(ctx, ident, columns, rows)
	if err != nil {
		return n, fmt.Errorf("error copying readings into %s: %w", q.Table, err)
	}
	return n, nil
}
