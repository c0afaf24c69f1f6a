package database

import (
	"strings"
	"testing"

	"github.com/chrissnell/voltview/pkg/migrate"
)

func TestReadingQueryClauses(t *testing.T) {
	q := ReadingQuery{Table: "metrics.voltage", TimeColumn: "ts", ValueColumn: "volts"}

	if got := q.SelectClause(); got != "ts AS time, volts AS value" {
		t.Errorf("SelectClause() = %q", got)
	}
	if got := q.OrderClause(); got != "ts ASC, ctid ASC" {
		t.Errorf("OrderClause() = %q", got)
	}
	if got := q.indexPrefix(); got != "metrics_voltage" {
		t.Errorf("indexPrefix() = %q", got)
	}
	if got := q.stationColumn(); got != DefaultStationColumn {
		t.Errorf("stationColumn() = %q, want default", got)
	}

	q.StationColumn = "device"
	if got := q.stationColumn(); got != "device" {
		t.Errorf("stationColumn() = %q, want device", got)
	}
}

func TestReadingsMigrationsExpand(t *testing.T) {
	vars := map[string]string{
		"table":          "voltage_readings",
		"time_column":    "time",
		"value_column":   "value",
		"station_column": "station",
		"index_prefix":   "voltage_readings",
	}
	p := migrate.NewFSProvider(readingsMigrations, "migrations", "", migrate.Postgres, vars)

	migrations, err := p.GetMigrations()
	if err != nil {
		t.Fatalf("GetMigrations() error = %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("got %d migrations, want 3", len(migrations))
	}

	for _, m := range migrations {
		if m.Up == "" || m.Down == "" {
			t.Errorf("migration %d is missing a direction", m.Version)
		}
		if strings.Contains(m.Up+m.Down, "${") {
			t.Errorf("migration %d has unexpanded variables:\n%s", m.Version, m.Up)
		}
	}

	if !strings.Contains(migrations[0].Up, "CREATE TABLE IF NOT EXISTS voltage_readings") {
		t.Errorf("unexpected table migration:\n%s", migrations[0].Up)
	}
	if !strings.Contains(migrations[1].Up, "create_hypertable('voltage_readings', 'time'") {
		t.Errorf("unexpected hypertable migration:\n%s", migrations[1].Up)
	}
}
