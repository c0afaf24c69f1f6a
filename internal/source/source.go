// Package source loads voltage series from the configured backend.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrissnell/voltview/internal/database"
	"github.com/chrissnell/voltview/internal/voltage"
	"github.com/chrissnell/voltview/pkg/config"
	"gorm.io/gorm"
)

// Source produces a sorted voltage series
type Source interface {
	Load(ctx context.Context) (voltage.Series, error)
	Describe() string
}

// New builds the source selected by cfg
func New(cfg config.SourceData) (Source, error) {
	switch cfg.Type {
	case config.SourceCSV:
		if cfg.CSV == nil || cfg.CSV.Path == "" {
			return nil, errors.New("csv source requires a path")
		}
		return NewCSVSource(cfg.CSV.Path), nil
	case config.SourceTimescaleDB:
		if cfg.TimescaleDB == nil {
			return nil, errors.New("timescaledb source requires a timescaledb section")
		}
		return NewTimescaleDBSource(*cfg.TimescaleDB)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}

// CSVSource reads a Timestamp,Values CSV file
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Load parses the file. An empty file returns an empty series with voltage.ErrEmptyInput.
func (c *CSVSource) Load(ctx context.Context) (voltage.Series, error) {
	if err := ctx.Err(); err != nil {
		return voltage.Series{}, err
	}
	return voltage.Load(c.path)
}

func (c *CSVSource) Describe() string {
	return "csv:" + c.path
}

// TimescaleDBSource reads readings from a TimescaleDB table
type TimescaleDBSource struct {
	query database.ReadingQuery
	db    *gorm.DB
}

// NewTimescaleDBSource validates the table layout and connects to the database
func NewTimescaleDBSource(cfg config.TimescaleDBData) (*TimescaleDBSource, error) {
	query, err := ReadingQueryFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.CreateConnection(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("timescaledb source could not connect to database: %w", err)
	}

	return &TimescaleDBSource{query: query, db: db}, nil
}

// ReadingQueryFor validates the configured table layout and builds its query
func ReadingQueryFor(cfg config.TimescaleDBData) (database.ReadingQuery, error) {
	q := database.ReadingQuery{
		Table:         cfg.Table,
		TimeColumn:    cfg.TimeColumn,
		ValueColumn:   cfg.ValueColumn,
		StationColumn: cfg.StationColumn,
		Station:       cfg.Station,
	}
	for _, ident := range []string{q.Table, q.TimeColumn, q.ValueColumn} {
		if !config.ValidIdentifier(ident) {
			return database.ReadingQuery{}, fmt.Errorf("invalid SQL identifier %q", ident)
		}
	}
	if q.StationColumn != "" && !config.ValidIdentifier(q.StationColumn) {
		return database.ReadingQuery{}, fmt.Errorf("invalid SQL identifier %q", q.StationColumn)
	}
	return q, nil
}

// Load fetches every reading. Timestamps are normalized to UTC wall time.
func (t *TimescaleDBSource) Load(ctx context.Context) (voltage.Series, error) {
	readings, err := t.query.Fetch(ctx, t.db)
	if err != nil {
		return voltage.Series{}, err
	}
	return seriesFromReadings(readings)
}

func (t *TimescaleDBSource) Describe() string {
	return "timescaledb:" + t.query.Table
}

func seriesFromReadings(readings []database.VoltageReading) (voltage.Series, error) {
	samples := make([]voltage.Sample, len(readings))
	for i, r := range readings {
		samples[i] = voltage.Sample{Timestamp: r.Time.UTC(), Value: r.Value}
	}

	series := voltage.NewSeries(samples)
	if series.Len() == 0 {
		return series, voltage.ErrEmptyInput
	}
	return series, nil
}
