package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// VoltageReading is one row fetched from a readings table
type VoltageReading struct {
	Time  time.Time `gorm:"column:time"`
	Value float64   `gorm:"column:value"`
}

// ReadingQuery describes where readings live. Table and column names are
// interpolated into SQL and must be validated identifiers.
type ReadingQuery struct {
	Table         string
	TimeColumn    string
	ValueColumn   string
	StationColumn string
	Station       string
}

// SelectClause aliases the configured columns onto VoltageReading's columns
func (q ReadingQuery) SelectClause() string {
	return fmt.Sprintf("%s AS time, %s AS value", q.TimeColumn, q.ValueColumn)
}

// OrderClause sorts readings oldest first. Readings sharing a timestamp keep
// their physical row order, which is insertion order for an append-only table.
func (q ReadingQuery) OrderClause() string {
	return q.TimeColumn + " ASC, ctid ASC"
}

// Fetch retrieves every matching reading ordered by time
func (q ReadingQuery) Fetch(ctx context.Context, db *gorm.DB) ([]VoltageReading, error) {
	var readings []VoltageReading

	tx := db.WithContext(ctx).Table(q.Table).Select(q.SelectClause())
	if q.StationColumn != "" && q.Station != "" {
		tx = tx.Where(fmt.Sprintf("%s = ?", q.StationColumn), q.Station)
	}
	if err := tx.Order(q.OrderClause()).Scan(&readings).Error; err != nil {
		return nil, fmt.Errorf("error querying %s for voltage readings: %w", q.Table, err)
	}

	return readings, nil
}
