// Package render turns analysis results into tables and charts.
package render

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/chrissnell/voltview/internal/voltage"
)

// ErrUnknownTable is returned for a table name that BuildTable does not know
var ErrUnknownTable = errors.New("unknown table")

// HeadRows is the number of rows shown by the sample and derivative previews
const HeadRows = 5

// Table names
const (
	TableSample      = "sample"
	TableExtrema     = "extrema"
	TableThreshold   = "threshold"
	TableDerivatives = "derivatives"
	TableEvents      = "events"
)

// TableNames lists every table in dashboard order
var TableNames = []string{TableSample, TableExtrema, TableThreshold, TableDerivatives, TableEvents}

// Table is a rectangular, display-ready grid
type Table struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	// TotalRows counts the rows before any display cap
	TotalRows int `json:"total_rows"`
}

// Limit returns a copy capped at n rows. n <= 0 means no cap.
func (t Table) Limit(n int) Table {
	if n > 0 && len(t.Rows) > n {
		t.Rows = t.Rows[:n]
	}
	return t
}

func formatTimestamp(ts time.Time) string {
	return ts.Format("2006-01-02 15:04:05")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(o voltage.Optional) string {
	if !o.Valid {
		return ""
	}
	return formatFloat(o.Float64)
}

// BuildTable renders one of the named tables from an analysis
func BuildTable(a *voltage.Analysis, name string) (Table, error) {
	switch name {
	case TableSample:
		return SampleTable(a.Series), nil
	case TableExtrema:
		return ExtremaTable(a.Extrema), nil
	case TableThreshold:
		return ThresholdTable(a.Threshold), nil
	case TableDerivatives:
		return DerivativeTable(a.Derivatives), nil
	case TableEvents:
		return EventsTable(a.Events), nil
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
}

// SampleTable previews the first rows of the loaded dataset
func SampleTable(s voltage.Series) Table {
	t := Table{
		Name:      TableSample,
		Title:     "Sample of dataset",
		Columns:   []string{"Timestamp", "Values"},
		TotalRows: s.Len(),
	}
	for _, sample := range s.Head(HeadRows) {
		t.Rows = append(t.Rows, []string{formatTimestamp(sample.Timestamp), formatFloat(sample.Value)})
	}
	return t
}

// ExtremaTable lists detected peaks and lows in time order
func ExtremaTable(events []voltage.ExtremumEvent) Table {
	t := Table{
		Name:      TableExtrema,
		Title:     "Detected Peaks and Lows",
		Columns:   []string{"Timestamp", "Values", "Type"},
		TotalRows: len(events),
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{formatTimestamp(e.Timestamp), formatFloat(e.Value), e.Kind.String()})
	}
	return t
}

// ThresholdTable lists the samples below the voltage threshold
func ThresholdTable(r voltage.ThresholdResult) Table {
	t := Table{
		Name:      TableThreshold,
		Title:     fmt.Sprintf("Instances where voltage < %g", r.Threshold),
		Columns:   []string{"Timestamp", "Values"},
		TotalRows: r.Count,
	}
	for _, sample := range r.Samples {
		t.Rows = append(t.Rows, []string{formatTimestamp(sample.Timestamp), formatFloat(sample.Value)})
	}
	return t
}

// DerivativeTable previews the computed slope and acceleration
func DerivativeTable(records []voltage.DerivativeRecord) Table {
	t := Table{
		Name:      TableDerivatives,
		Title:     "Computed slope and acceleration",
		Columns:   []string{"Timestamp", "Values", "Slope", "Acceleration"},
		TotalRows: len(records),
	}
	n := len(records)
	if n > HeadRows {
		n = HeadRows
	}
	for _, r := range records[:n] {
		t.Rows = append(t.Rows, []string{
			formatTimestamp(r.Timestamp),
			formatFloat(r.Value),
			formatOptional(r.Slope),
			formatOptional(r.Acceleration),
		})
	}
	return t
}

// EventsTable lists the detected downward acceleration events
func EventsTable(events []voltage.AccelerationEvent) Table {
	t := Table{
		Name:      TableEvents,
		Title:     "Detected acceleration events",
		Columns:   []string{"Timestamp", "Values", "Slope", "Acceleration"},
		TotalRows: len(events),
	}
	for _, e := range events {
		t.Rows = append(t.Rows, []string{
			formatTimestamp(e.Timestamp),
			formatFloat(e.Value),
			formatFloat(e.Slope),
			formatFloat(e.Acceleration),
		})
	}
	return t
}

// WriteText writes the table as aligned columns, showing at most limit rows
// (limit <= 0 shows all). Missing cells print as "-".
func WriteText(w io.Writer, t Table, limit int) error {
	if _, err := fmt.Fprintf(w, "%s:\n", t.Title); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))

	shown := t.Limit(limit)
	for _, row := range shown.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if cell == "" {
				cell = "-"
			}
			cells[i] = cell
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if hidden := t.TotalRows - len(shown.Rows); hidden > 0 {
		_, err := fmt.Fprintf(w, "... %d more rows\n", hidden)
		return err
	}
	return nil
}

// WriteCSV writes the header and every row as CSV
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}
	return writer.Error()
}
