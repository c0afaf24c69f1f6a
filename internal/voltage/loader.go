package voltage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// TimestampColumn and ValueColumn are the required CSV header names
	TimestampColumn = "Timestamp"
	ValueColumn     = "Values"

	// TimestampLayout is the day-first layout used when writing timestamps back out
	TimestampLayout = "02/01/2006 15:04:05.999999999"
)

// timestampLayouts are tried in order. Go's parser accepts single-digit days,
// months and hours for these verbs, plus fractional seconds after the seconds field.
// Two-digit years map 69-99 to the 1900s and 00-68 to the 2000s.
var timestampLayouts = func() []string {
	var layouts []string
	for _, sep := range []string{"/", "-", "."} {
		for _, year := range []string{"2006", "06"} {
			date := "2" + sep + "1" + sep + year
			layouts = append(layouts,
				date+" 15:04:05",
				date+" 15:04",
				date+" 3:04:05 PM",
				date+" 3:04 PM",
				date,
			)
		}
	}
	return append(layouts,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		"2006/01/02 15:04:05",
		"2006/01/02 15:04",
		"2006/01/02",
	)
}()

// ParseTimestamp parses a timezone-naive timestamp using the day-first convention.
// The result is in UTC.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized day-first timestamp format")
}

// ParseValue parses a finite voltage reading
func ParseValue(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("value is not a finite number")
	}
	return v, nil
}

// Load reads and sorts the CSV dataset at path
func Load(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses a CSV stream with a Timestamp,Values header. Every row must parse;
// the first bad row aborts the load with a *ParseError.
func Read(r io.Reader) (Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Series{}, ErrEmptyInput
	}
	if err != nil {
		return Series{}, &ParseError{Line: 1, Err: err}
	}

	tsIdx, valIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case TimestampColumn:
			tsIdx = i
		case ValueColumn:
			valIdx = i
		}
	}
	if tsIdx < 0 {
		return Series{}, &ParseError{Line: 1, Column: TimestampColumn, Err: errors.New("missing header column")}
	}
	if valIdx < 0 {
		return Series{}, &ParseError{Line: 1, Column: ValueColumn, Err: errors.New("missing header column")}
	}

	var samples []Sample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return Series{}, &ParseError{Line: csvErr.Line, Err: csvErr.Err}
			}
			return Series{}, fmt.Errorf("failed to read dataset: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if len(record) <= tsIdx || len(record) <= valIdx {
			return Series{}, &ParseError{Line: line, Err: fmt.Errorf("expected at least %d fields, got %d", max(tsIdx, valIdx)+1, len(record))}
		}

		ts, err := ParseTimestamp(record[tsIdx])
		if err != nil {
			return Series{}, &ParseError{Line: line, Column: TimestampColumn, Value: record[tsIdx], Err: err}
		}
		v, err := ParseValue(record[valIdx])
		if err != nil {
			return Series{}, &ParseError{Line: line, Column: ValueColumn, Value: record[valIdx], Err: err}
		}

		samples = append(samples, Sample{Timestamp: ts, Value: v})
	}

	series := NewSeries(samples)
	if series.Len() == 0 {
		return series, ErrEmptyInput
	}
	return series, nil
}

// NewSeries stable-sorts a copy of samples by timestamp. Samples sharing a
// timestamp keep their original relative order.
func NewSeries(samples []Sample) Series {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return Series{samples: sorted}
}

// Write emits the series as a Timestamp,Values CSV using the day-first layout
func Write(w io.Writer, s Series) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{TimestampColumn, ValueColumn}); err != nil {
		return err
	}
	for _, sample := range s.samples {
		record := []string{
			sample.Timestamp.Format(TimestampLayout),
			strconv.FormatFloat(sample.Value, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
