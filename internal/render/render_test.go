package render

import (
	"bytes"
	"encoding/csv"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/voltview/internal/voltage"
)

var testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func seriesOf(values ...float64) voltage.Series {
	samples := make([]voltage.Sample, len(values))
	for i, v := range values {
		samples[i] = voltage.Sample{Timestamp: testEpoch.Add(time.Duration(i) * time.Minute), Value: v}
	}
	return voltage.NewSeries(samples)
}

func analyze(t *testing.T, s voltage.Series, p voltage.Params) *voltage.Analysis {
	t.Helper()
	a, err := voltage.Analyze(s, p)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return a
}

func smallParams() voltage.Params {
	p := voltage.DefaultParams()
	p.Window = 5
	p.PeakDistance = 1
	return p
}

func sawtooth() voltage.Series {
	return seriesOf(30, 25, 18, 26, 31, 22, 15, 28, 35, 20, 12, 27, 33, 24, 19)
}

func TestBuildTable(t *testing.T) {
	a := analyze(t, sawtooth(), smallParams())

	tests := []struct {
		name      string
		columns   int
		rows      int
		totalRows int
	}{
		{TableSample, 2, HeadRows, 15},
		{TableExtrema, 3, len(a.Extrema), len(a.Extrema)},
		{TableThreshold, 2, a.Threshold.Count, a.Threshold.Count},
		{TableDerivatives, 4, HeadRows, 15},
		{TableEvents, 4, len(a.Events), len(a.Events)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := BuildTable(a, tt.name)
			if err != nil {
				t.Fatalf("BuildTable() error = %v", err)
			}
			if len(table.Columns) != tt.columns {
				t.Errorf("columns = %v, want %d", table.Columns, tt.columns)
			}
			if len(table.Rows) != tt.rows {
				t.Errorf("rows = %d, want %d", len(table.Rows), tt.rows)
			}
			if table.TotalRows != tt.totalRows {
				t.Errorf("TotalRows = %d, want %d", table.TotalRows, tt.totalRows)
			}
			for i, row := range table.Rows {
				if len(row) != len(table.Columns) {
					t.Errorf("row %d has %d cells, want %d", i, len(row), len(table.Columns))
				}
			}
		})
	}

	if _, err := BuildTable(a, "nope"); !errors.Is(err, ErrUnknownTable) {
		t.Errorf("BuildTable(nope) error = %v, want ErrUnknownTable", err)
	}
}

func TestThresholdTableTitle(t *testing.T) {
	r := voltage.BelowThreshold(seriesOf(10, 25, 15), 20)
	table := ThresholdTable(r)
	if table.Title != "Instances where voltage < 20" {
		t.Errorf("Title = %q", table.Title)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0][0] != "2024-01-01 00:00:00" || table.Rows[0][1] != "10" {
		t.Errorf("first row = %v", table.Rows[0])
	}
}

func TestDerivativeTableMissingCells(t *testing.T) {
	table := DerivativeTable(voltage.Derivatives(seriesOf(10, 12, 11)))
	if table.Rows[0][2] != "" || table.Rows[0][3] != "" {
		t.Errorf("row 0 = %v, want empty slope and acceleration", table.Rows[0])
	}
	if table.Rows[1][2] != "2" || table.Rows[1][3] != "" {
		t.Errorf("row 1 = %v, want slope 2 and empty acceleration", table.Rows[1])
	}
	if table.Rows[2][2] != "-1" || table.Rows[2][3] != "-3" {
		t.Errorf("row 2 = %v, want slope -1 and acceleration -3", table.Rows[2])
	}
}

func TestWriteText(t *testing.T) {
	table := DerivativeTable(voltage.Derivatives(seriesOf(10, 12, 11, 9, 8, 7, 6)))

	var buf bytes.Buffer
	if err := WriteText(&buf, table, 3); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "Computed slope and acceleration:\n") {
		t.Errorf("missing title line:\n%s", out)
	}
	if !strings.Contains(out, "2024-01-01 00:00:00  10      -      -") {
		t.Errorf("missing cells not rendered as '-':\n%s", out)
	}
	if !strings.HasSuffix(out, "... 4 more rows\n") {
		t.Errorf("missing footer:\n%s", out)
	}
}

func TestWriteCSV(t *testing.T) {
	table := ExtremaTable([]voltage.ExtremumEvent{
		{Index: 1, Timestamp: testEpoch, Value: 12.5, Kind: voltage.Peak},
	})

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	want := [][]string{
		{"Timestamp", "Values", "Type"},
		{"2024-01-01 00:00:00", "12.5", "Peak"},
	}
	if len(records) != len(want) {
		t.Fatalf("got %d records, want %d", len(records), len(want))
	}
	for i := range want {
		if strings.Join(records[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("record %d = %v, want %v", i, records[i], want[i])
		}
	}
}

func TestRenderChart(t *testing.T) {
	a := analyze(t, sawtooth(), smallParams())

	for _, name := range ChartNames {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderChart(&buf, a, name); err != nil {
				t.Fatalf("RenderChart() error = %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != chartWidth || b.Dy() != chartHeight {
				t.Errorf("image size = %dx%d, want %dx%d", b.Dx(), b.Dy(), chartWidth, chartHeight)
			}
		})
	}

	if err := RenderChart(&bytes.Buffer{}, a, "nope"); !errors.Is(err, ErrUnknownChart) {
		t.Errorf("RenderChart(nope) error = %v, want ErrUnknownChart", err)
	}
}

func TestRenderChartEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		series  voltage.Series
		wantErr error
	}{
		{"single sample", seriesOf(20), ErrNotEnoughData},
		{"flat series", seriesOf(20, 20, 20, 20), nil},
		{"window longer than series", seriesOf(20, 21, 19), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyze(t, tt.series, voltage.DefaultParams())
			for _, name := range ChartNames {
				err := RenderChart(&bytes.Buffer{}, a, name)
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("RenderChart(%s) error = %v, want %v", name, err, tt.wantErr)
				}
			}
		})
	}
}
