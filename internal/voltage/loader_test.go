package voltage

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "day first with seconds",
			raw:      "13/01/2024 10:15:30",
			expected: time.Date(2024, time.January, 13, 10, 15, 30, 0, time.UTC),
		},
		{
			name:     "day first is not month first",
			raw:      "02/03/2024 08:00",
			expected: time.Date(2024, time.March, 2, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "single digit day, month and hour",
			raw:      "2/3/2024 8:05",
			expected: time.Date(2024, time.March, 2, 8, 5, 0, 0, time.UTC),
		},
		{
			name:     "dashes",
			raw:      "25-12-2023 23:59:59",
			expected: time.Date(2023, time.December, 25, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "dots date only",
			raw:      "01.06.2022",
			expected: time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "iso stays year-month-day",
			raw:      "2024-01-02 03:04:05",
			expected: time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			name:     "fractional seconds",
			raw:      "13/01/2024 10:15:30.250",
			expected: time.Date(2024, time.January, 13, 10, 15, 30, 250000000, time.UTC),
		},
		{
			name:     "two digit year",
			raw:      "01/02/24 10:00",
			expected: time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "two digit year with dots and seconds",
			raw:      "15.08.99 06:30:15",
			expected: time.Date(1999, time.August, 15, 6, 30, 15, 0, time.UTC),
		},
		{
			name:     "twelve hour clock afternoon",
			raw:      "1/2/2024 1:05:00 PM",
			expected: time.Date(2024, time.February, 1, 13, 5, 0, 0, time.UTC),
		},
		{
			name:     "twelve hour clock midnight without seconds",
			raw:      "31-12-2023 12:30 AM",
			expected: time.Date(2023, time.December, 31, 0, 30, 0, 0, time.UTC),
		},
		{
			name:     "twelve hour clock two digit year",
			raw:      "05/06/24 11:59:59 AM",
			expected: time.Date(2024, time.June, 5, 11, 59, 59, 0, time.UTC),
		},
		{
			name:     "year first with slashes",
			raw:      "2024/01/02 10:00:00",
			expected: time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			name:     "year first with slashes date only",
			raw:      "2024/01/02",
			expected: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "hour out of range for twelve hour clock",
			raw:     "1/2/2024 13:05 PM",
			wantErr: true,
		},
		{
			name:    "garbage",
			raw:     "yesterday",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "  ",
			wantErr: true,
		},
		{
			name:    "impossible day",
			raw:     "32/01/2024 10:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestReadSortsStably(t *testing.T) {
	input := `Timestamp,Values
03/01/2024 00:00,3
01/01/2024 00:00,1
02/01/2024 00:00,2a
`
	if _, err := Read(strings.NewReader(input)); err == nil {
		t.Fatal("expected a parse error for 2a")
	}

	input = `Timestamp,Values
03/01/2024 00:00,3
01/01/2024 00:00,1
02/01/2024 00:00,20
02/01/2024 00:00,21
02/01/2024 00:00,22
`
	s, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{1, 20, 21, 22, 3}
	got := s.Values()
	if len(got) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("index %d: expected %g, got %g", i, expected[i], got[i])
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLine   int
		wantColumn string
	}{
		{
			name:       "bad timestamp",
			input:      "Timestamp,Values\n01/01/2024 00:00,1\nnot a date,2\n",
			wantLine:   3,
			wantColumn: TimestampColumn,
		},
		{
			name:       "bad value",
			input:      "Timestamp,Values\n01/01/2024 00:00,abc\n",
			wantLine:   2,
			wantColumn: ValueColumn,
		},
		{
			name:       "blank value",
			input:      "Timestamp,Values\n01/01/2024 00:00,\n",
			wantLine:   2,
			wantColumn: ValueColumn,
		},
		{
			name:       "non-finite value",
			input:      "Timestamp,Values\n01/01/2024 00:00,NaN\n",
			wantLine:   2,
			wantColumn: ValueColumn,
		},
		{
			name:       "missing values column",
			input:      "Timestamp,Volts\n01/01/2024 00:00,1\n",
			wantLine:   1,
			wantColumn: ValueColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, perr.Line)
			}
			if perr.Column != tt.wantColumn {
				t.Errorf("expected column %q, got %q", tt.wantColumn, perr.Column)
			}
		})
	}
}

func TestReadEmpty(t *testing.T) {
	for _, input := range []string{"", "Timestamp,Values\n"} {
		s, err := Read(strings.NewReader(input))
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("input %q: expected ErrEmptyInput, got %v", input, err)
		}
		if s.Len() != 0 {
			t.Errorf("input %q: expected empty series, got %d samples", input, s.Len())
		}
	}
}

func TestReadExtraColumns(t *testing.T) {
	input := "Id,Values,Timestamp\n7,12.5,05/05/2024 12:00\n"
	s, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 1 || s.At(0).Value != 12.5 {
		t.Fatalf("expected single sample 12.5, got %+v", s.Samples())
	}
}

func TestReadSpreadsheetExport(t *testing.T) {
	input := "Timestamp,Values\n" +
		"1/2/2024 1:05:00 PM,12.1\n" +
		"01/02/24 10:00,11.9\n" +
		"2024/02/01 14:00:00,12.4\n"

	s, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []float64{11.9, 12.1, 12.4}
	if s.Len() != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), s.Len())
	}
	for i, v := range expected {
		if s.At(i).Value != v {
			t.Errorf("index %d: expected %g, got %g", i, v, s.At(i).Value)
		}
	}
}

func TestLoaderIdempotent(t *testing.T) {
	base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	samples := []Sample{
		{Timestamp: base.Add(2 * time.Minute), Value: 3},
		{Timestamp: base, Value: 1},
		{Timestamp: base.Add(time.Minute), Value: 2},
		{Timestamp: base.Add(time.Minute), Value: 2.5},
		{Timestamp: base.Add(1500 * time.Millisecond), Value: 4},
	}

	once := NewSeries(samples)
	twice := NewSeries(once.Samples())
	assertSameSeries(t, once, twice)

	var buf bytes.Buffer
	if err := Write(&buf, once); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	reloaded, err := Read(&buf)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	assertSameSeries(t, once, reloaded)
}

func assertSameSeries(t *testing.T, a, b Series) {
	t.Helper()
	if a.Len() != b.Len() {
		t.Fatalf("length mismatch: %d vs %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if !a.At(i).Timestamp.Equal(b.At(i).Timestamp) || a.At(i).Value != b.At(i).Value {
			t.Errorf("index %d: %+v vs %+v", i, a.At(i), b.At(i))
		}
	}
}
