package voltage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes the raw voltage distribution of a series
type Stats struct {
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"std_dev"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Describe computes Stats for the series. An empty series yields the zero value.
func Describe(s Series) Stats {
	if s.Len() == 0 {
		return Stats{}
	}
	values := s.Values()
	st := Stats{
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
		Start: s.samples[0].Timestamp,
		End:   s.samples[len(s.samples)-1].Timestamp,
	}
	if len(values) > 1 {
		st.StdDev = stat.StdDev(values, nil)
	}
	return st
}

// Analysis is the complete output of one pipeline run
type Analysis struct {
	RunID       uuid.UUID
	Params      Params
	Series      Series
	Stats       Stats
	Smoothed    []Optional
	Extrema     []ExtremumEvent
	Threshold   ThresholdResult
	Derivatives []DerivativeRecord
	Events      []AccelerationEvent
	Summary     Summary
}

// Analyze runs every stage over the series with the given parameters. Stages
// share the read-only series and never see each other's output except the
// summary, which only counts.
func Analyze(s Series, p Params) (*Analysis, error) {
	smoothed, err := RollingMean(s, p.Window)
	if err != nil {
		return nil, fmt.Errorf("smoothing failed: %w", err)
	}

	extrema, err := DetectExtrema(s, p.PeakDistance)
	if err != nil {
		return nil, fmt.Errorf("extremum detection failed: %w", err)
	}

	derivatives := Derivatives(s)
	events, err := AccelerationEvents(derivatives, p.SlopeSensitivity, p.AccelerationSensitivity)
	if err != nil {
		return nil, fmt.Errorf("acceleration event detection failed: %w", err)
	}

	return &Analysis{
		RunID:       uuid.New(),
		Params:      p,
		Series:      s,
		Stats:       Describe(s),
		Smoothed:    smoothed,
		Extrema:     extrema,
		Threshold:   BelowThreshold(s, p.Threshold),
		Derivatives: derivatives,
		Events:      events,
		Summary:     Summarize(s, extrema, events),
	}, nil
}
