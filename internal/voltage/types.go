// Package voltage implements the voltage analysis pipeline: loading, smoothing,
// extremum detection, threshold filtering and derivative-based event detection.
package voltage

import (
	"fmt"
	"time"
)

// Sample is a single voltage reading
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Series is a time-ordered sequence of samples. Index positions are significant:
// the extremum detector measures separation in indices, not in time.
type Series struct {
	samples []Sample
}

// Len returns the number of samples in the series
func (s Series) Len() int {
	return len(s.samples)
}

// At returns the sample at index i
func (s Series) At(i int) Sample {
	return s.samples[i]
}

// Samples returns a copy of the underlying samples
func (s Series) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Values returns the sample values in index order
func (s Series) Values() []float64 {
	values := make([]float64, len(s.samples))
	for i, sample := range s.samples {
		values[i] = sample.Value
	}
	return values
}

// Timestamps returns the sample timestamps in index order
func (s Series) Timestamps() []time.Time {
	ts := make([]time.Time, len(s.samples))
	for i, sample := range s.samples {
		ts[i] = sample.Timestamp
	}
	return ts
}

// Head returns at most n leading samples
func (s Series) Head(n int) []Sample {
	if n > len(s.samples) {
		n = len(s.samples)
	}
	if n < 0 {
		n = 0
	}
	return append([]Sample(nil), s.samples[:n]...)
}

// Optional is a float that may be absent. The zero value is missing.
type Optional struct {
	Float64 float64
	Valid   bool
}

// Some returns a present Optional holding v
func Some(v float64) Optional {
	return Optional{Float64: v, Valid: true}
}

// Missing returns an absent Optional
func Missing() Optional {
	return Optional{}
}

// Ptr returns a pointer to the value, or nil when it is missing
func (o Optional) Ptr() *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Float64
	return &v
}

func (o Optional) String() string {
	if !o.Valid {
		return ""
	}
	return fmt.Sprintf("%g", o.Float64)
}

// ExtremumKind distinguishes peaks from lows
type ExtremumKind int

const (
	Peak ExtremumKind = iota
	Low
)

func (k ExtremumKind) String() string {
	switch k {
	case Peak:
		return "Peak"
	case Low:
		return "Low"
	default:
		return fmt.Sprintf("ExtremumKind(%d)", int(k))
	}
}

// ExtremumEvent is a detected local maximum or minimum
type ExtremumEvent struct {
	Index     int
	Timestamp time.Time
	Value     float64
	Kind      ExtremumKind
}

// DerivativeRecord holds the finite differences at one index
type DerivativeRecord struct {
	Index        int
	Timestamp    time.Time
	Value        float64
	Slope        Optional
	Acceleration Optional
}

// AccelerationEvent is an index where the decline is steep or worsening quickly
type AccelerationEvent struct {
	Index        int
	Timestamp    time.Time
	Value        float64
	Slope        float64
	Acceleration float64
}
