package dashboard

import (
	"time"

	"github.com/chrissnell/voltview/internal/voltage"
)

// AnalysisResponse is the full result of one analysis run. Missing values are
// encoded as null.
type AnalysisResponse struct {
	RunID       string            `json:"run_id"`
	Source      string            `json:"source"`
	Params      voltage.Params    `json:"params"`
	Stats       voltage.Stats     `json:"stats"`
	Sample      []voltage.Sample  `json:"sample"`
	Smoothed    []SmoothedPoint   `json:"smoothed"`
	Extrema     []ExtremumRow     `json:"extrema"`
	Threshold   ThresholdResponse `json:"threshold"`
	Derivatives []DerivativeRow   `json:"derivatives"`
	Events      []EventRow        `json:"events"`
	Summary     voltage.Summary   `json:"summary"`
}

type SmoothedPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Rolling   *float64  `json:"rolling"`
}

type ExtremumRow struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Type      string    `json:"type"`
}

type ThresholdResponse struct {
	Threshold float64          `json:"threshold"`
	Count     int              `json:"count"`
	Samples   []voltage.Sample `json:"samples"`
}

type DerivativeRow struct {
	Index        int       `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	Value        float64   `json:"value"`
	Slope        *float64  `json:"slope"`
	Acceleration *float64  `json:"acceleration"`
}

type EventRow struct {
	Index        int       `json:"index"`
	Timestamp    time.Time `json:"timestamp"`
	Value        float64   `json:"value"`
	Slope        float64   `json:"slope"`
	Acceleration float64   `json:"acceleration"`
}

// SummaryResponse carries the headline counters of a run
type SummaryResponse struct {
	RunID  string         `json:"run_id"`
	Params voltage.Params `json:"params"`
	voltage.Summary
}

// ParamsResponse describes the dashboard controls
type ParamsResponse struct {
	Defaults voltage.Params            `json:"defaults"`
	Bounds   map[string]voltage.Bounds `json:"bounds"`
	ReadOnly bool                      `json:"read_only"`
}
