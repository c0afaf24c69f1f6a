package dashboard

import (
	"github.com/chrissnell/voltview/internal/render"
	"github.com/chrissnell/voltview/internal/voltage"
)

// transformAnalysis converts a pipeline result into its wire representation
func transformAnalysis(a *voltage.Analysis, source string) *AnalysisResponse {
	resp := &AnalysisResponse{
		RunID:       a.RunID.String(),
		Source:      source,
		Params:      a.Params,
		Stats:       a.Stats,
		Sample:      a.Series.Head(render.HeadRows),
		Smoothed:    make([]SmoothedPoint, 0, len(a.Smoothed)),
		Extrema:     make([]ExtremumRow, 0, len(a.Extrema)),
		Derivatives: make([]DerivativeRow, 0, len(a.Derivatives)),
		Events:      make([]EventRow, 0, len(a.Events)),
		Threshold: ThresholdResponse{
			Threshold: a.Threshold.Threshold,
			Count:     a.Threshold.Count,
			Samples:   a.Threshold.Samples,
		},
		Summary: a.Summary,
	}
	if resp.Sample == nil {
		resp.Sample = []voltage.Sample{}
	}
	if resp.Threshold.Samples == nil {
		resp.Threshold.Samples = []voltage.Sample{}
	}

	for i, o := range a.Smoothed {
		sample := a.Series.At(i)
		resp.Smoothed = append(resp.Smoothed, SmoothedPoint{
			Timestamp: sample.Timestamp,
			Value:     sample.Value,
			Rolling:   o.Ptr(),
		})
	}

	for _, e := range a.Extrema {
		resp.Extrema = append(resp.Extrema, ExtremumRow{
			Index:     e.Index,
			Timestamp: e.Timestamp,
			Value:     e.Value,
			Type:      e.Kind.String(),
		})
	}

	for _, r := range a.Derivatives {
		resp.Derivatives = append(resp.Derivatives, DerivativeRow{
			Index:        r.Index,
			Timestamp:    r.Timestamp,
			Value:        r.Value,
			Slope:        r.Slope.Ptr(),
			Acceleration: r.Acceleration.Ptr(),
		})
	}

	for _, e := range a.Events {
		resp.Events = append(resp.Events, EventRow{
			Index:        e.Index,
			Timestamp:    e.Timestamp,
			Value:        e.Value,
			Slope:        e.Slope,
			Acceleration: e.Acceleration,
		})
	}

	return resp
}

func paramBounds() map[string]voltage.Bounds {
	return map[string]voltage.Bounds{
		"window":       voltage.WindowBounds,
		"threshold":    voltage.ThresholdBounds,
		"slope":        voltage.SlopeSensitivityBounds,
		"acceleration": voltage.AccelerationSensitivityBounds,
		"distance":     voltage.PeakDistanceBounds,
	}
}
