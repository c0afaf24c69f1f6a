package voltage

import "fmt"

// Bounds is the inclusive range a dashboard control accepts
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b Bounds) check(param string, v float64) error {
	if v < b.Min || v > b.Max {
		return &ConfigError{Param: param, Value: v, Min: b.Min, Max: b.Max}
	}
	return nil
}

var (
	WindowBounds                  = Bounds{Min: 5, Max: 200}
	ThresholdBounds               = Bounds{Min: 10, Max: 50}
	SlopeSensitivityBounds        = Bounds{Min: 1, Max: 10}
	AccelerationSensitivityBounds = Bounds{Min: 0, Max: 10}
	PeakDistanceBounds            = Bounds{Min: 1, Max: 100}
)

// Params defines the user-adjustable inputs of one analysis run
type Params struct {
	// Window is the rolling average length in samples
	Window int `json:"window"`

	// Threshold is the voltage below which samples are reported
	Threshold float64 `json:"threshold"`

	// SlopeSensitivity flags a single-step drop steeper than -SlopeSensitivity
	SlopeSensitivity float64 `json:"slope_sensitivity"`

	// AccelerationSensitivity flags a second difference below -AccelerationSensitivity
	AccelerationSensitivity float64 `json:"acceleration_sensitivity"`

	// PeakDistance is the minimum index gap between two peaks (or two lows)
	PeakDistance int `json:"peak_distance"`
}

// DefaultParams returns the initial control positions of the dashboard
func DefaultParams() Params {
	return Params{
		Window:                  50,
		Threshold:               20,
		SlopeSensitivity:        2,
		AccelerationSensitivity: 1,
		PeakDistance:            10,
	}
}

// Validate checks every parameter against the dashboard control bounds
func (p Params) Validate() error {
	if err := WindowBounds.check("window", float64(p.Window)); err != nil {
		return err
	}
	if err := ThresholdBounds.check("threshold", p.Threshold); err != nil {
		return err
	}
	if err := SlopeSensitivityBounds.check("slope_sensitivity", p.SlopeSensitivity); err != nil {
		return err
	}
	if err := AccelerationSensitivityBounds.check("acceleration_sensitivity", p.AccelerationSensitivity); err != nil {
		return err
	}
	if err := PeakDistanceBounds.check("peak_distance", float64(p.PeakDistance)); err != nil {
		return err
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("window=%d threshold=%g slope=%g acceleration=%g distance=%d",
		p.Window, p.Threshold, p.SlopeSensitivity, p.AccelerationSensitivity, p.PeakDistance)
}
