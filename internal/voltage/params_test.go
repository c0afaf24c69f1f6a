package voltage

import (
	"errors"
	"testing"
)

func TestDefaultParams(t *testing.T) {
	params := DefaultParams()

	if err := params.Validate(); err != nil {
		t.Fatalf("default params should validate: %v", err)
	}

	if params.Window != 50 {
		t.Errorf("expected default Window=50, got %d", params.Window)
	}
	if params.Threshold != 20 {
		t.Errorf("expected default Threshold=20, got %.2f", params.Threshold)
	}
	if params.SlopeSensitivity != 2 {
		t.Errorf("expected default SlopeSensitivity=2, got %.2f", params.SlopeSensitivity)
	}
	if params.AccelerationSensitivity != 1 {
		t.Errorf("expected default AccelerationSensitivity=1, got %.2f", params.AccelerationSensitivity)
	}
	if params.PeakDistance != 10 {
		t.Errorf("expected default PeakDistance=10, got %d", params.PeakDistance)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Params)
		wantParam string
	}{
		{"window too small", func(p *Params) { p.Window = 4 }, "window"},
		{"window too large", func(p *Params) { p.Window = 201 }, "window"},
		{"threshold too small", func(p *Params) { p.Threshold = 9.5 }, "threshold"},
		{"threshold too large", func(p *Params) { p.Threshold = 51 }, "threshold"},
		{"slope below one", func(p *Params) { p.SlopeSensitivity = 0 }, "slope_sensitivity"},
		{"acceleration negative", func(p *Params) { p.AccelerationSensitivity = -0.1 }, "acceleration_sensitivity"},
		{"distance zero", func(p *Params) { p.PeakDistance = 0 }, "peak_distance"},
		{"upper bounds are inclusive", func(p *Params) {
			p.Window, p.Threshold, p.SlopeSensitivity, p.AccelerationSensitivity, p.PeakDistance = 200, 50, 10, 10, 100
		}, ""},
		{"lower bounds are inclusive", func(p *Params) {
			p.Window, p.Threshold, p.SlopeSensitivity, p.AccelerationSensitivity, p.PeakDistance = 5, 10, 1, 0, 1
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()

			if tt.wantParam == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cerr.Param != tt.wantParam {
				t.Errorf("expected param %s, got %s", tt.wantParam, cerr.Param)
			}
		})
	}
}
