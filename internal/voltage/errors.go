package voltage

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned alongside an empty series when the input has no data rows.
// Callers may continue with the empty series; every stage handles N=0.
var ErrEmptyInput = errors.New("input contains no data rows")

// ParseError reports an input row that could not be parsed
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Value == "" && e.Column != "" && e.Err != nil {
		return fmt.Sprintf("line %d: column %q: %v", e.Line, e.Column, e.Err)
	}
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: cannot parse %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigError reports an analysis parameter outside its allowed range
type ConfigError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%g is out of range [%g, %g]", e.Param, e.Value, e.Min, e.Max)
}
