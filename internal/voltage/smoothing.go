package voltage

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RollingMean computes the trailing arithmetic mean of the last window values
// ending at each index. The first window-1 positions have no full window and
// are returned as missing. A window longer than the series yields all missing.
func RollingMean(s Series, window int) ([]Optional, error) {
	if window < 1 {
		return nil, &ConfigError{Param: "window", Value: float64(window), Min: 1, Max: math.Inf(1)}
	}

	values := s.Values()
	smoothed := make([]Optional, len(values))
	for i := window - 1; i < len(values); i++ {
		smoothed[i] = Some(stat.Mean(values[i-window+1:i+1], nil))
	}

	return smoothed, nil
}
