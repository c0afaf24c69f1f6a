package voltage

import (
	"time"
)

var testEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// seriesOf builds a series with one sample per minute
func seriesOf(values ...float64) Series {
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{Timestamp: testEpoch.Add(time.Duration(i) * time.Minute), Value: v}
	}
	return NewSeries(samples)
}
