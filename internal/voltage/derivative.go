package voltage

import "math"

// Derivatives computes the first difference (slope) and second difference
// (acceleration) at every index. The series must already be time-ordered.
// Slope is missing at index 0 and acceleration at indices 0 and 1.
func Derivatives(s Series) []DerivativeRecord {
	records := make([]DerivativeRecord, s.Len())
	for i, sample := range s.samples {
		records[i] = DerivativeRecord{
			Index:     i,
			Timestamp: sample.Timestamp,
			Value:     sample.Value,
		}
		if i >= 1 {
			records[i].Slope = Some(sample.Value - s.samples[i-1].Value)
		}
		if i >= 2 {
			records[i].Acceleration = Some(records[i].Slope.Float64 - records[i-1].Slope.Float64)
		}
	}
	return records
}

// AccelerationEvents flags indices where slope < -slopeThreshold or
// acceleration < -accelerationThreshold. Indices 0 and 1 lack a full set of
// derivatives and are never flagged.
func AccelerationEvents(records []DerivativeRecord, slopeThreshold, accelerationThreshold float64) ([]AccelerationEvent, error) {
	if slopeThreshold < 0 {
		return nil, &ConfigError{Param: "slope_threshold", Value: slopeThreshold, Min: 0, Max: math.Inf(1)}
	}
	if accelerationThreshold < 0 {
		return nil, &ConfigError{Param: "acceleration_threshold", Value: accelerationThreshold, Min: 0, Max: math.Inf(1)}
	}

	var events []AccelerationEvent
	for _, r := range records {
		if r.Index < 2 || !r.Slope.Valid || !r.Acceleration.Valid {
			continue
		}
		if r.Slope.Float64 < -slopeThreshold || r.Acceleration.Float64 < -accelerationThreshold {
			events = append(events, AccelerationEvent{
				Index:        r.Index,
				Timestamp:    r.Timestamp,
				Value:        r.Value,
				Slope:        r.Slope.Float64,
				Acceleration: r.Acceleration.Float64,
			})
		}
	}
	return events, nil
}
