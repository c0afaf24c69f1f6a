package voltage

// ThresholdResult holds the samples that fell below a cutoff
type ThresholdResult struct {
	Threshold float64
	Samples   []Sample
	Count     int
}

// BelowThreshold selects every sample with value strictly below threshold,
// preserving series order
func BelowThreshold(s Series, threshold float64) ThresholdResult {
	result := ThresholdResult{Threshold: threshold}
	for _, sample := range s.samples {
		if sample.Value < threshold {
			result.Samples = append(result.Samples, sample)
		}
	}
	result.Count = len(result.Samples)
	return result
}
