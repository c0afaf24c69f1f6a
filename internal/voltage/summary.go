package voltage

// Summary holds the headline counters shown at the end of an analysis
type Summary struct {
	TotalRecords       int `json:"total_records"`
	Peaks              int `json:"peaks"`
	AccelerationEvents int `json:"acceleration_events"`
}

// Summarize counts samples, peaks and acceleration events
func Summarize(s Series, extrema []ExtremumEvent, events []AccelerationEvent) Summary {
	return Summary{
		TotalRecords:       s.Len(),
		Peaks:              len(Peaks(extrema)),
		AccelerationEvents: len(events),
	}
}
