package voltage

import (
	"math"
	"sort"
)

// localMaxima returns the indices of strict local maxima. A run of equal values
// counts as one maximum when the values on both sides of the run are lower; its
// index is the middle of the run, rounded down. The first and last index never
// qualify.
func localMaxima(x []float64) []int {
	var peaks []int
	n := len(x)

	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				left := i
				right := ahead - 1
				peaks = append(peaks, (left+right)/2)
				i = ahead
			}
		}
		i++
	}

	return peaks
}

// selectByDistance drops maxima that sit closer than distance to a higher one.
// Maxima are visited from highest to lowest value; equal values are visited in
// index order, so the earlier of two tied maxima survives.
func selectByDistance(peaks []int, x []float64, distance int) []int {
	if distance <= 1 || len(peaks) < 2 {
		return peaks
	}

	order := make([]int, len(peaks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return x[peaks[order[a]]] > x[peaks[order[b]]]
	})

	keep := make([]bool, len(peaks))
	for i := range keep {
		keep[i] = true
	}

	for _, i := range order {
		if !keep[i] {
			continue
		}
		for j := i - 1; j >= 0 && peaks[i]-peaks[j] < distance; j-- {
			keep[j] = false
		}
		for j := i + 1; j < len(peaks) && peaks[j]-peaks[i] < distance; j++ {
			keep[j] = false
		}
	}

	var selected []int
	for i, p := range peaks {
		if keep[i] {
			selected = append(selected, p)
		}
	}
	return selected
}

// FindPeaks returns the indices of local maxima in x, pruned so that no two
// retained maxima are closer than distance indices
func FindPeaks(x []float64, distance int) ([]int, error) {
	if distance < 1 {
		return nil, &ConfigError{Param: "distance", Value: float64(distance), Min: 1, Max: math.Inf(1)}
	}
	return selectByDistance(localMaxima(x), x, distance), nil
}

// DetectExtrema finds peaks in the values and lows in the negated values, and
// merges both into one list ordered by timestamp. A peak sorts before a low
// with the same timestamp.
func DetectExtrema(s Series, distance int) ([]ExtremumEvent, error) {
	values := s.Values()

	peaks, err := FindPeaks(values, distance)
	if err != nil {
		return nil, err
	}

	negated := make([]float64, len(values))
	for i, v := range values {
		negated[i] = -v
	}
	lows, err := FindPeaks(negated, distance)
	if err != nil {
		return nil, err
	}

	events := make([]ExtremumEvent, 0, len(peaks)+len(lows))
	for _, idx := range peaks {
		events = append(events, extremumAt(s, idx, Peak))
	}
	for _, idx := range lows {
		events = append(events, extremumAt(s, idx, Low))
	}

	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Index < b.Index
	})

	return events, nil
}

func extremumAt(s Series, idx int, kind ExtremumKind) ExtremumEvent {
	sample := s.At(idx)
	return ExtremumEvent{
		Index:     idx,
		Timestamp: sample.Timestamp,
		Value:     sample.Value,
		Kind:      kind,
	}
}

// Peaks filters the events down to peaks
func Peaks(events []ExtremumEvent) []ExtremumEvent {
	return filterKind(events, Peak)
}

// Lows filters the events down to lows
func Lows(events []ExtremumEvent) []ExtremumEvent {
	return filterKind(events, Low)
}

func filterKind(events []ExtremumEvent, kind ExtremumKind) []ExtremumEvent {
	var out []ExtremumEvent
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
