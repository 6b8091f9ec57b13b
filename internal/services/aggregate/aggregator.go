// Package aggregate groups run durations by destination and reduces them to
// outlier-filtered station statistics.
package aggregate

import (
	"math"
	"sort"

	"github.com/j-veylop/journal-runstats/internal/models"
)

// Accumulator collects raw durations and the departure count across all
// files of one pass. Duration lists are append-only until Finalize.
type Accumulator struct {
	durations  map[string][]float64
	intervals  []models.Interval
	departures int
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{durations: make(map[string][]float64)}
}

// AddDeparture counts one qualifying departure from the origin.
func (a *Accumulator) AddDeparture() {
	a.departures++
}

// AddInterval records a completed run.
func (a *Accumulator) AddInterval(iv models.Interval) {
	a.durations[iv.Destination] = append(a.durations[iv.Destination], iv.Seconds())
	a.intervals = append(a.intervals, iv)
}

// Departures returns the number of qualifying departures seen so far.
func (a *Accumulator) Departures() int {
	return a.departures
}

// IntervalCount returns the number of completed runs seen so far.
func (a *Accumulator) IntervalCount() int {
	return len(a.intervals)
}

// Intervals returns a copy of the completed runs in the order they were added.
func (a *Accumulator) Intervals() []models.Interval {
	out := make([]models.Interval, len(a.intervals))
	copy(out, a.intervals)
	return out
}

// Finalize computes statistics for every destination, sorted by station name.
func (a *Accumulator) Finalize(threshold float64) []models.StationStats {
	stations := make([]string, 0, len(a.durations))
	for station := range a.durations {
		stations = append(stations, station)
	}
	sort.Strings(stations)

	stats := make([]models.StationStats, 0, len(stations))
	for _, station := range stations {
		durations := a.durations[station]
		if len(durations) == 0 {
			continue
		}
		stats = append(stats, Summarize(station, durations, threshold))
	}
	return stats
}

// Summarize filters durations to those within threshold relative deviation
// of their unfiltered mean (|d - mean| <= threshold*mean) and averages the rest.
// When nothing survives, RunCount and AverageSeconds are zero and every
// duration counts as skipped.
func Summarize(station string, durations []float64, threshold float64) models.StationStats {
	mean := Mean(durations)
	band := threshold * mean

	kept := make([]float64, 0, len(durations))
	for _, d := range durations {
		if math.Abs(d-mean) <= band {
			kept = append(kept, d)
		}
	}

	stats := models.StationStats{
		Station:      station,
		SkippedCount: len(durations) - len(kept),
	}
	if len(kept) == 0 {
		return stats
	}
	stats.RunCount = len(kept)
	stats.AverageSeconds = Mean(kept)
	return stats
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
