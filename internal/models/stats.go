package models

// StationStats holds the outlier-filtered statistics for one destination.
type StationStats struct {
	Station        string
	RunCount       int
	AverageSeconds float64
	SkippedCount   int
}

// Report is the result of one complete pass over a log directory.
type Report struct {
	Origin         string
	DepartureTag   string
	Stations       []StationStats
	Intervals      []Interval // completed runs in processing order
	Departures     int
	FilesProcessed int
	ParseErrors    int
}

// HasStatistics returns true if at least one destination was observed.
func (r *Report) HasStatistics() bool {
	return r != nil && len(r.Stations) > 0
}

// Durations returns the raw durations of all completed runs in processing order.
func (r *Report) Durations() []float64 {
	if r == nil {
		return nil
	}
	out := make([]float64, len(r.Intervals))
	for i, iv := range r.Intervals {
		out[i] = iv.Seconds()
	}
	return out
}

// TotalSkipped sums the outlier-filtered runs across all destinations.
func (r *Report) TotalSkipped() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, s := range r.Stations {
		total += s.SkippedCount
	}
	return total
}
