package models

import "time"

// Interval is a completed run from the origin station to a destination.
type Interval struct {
	Departed    time.Time
	Arrived     time.Time
	Destination string
	SourceFile  string
}

// Seconds returns the run duration in seconds. Inverted timestamps yield a
// negative value; nothing validates ordering.
func (i Interval) Seconds() float64 {
	return i.Arrived.Sub(i.Departed).Seconds()
}

// FileProgress is reported after each journal file has been consumed.
type FileProgress struct {
	Name        string
	Index       int // 1-based
	Total       int
	Departures  int
	Intervals   int
	ParseErrors int
}

// Percent returns the completed share of files in the range 0-100.
func (p FileProgress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Index) / float64(p.Total) * 100
}
