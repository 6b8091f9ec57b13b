// Package models defines data structures and domain types.
package models

import "time"

// EventKind classifies a journal record by its event tag.
type EventKind int

const (
	// EventOther is any tag that is neither a departure nor an arrival.
	EventOther EventKind = iota
	// EventDeparture marks leaving a station ("Undocked" by default).
	EventDeparture
	// EventArrival marks reaching a station ("Docked" by default).
	EventArrival
)

// String returns the display name for an event kind.
func (k EventKind) String() string {
	switch k {
	case EventDeparture:
		return "Departure"
	case EventArrival:
		return "Arrival"
	default:
		return "Other"
	}
}

// Event is a single decoded journal record.
type Event struct {
	Timestamp time.Time
	Tag       string
	Location  string // empty when the record has no station name
	Kind      EventKind
}

// HasLocation reports whether the record carried a station name.
func (e Event) HasLocation() bool {
	return e.Location != ""
}
