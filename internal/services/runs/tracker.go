// Package runs reconstructs runs from an ordered stream of journal events.
//
// A run opens on a departure from the origin station and closes on the next
// arrival at any other station. At most one run is open at a time: a second
// departure replaces the pending one. An arrival without a station name, or
// at the origin itself, leaves the pending run open.
package runs

import (
	"time"

	"github.com/j-veylop/journal-runstats/internal/models"
)

// Transition is the outcome of feeding one event to a Tracker.
type Transition struct {
	// Departed is true when the event was a departure from the origin.
	Departed bool
	// Closed holds the completed run, or nil.
	Closed *models.Interval
}

// Tracker is the per-file run state machine. It is either idle or pending
// with a start time. Call Reset before each file.
type Tracker struct {
	origin       string
	file         string
	pendingStart time.Time
	pending      bool
}

// NewTracker creates an idle tracker for runs starting at origin.
func NewTracker(origin string) *Tracker {
	return &Tracker{origin: origin}
}

// Reset drops any pending run and labels subsequent intervals with file.
func (t *Tracker) Reset(file string) {
	t.file = file
	t.pending = false
	t.pendingStart = time.Time{}
}

// Pending returns the start of the open run, if any.
func (t *Tracker) Pending() (time.Time, bool) {
	return t.pendingStart, t.pending
}

// Observe applies ev to the state machine.
func (t *Tracker) Observe(ev models.Event) Transition {
	switch ev.Kind {
	case models.EventDeparture:
		if ev.Location != t.origin {
			return Transition{}
		}
		t.pendingStart = ev.Timestamp
		t.pending = true
		return Transition{Departed: true}

	case models.EventArrival:
		if !t.pending || !ev.HasLocation() || ev.Location == t.origin {
			return Transition{}
		}
		iv := &models.Interval{
			Departed:    t.pendingStart,
			Arrived:     ev.Timestamp,
			Destination: ev.Location,
			SourceFile:  t.file,
		}
		t.pending = false
		t.pendingStart = time.Time{}
		return Transition{Closed: iv}
	}

	return Transition{}
}
