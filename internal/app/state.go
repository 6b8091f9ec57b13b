// Package app provides the Bubble Tea progress view shown while journals
// are analyzed.
package app

import (
	"sync"
	"time"

	"github.com/j-veylop/journal-runstats/internal/models"
)

// State is the progress of one analysis run. It is read by the caller after
// the program exits, so access is synchronized.
type State struct {
	mu          sync.RWMutex
	startedAt   time.Time
	progress    models.FileProgress
	lastError   error
	report      *models.Report
	err         error
	done        bool
	interrupted bool
}

// NewState creates a state whose clock starts now.
func NewState() *State {
	return &State{startedAt: time.Now()}
}

// SetProgress records the latest per-file progress. Late events arriving
// after the run finished are ignored.
func (s *State) SetProgress(p models.FileProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done || p.Index < s.progress.Index {
		return
	}
	s.progress = p
}

// Progress returns the latest per-file progress.
func (s *State) Progress() models.FileProgress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

// SetLastError records a non-fatal service error for display.
func (s *State) SetLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = err
}

// LastError returns the most recent non-fatal service error.
func (s *State) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Finish stores the outcome of the run.
func (s *State) Finish(report *models.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = report
	s.err = err
	s.done = true
}

// Interrupt marks the run as cancelled by the user.
func (s *State) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupted = true
}

// Result returns the report and error stored by Finish.
func (s *State) Result() (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.err
}

// IsDone reports whether Finish was called.
func (s *State) IsDone() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.done
}

// Interrupted reports whether the user cancelled the run.
func (s *State) Interrupted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.interrupted
}

// Elapsed returns the time since the state was created.
func (s *State) Elapsed() time.Duration {
	return time.Since(s.startedAt)
}
