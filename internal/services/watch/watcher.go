// Package watch reports changes to journal files in the log directory.
package watch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/journal-runstats/internal/journal"
	"github.com/j-veylop/journal-runstats/internal/logger"
)

// EventType defines the type of watch event.
type EventType int

const (
	// EventJournalsChanged fires once per quiet period after one or more
	// matching journals were written, created, renamed or removed.
	EventJournalsChanged EventType = iota
	// EventError carries a watcher failure.
	EventError
)

// Event represents a watch service event.
type Event struct {
	Type  EventType
	Files []string // base names touched since the previous event
	Error error
}

const eventBuffer = 16

// Service watches a single directory with debouncing.
type Service struct {
	mu            sync.Mutex
	dir           string
	pattern       *regexp.Regexp
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer *time.Timer
	touched       map[string]struct{}
}

// New starts watching dir for files matching pattern. Bursts of changes
// closer together than debounce collapse into one event.
func New(dir string, pattern *regexp.Regexp, debounce time.Duration) (*Service, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	s := &Service{
		dir:       dir,
		pattern:   pattern,
		debounce:  debounce,
		watcher:   watcher,
		eventChan: make(chan Event, eventBuffer),
		stopChan:  make(chan struct{}),
		touched:   make(map[string]struct{}),
	}

	go s.watchLoop()
	return s, nil
}

// Events returns the channel change notifications are delivered on.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if !journal.MatchName(s.pattern, name) || event.Op&relevantOps == 0 {
				continue
			}
			logger.Debug("journal changed", "file", name, "op", event.Op.String())
			s.schedule(name)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// schedule records name and restarts the quiet-period timer.
func (s *Service) schedule(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched[name] = struct{}{}
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounce, s.flush)
}

func (s *Service) flush() {
	s.mu.Lock()
	files := make([]string, 0, len(s.touched))
	for name := range s.touched {
		files = append(files, name)
	}
	s.touched = make(map[string]struct{})
	s.mu.Unlock()

	if len(files) == 0 {
		return
	}
	sort.Strings(files)
	s.sendEvent(Event{Type: EventJournalsChanged, Files: files})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case <-s.stopChan:
		return
	default:
	}

	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher. Pending debounced changes are discarded.
func (s *Service) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)

		s.mu.Lock()
		if s.debounceTimer != nil {
			s.debounceTimer.Stop()
		}
		s.mu.Unlock()

		err = s.watcher.Close()
	})
	return err
}
