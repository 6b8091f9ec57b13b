// Package services orchestrates batch analysis runs and fans their progress
// out to subscribers.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/journal-runstats/internal/config"
	"github.com/j-veylop/journal-runstats/internal/logger"
	"github.com/j-veylop/journal-runstats/internal/models"
	"github.com/j-veylop/journal-runstats/internal/services/watch"
)

type (
	// ProgressEvent is emitted after each journal file is consumed.
	ProgressEvent struct {
		Progress models.FileProgress
	}

	// JournalsChangedEvent is emitted in watch mode when matching journals
	// changed on disk.
	JournalsChangedEvent struct {
		Files []string
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (ProgressEvent) isServiceEvent()        {}
func (JournalsChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()           {}

const subscriberBuffer = 50

// notify is swapped out in tests.
var notify = func(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager runs analyses for one configuration and routes their events.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	subscribers []chan ServiceEvent
	closed      bool
}

// NewManager creates a manager for cfg.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Config returns the configuration the manager was created with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Analyze discovers the journals and runs one batch over them.
func (m *Manager) Analyze(ctx context.Context) (*models.Report, error) {
	files, err := DiscoverJournals(m.cfg)
	if err != nil {
		if !errors.Is(err, ErrNoLogFiles) {
			m.broadcast(ErrorEvent{Service: "analysis", Error: err})
		}
		return nil, err
	}
	return m.AnalyzeFiles(ctx, files)
}

// AnalyzeFiles runs one batch over files, broadcasting a ProgressEvent per
// file and calling any non-nil observers synchronously. When the
// configuration asks for it, a desktop notification summarizes the result.
func (m *Manager) AnalyzeFiles(ctx context.Context, files []string, observers ...Observer) (*models.Report, error) {
	report, err := AnalyzeFiles(ctx, m.cfg, files, func(p models.FileProgress) {
		for _, observe := range observers {
			if observe != nil {
				observe(p)
			}
		}
		m.broadcast(ProgressEvent{Progress: p})
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			m.broadcast(ErrorEvent{Service: "analysis", Error: err})
		}
		return nil, err
	}

	if m.cfg.Notify {
		m.sendNotification(report)
	}
	return report, nil
}

func (m *Manager) sendNotification(report *models.Report) {
	title := "Journal analysis finished"
	body := fmt.Sprintf("%d runs to %d stations from %d departures",
		len(report.Intervals), len(report.Stations), report.Departures)
	if !report.HasStatistics() {
		body = fmt.Sprintf("No completed runs yet (%d departures)", report.Departures)
	}
	if err := notify(title, body); err != nil {
		logger.Warn("failed to send notification", "error", err)
	}
}

// Watch blocks until ctx is done, calling onChange after each debounced
// burst of journal changes in the configured log directory.
func (m *Manager) Watch(ctx context.Context, onChange func(files []string)) error {
	pattern, err := m.cfg.Pattern()
	if err != nil {
		return err
	}

	svc, err := watch.New(m.cfg.LogDir, pattern, m.cfg.WatchDebounce)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
	}()

	logger.Info("watching for journal changes", "dir", m.cfg.LogDir, "debounce", m.cfg.WatchDebounce)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-svc.Events():
			switch event.Type {
			case watch.EventJournalsChanged:
				m.broadcast(JournalsChangedEvent{Files: event.Files})
				onChange(event.Files)
			case watch.EventError:
				logger.Warn("watcher error", "error", event.Error)
				m.broadcast(ErrorEvent{Service: "watch", Error: event.Error})
			}
		}
	}
}

// broadcast sends an event to all subscribers without blocking.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events. After Close the
// channel is returned already closed.
func (m *Manager) Subscribe() chan ServiceEvent {
	ch := make(chan ServiceEvent, subscriberBuffer)

	m.mu.Lock()
	if m.closed {
		close(ch)
	} else {
		m.subscribers = append(m.subscribers, ch)
	}
	m.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes all subscriber channels.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	return nil
}
