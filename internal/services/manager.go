// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"delivery-insight-tui/internal/config"
	"delivery-insight-tui/internal/db"
	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/logger"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/services/records"
	"delivery-insight-tui/internal/services/reports"
)

type (
	// OfficesLoadedEvent is emitted when the office directory becomes
	// available (from the source or the local cache).
	OfficesLoadedEvent struct {
		Offices []models.Office
	}

	// RecordsChangedEvent is emitted when the local records file changes,
	// meaning the current report may be stale.
	RecordsChangedEvent struct{}

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

func (OfficesLoadedEvent) isServiceEvent()  {}
func (RecordsChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()          {}

// ReportSource supplies raw report data: an HTTP report service or the
// local records file.
type ReportSource interface {
	Offices(ctx context.Context) ([]models.Office, error)
	Report(ctx context.Context, f filter.State) (*models.ReportData, error)
}

// cacheMaxAge is how long cached reports survive before startup pruning.
const cacheMaxAge = 14 * 24 * time.Hour

// Manager orchestrates the report source, the local cache, and event
// routing.
type Manager struct {
	mu          sync.RWMutex
	source      ReportSource
	local       *records.Source
	database    *db.DB
	directory   *models.OfficeDirectory
	timeout     time.Duration
	notify      bool
	subscribers []chan ServiceEvent
	stopChan    chan struct{}
	closeOnce   sync.Once
}

// NewManager creates a service manager. With API_BASE_URL set, reports come
// from the report service; otherwise the local records file is watched and
// aggregated in-process.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		timeout:   cfg.RequestTimeout,
		notify:    true,
		directory: models.NewOfficeDirectory(nil),
		stopChan:  make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache database: %w", err)
	}

	if cfg.APIBaseURL != "" {
		m.source = reports.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	} else {
		m.local, err = records.New(cfg.RecordsPath, cfg.OnTimeThreshold)
		if err != nil {
			_ = m.database.Close()
			return nil, err
		}
		m.source = m.local
		go m.routeRecordEvents()
	}

	if pruned, err := m.database.PruneReports(time.Now().Add(-cacheMaxAge)); err != nil {
		logger.Warn("failed to prune report cache", "error", err)
	} else if pruned > 0 {
		logger.Info("pruned stale report cache entries", "count", pruned)
	}

	return m, nil
}

// routeRecordEvents forwards local records-file events to subscribers.
func (m *Manager) routeRecordEvents() {
	for {
		select {
		case event, ok := <-m.local.Events():
			if !ok {
				return
			}
			switch event.Type {
			case records.EventRecordsChanged:
				m.broadcast(RecordsChangedEvent{})
			case records.EventError:
				m.broadcast(ErrorEvent{Service: "records", Error: event.Error})
			}
		case <-m.stopChan:
			return
		}
	}
}

// LoadOffices fetches the office directory, falling back to the cached copy
// when the source is unavailable. The returned error is non-nil only when
// neither works.
func (m *Manager) LoadOffices() ([]models.Office, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.RLock()
	source := m.source
	m.mu.RUnlock()

	offices, err := source.Offices(ctx)
	if err != nil {
		logger.Warn("office directory fetch failed, trying cache", "error", err)
		cached, cacheErr := m.database.LoadOffices()
		if cacheErr != nil || len(cached) == 0 {
			return nil, fmt.Errorf("office directory unavailable: %w", err)
		}
		offices = cached
	} else if err := m.database.SaveOffices(offices); err != nil {
		logger.Warn("failed to cache office directory", "error", err)
	}

	m.mu.Lock()
	m.directory = models.NewOfficeDirectory(offices)
	m.mu.Unlock()

	m.broadcast(OfficesLoadedEvent{Offices: offices})
	return offices, nil
}

// Directory returns the current office directory.
func (m *Manager) Directory() *models.OfficeDirectory {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.directory
}

// FetchReport fetches the report for a filter state and caches it. Failures
// raise a desktop notification and leave the cache untouched.
func (m *Manager) FetchReport(f filter.State) (*models.ReportData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	m.mu.RLock()
	source := m.source
	notify := m.notify
	m.mu.RUnlock()

	report, err := source.Report(ctx, f)
	if err != nil {
		logger.Error("report fetch failed", "query", f.Encode(), "error", err)
		if notify {
			_ = beeep.Notify("Delivery Insight", fmt.Sprintf("Report load failed: %v", err), "")
		}
		return nil, err
	}

	if err := m.database.SaveReport(f.Encode(), report, time.Now()); err != nil {
		logger.Warn("failed to cache report", "query", f.Encode(), "error", err)
	}
	return report, nil
}

// CachedReport returns the cached report for a filter state, or nil on a
// cache miss.
func (m *Manager) CachedReport(f filter.State) (*models.ReportData, time.Time) {
	report, fetchedAt, err := m.database.LoadReport(f.Encode())
	if err != nil {
		logger.Warn("failed to read report cache", "query", f.Encode(), "error", err)
		return nil, time.Time{}
	}
	return report, fetchedAt
}

// SetNotifications toggles desktop notifications on load failures.
func (m *Manager) SetNotifications(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = enabled
}

// broadcast sends an event to all subscribers.
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

// Subscribe creates a channel for receiving service events. The caller owns
// the receive loop; Unsubscribe closes the channel.
func (m *Manager) Subscribe() chan ServiceEvent {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
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

// Close shuts the manager and its services down.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)
		if m.local != nil {
			err = m.local.Close()
		}
		if dbErr := m.database.Close(); dbErr != nil && err == nil {
			err = dbErr
		}
	})
	return err
}
