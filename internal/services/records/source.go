// Package records provides the local-file record source with file watching.
// It aggregates consignment records client-side, standing in for the report
// service when no API base URL is configured.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"delivery-insight-tui/internal/analytics"
	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/logger"
	"delivery-insight-tui/internal/models"
)

// File is the JSON structure of the consignment records file.
type File struct {
	Offices      []models.Office            `json:"offices,omitempty"`
	Consignments []models.ConsignmentRecord `json:"consignments"`
}

// Event is emitted when the records file changes on disk.
type Event struct {
	Type  EventType
	Error error
}

// EventType defines the type of records event.
type EventType int

const (
	// EventRecordsChanged indicates the file was rewritten and reloaded.
	EventRecordsChanged EventType = iota
	// EventError indicates a watch or reload failure.
	EventError
)

// Source serves reports aggregated from a watched local records file.
type Source struct {
	mu            sync.RWMutex
	records       []models.ConsignmentRecord
	offices       []models.Office
	engine        *analytics.Engine
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New creates a records source, loads the file, and starts watching it.
// The threshold is the injected on-time cutoff for client-side aggregation.
func New(filePath string, threshold time.Duration) (*Source, error) {
	s := &Source{
		filePath:  filePath,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}
	s.engine = analytics.New(threshold, directoryFn(s.directory))

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("failed to load records file: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	return s, nil
}

// directoryFn adapts a directory getter into an analytics.NameResolver.
type directoryFn func() *models.OfficeDirectory

func (f directoryFn) Name(id string) string {
	return f().Name(id)
}

// Events returns the event channel for subscribing to file changes.
func (s *Source) Events() <-chan Event {
	return s.eventChan
}

// Offices returns the office directory. Entries declared in the file come
// first in file order; offices only referenced by records are appended
// alphabetically with their ID as the name.
func (s *Source) Offices(_ context.Context) ([]models.Office, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Office, len(s.offices))
	copy(out, s.offices)

	known := make(map[string]bool, len(out))
	for _, o := range out {
		known[o.ID] = true
	}
	var extra []string
	for _, rec := range s.records {
		for _, id := range []string{rec.SourceOfficeID, rec.DestinationOfficeID} {
			if id != "" && !known[id] {
				known[id] = true
				extra = append(extra, id)
			}
		}
	}
	sort.Strings(extra)
	for _, id := range extra {
		out = append(out, models.Office{ID: id, Name: id})
	}
	return out, nil
}

// Report filters the records by the state's window and offices and derives
// the requested projection.
func (s *Source) Report(_ context.Context, f filter.State) (*models.ReportData, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	records := make([]models.ConsignmentRecord, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	matched := analytics.Filter(records, f.Range, f.SourceOfficeID, f.DestinationOfficeID)
	return s.engine.Report(matched, f.ReportType), nil
}

// Close stops the watcher and closes the event channel.
func (s *Source) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.stopChan)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
		close(s.eventChan)
	})
	return err
}

func (s *Source) directory() *models.OfficeDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.NewOfficeDirectory(s.offices)
}

func (s *Source) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.filePath, err)
	}
	for _, rec := range file.Consignments {
		if !rec.Status.Valid() {
			return fmt.Errorf("record %s has unknown status %q", rec.ID, rec.Status)
		}
	}

	s.mu.Lock()
	s.records = file.Consignments
	s.offices = file.Offices
	s.mu.Unlock()
	return nil
}

// startWatcher starts the file system watcher. The directory is watched
// rather than the file so atomic rewrites are caught.
func (s *Source) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Source) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				// Debounce rapid changes
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			}

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

func (s *Source) handleFileChange() {
	if err := s.load(); err != nil {
		logger.Error("failed to reload records file", "path", s.filePath, "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	logger.Info("records file reloaded", "path", s.filePath)
	s.sendEvent(Event{Type: EventRecordsChanged})
}

func (s *Source) sendEvent(event Event) {
	defer func() {
		// The channel closes on shutdown; a late debounce timer must not
		// bring the process down.
		_ = recover()
	}()
	select {
	case s.eventChan <- event:
	default:
		logger.Warn("records event dropped, channel full")
	}
}
