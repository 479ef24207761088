// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// RequestStatus describes the state of the current report request.
type RequestStatus int

const (
	// StatusIdle means no request is in flight.
	StatusIdle RequestStatus = iota
	// StatusLoading means a report request is in flight.
	StatusLoading
	// StatusError means the last request failed.
	StatusError
)

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Offices bool
	Report  bool
}

// State is the shared application state read by every tab. A report
// snapshot is always paired with the filter that produced it, so views
// never render data that answers a different question than the header
// claims.
type State struct {
	mu sync.RWMutex

	filter    filter.State
	directory *models.OfficeDirectory

	report       *models.ReportData
	reportFilter filter.State
	fetchedAt    time.Time
	fromCache    bool

	status    RequestStatus
	lastError string

	loading LoadingState

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state seeded with the given filter.
func NewState(f filter.State) *State {
	return &State{
		filter:        f,
		notifications: make([]Notification, 0),
		loading: LoadingState{
			Initial: true,
		},
	}
}

// SetFilter replaces the active filter.
func (s *State) SetFilter(f filter.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the active filter.
func (s *State) Filter() filter.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetDirectory replaces the office directory.
func (s *State) SetDirectory(d *models.OfficeDirectory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory = d
}

// Directory returns the office directory, which may be nil before the
// first load completes.
func (s *State) Directory() *models.OfficeDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory
}

// OfficeName resolves an office ID to its display name.
func (s *State) OfficeName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id == models.AllOffices || id == "" {
		return "All offices"
	}
	if s.directory == nil {
		return id
	}
	return s.directory.Name(id)
}

// SetReport stores a report snapshot together with the filter that
// produced it.
func (s *State) SetReport(report *models.ReportData, f filter.State, fetchedAt time.Time, fromCache bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Sections fetched earlier for the same record window stay valid, so
	// a monthly report arriving after a performance report extends the
	// snapshot instead of replacing it.
	if s.report != nil && s.reportFilter.SameWindow(f) {
		combined := &models.ReportData{}
		combined.Merge(s.report)
		combined.Merge(report)
		report = combined
	}

	s.report = report
	s.reportFilter = f
	s.fetchedAt = fetchedAt
	s.fromCache = fromCache
}

// Report returns the current report snapshot and the filter it answers.
func (s *State) Report() (*models.ReportData, filter.State) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, s.reportFilter
}

// ReportAge returns when the current report was fetched and whether it
// came from the local cache.
func (s *State) ReportAge() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt, s.fromCache
}

// HasReportFor reports whether the current snapshot already answers the
// given filter: same record window and a section for its report type.
func (s *State) HasReportFor(f filter.State) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report != nil &&
		s.reportFilter.SameWindow(f) &&
		s.report.Has(f.ReportType)
}

// SetStatus updates the request status. The message is kept only for
// StatusError.
func (s *State) SetStatus(status RequestStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	if status == StatusError {
		s.lastError = message
	} else {
		s.lastError = ""
	}
}

// Status returns the current request status.
func (s *State) Status() RequestStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// LastError returns the message from the last failed request.
func (s *State) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.loading.Initial = loading
	case "offices":
		s.loading.Offices = loading
	case "report":
		s.loading.Report = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading.Initial || s.loading.Offices || s.loading.Report
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading.Initial
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}
