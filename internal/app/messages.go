package app

import (
	"time"

	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/services"
)

// OfficesLoadedMsg contains the loaded office directory.
type OfficesLoadedMsg struct {
	Offices []models.Office
	Err     error
}

// ReportLoadedMsg carries the result of a report request. Gen identifies
// the request that produced it; results from superseded requests carry an
// older generation and are dropped without touching shared state.
type ReportLoadedMsg struct {
	Gen       uint64
	Filter    filter.State
	Report    *models.ReportData
	FetchedAt time.Time
	FromCache bool
	Err       error
}

// ApplyFilterMsg requests switching to a new, already-validated filter.
type ApplyFilterMsg struct {
	Filter filter.State
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// RefreshMsg requests refetching the report for the current filter.
type RefreshMsg struct{}

// ToggleFilterMsg toggles the filter form.
type ToggleFilterMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
