package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/services"
)

const (
	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// switchTabCmd returns a command that requests switching to a tab.
func switchTabCmd(tab TabID) tea.Cmd {
	return func() tea.Msg {
		return TabSwitchMsg{Tab: tab}
	}
}

// refreshCmd returns a command that requests a refetch of the current report.
func refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// loadOfficesCmd returns a command that loads the office directory.
func loadOfficesCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		offices, err := mgr.LoadOffices()
		return OfficesLoadedMsg{Offices: offices, Err: err}
	}
}

// loadReportCmd returns a command that fetches the report for a filter. On
// fetch failure it falls back to the local cache; the error travels with
// the message either way so the UI can flag stale data.
func loadReportCmd(mgr *services.Manager, f filter.State, gen uint64) tea.Cmd {
	return func() tea.Msg {
		report, err := mgr.FetchReport(f)
		if err != nil {
			cached, fetchedAt := mgr.CachedReport(f)
			if cached != nil && cached.Has(f.ReportType) {
				return ReportLoadedMsg{
					Gen:       gen,
					Filter:    f,
					Report:    cached,
					FetchedAt: fetchedAt,
					FromCache: true,
					Err:       err,
				}
			}
			return ReportLoadedMsg{Gen: gen, Filter: f, Err: err}
		}

		return ReportLoadedMsg{
			Gen:       gen,
			Filter:    f,
			Report:    report,
			FetchedAt: time.Now(),
		}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

