// Package routes provides the busiest-routes ranking tab.
package routes

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"delivery-insight-tui/internal/app"
	"delivery-insight-tui/internal/presentation"
	"delivery-insight-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the routes tab.
type keyMap struct {
	NextRoute  key.Binding
	PrevRoute  key.Binding
	FirstRoute key.Binding
	LastRoute  key.Binding
	Refresh    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextRoute: key.NewBinding(
			key.WithKeys("n", "j", "down"),
			key.WithHelp("j/n", "next route"),
		),
		PrevRoute: key.NewBinding(
			key.WithKeys("p", "k", "up"),
			key.WithHelp("k/p", "prev route"),
		),
		FirstRoute: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first route"),
		),
		LastRoute: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last route"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// Model represents the routes tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new routes tab model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Loading routes..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case app.ReportLoadedMsg:
		m.clampSelection()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := m.routeCount()

	switch {
	case key.Matches(msg, m.keys.NextRoute):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevRoute):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.FirstRoute):
		if count > 0 {
			m.selectedIndex = 0
		}
	case key.Matches(msg, m.keys.LastRoute):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) routeCount() int {
	report, _ := m.state.Report()
	if report == nil {
		return 0
	}
	count := len(report.Routes)
	if count > presentation.TopRouteCount {
		count = presentation.TopRouteCount
	}
	return count
}

func (m *Model) clampSelection() {
	if count := m.routeCount(); m.selectedIndex >= count {
		m.selectedIndex = max(count-1, 0)
	}
}

// SetSize sets the available size for the tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextRoute, m.keys.PrevRoute, m.keys.Refresh}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextRoute, m.keys.PrevRoute},
		{m.keys.FirstRoute, m.keys.LastRoute},
		{m.keys.Refresh},
	}
}
