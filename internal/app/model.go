// Package app implements the main Bubble Tea application with tab-based navigation.
package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/services"
	"delivery-insight-tui/internal/ui/styles"
)

// TabID represents the identifier for a tab in the application.
type TabID int

const (
	// TabPerformance is the ID for the delivery performance tab.
	TabPerformance TabID = iota
	// TabMonthly is the ID for the monthly trend tab.
	TabMonthly
	// TabRoutes is the ID for the route ranking tab.
	TabRoutes
)

// String returns the string representation of the TabID.
func (t TabID) String() string {
	switch t {
	case TabPerformance:
		return "Performance"
	case TabMonthly:
		return "Monthly"
	case TabRoutes:
		return "Routes"
	default:
		return "Unknown"
	}
}

// ReportType returns the report type the tab displays.
func (t TabID) ReportType() models.ReportType {
	switch t {
	case TabMonthly:
		return models.ReportMonthly
	case TabRoutes:
		return models.ReportRoutes
	default:
		return models.ReportPerformance
	}
}

// TabForReport returns the tab that displays the given report type.
func TabForReport(t models.ReportType) TabID {
	switch t {
	case models.ReportMonthly:
		return TabMonthly
	case models.ReportRoutes:
		return TabRoutes
	default:
		return TabPerformance
	}
}

// Tab defines the interface that all tabs must implement.
type Tab interface {
	// Init initializes the tab and returns any initial commands.
	Init() tea.Cmd

	// Update handles messages and returns the updated tab and any commands.
	Update(msg tea.Msg) (Tab, tea.Cmd)

	// View renders the tab content.
	View() string

	// SetSize sets the available size for the tab.
	SetSize(width, height int)

	// ShortHelp returns key bindings for the short help view.
	ShortHelp() []key.Binding

	// FullHelp returns key bindings for the full help view.
	FullHelp() [][]key.Binding
}

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	Tab1      key.Binding
	Tab2      key.Binding
	Tab3      key.Binding
	NextTab   key.Binding
	PrevTab   key.Binding
	Refresh   key.Binding
	Filter    key.Binding
	CopyQuery key.Binding
	Help      key.Binding
	Quit      key.Binding
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Escape    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "performance")),
		Tab2:      key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "monthly")),
		Tab3:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "routes")),
		NextTab:   key.NewBinding(key.WithKeys("tab", "right"), key.WithHelp("tab/→", "next tab")),
		PrevTab:   key.NewBinding(key.WithKeys("shift+tab", "left"), key.WithHelp("shift+tab/←", "prev tab")),
		Refresh:   key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "refresh")),
		Filter:    key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "edit filter")),
		CopyQuery: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show query")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2, k.Tab3},
		{k.NextTab, k.PrevTab},
		{k.Filter, k.CopyQuery},
		{k.Refresh, k.Help, k.Quit},
	}
}

// Styles defines the application styles.
type Styles struct {
	// Tab bar styles
	TabBar       lipgloss.Style
	ActiveTab    lipgloss.Style
	InactiveTab  lipgloss.Style
	TabSeparator lipgloss.Style

	// Notification styles
	NotificationSuccess lipgloss.Style
	NotificationError   lipgloss.Style
	NotificationWarning lipgloss.Style
	NotificationInfo    lipgloss.Style

	// Content styles
	Content lipgloss.Style
	Help    lipgloss.Style
	Spinner lipgloss.Style
	Toast   lipgloss.Style

	// Common styles
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Highlight lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
}

// DefaultStyles returns the default application styles.
func DefaultStyles() Styles {
	subtle := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	highlight := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}
	success := lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#04B575"}
	warning := lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FF8C00"}
	errorColor := lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"}
	info := lipgloss.AdaptiveColor{Light: "#0087D7", Dark: "#5FAFFF"}

	s := Styles{}
	s.TabBar = lipgloss.NewStyle().Padding(0, 1).BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).BorderForeground(subtle)
	s.ActiveTab = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 2)
	s.InactiveTab = lipgloss.NewStyle().Foreground(subtle).Padding(0, 2)
	s.TabSeparator = lipgloss.NewStyle().Foreground(subtle).SetString(" | ")

	s.NotificationSuccess = lipgloss.NewStyle().Foreground(success).Padding(0, 1)
	s.NotificationError = lipgloss.NewStyle().Foreground(errorColor).Bold(true).Padding(0, 1)
	s.NotificationWarning = lipgloss.NewStyle().Foreground(warning).Padding(0, 1)
	s.NotificationInfo = lipgloss.NewStyle().Foreground(info).Padding(0, 1)

	s.Content = lipgloss.NewStyle().Padding(1, 2)
	s.Help = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)
	s.Spinner = lipgloss.NewStyle().Foreground(highlight)
	s.Toast = styles.ToastStyle

	s.Title = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	s.Subtle = lipgloss.NewStyle().Foreground(subtle)
	s.Highlight = lipgloss.NewStyle().Foreground(highlight)
	s.Error = lipgloss.NewStyle().Foreground(errorColor)
	s.Success = lipgloss.NewStyle().Foreground(success)
	s.Warning = lipgloss.NewStyle().Foreground(warning)

	return s
}

// Model is the main application model.
type Model struct {
	// Tab management
	activeTab TabID
	tabs      []Tab
	tabNames  []string

	// Shared state
	state    *State
	services *services.Manager
	keymap   KeyMap
	styles   Styles

	// UI components
	spinner spinner.Model
	form    *FilterForm

	// Window dimensions
	width  int
	height int

	// UI state
	showHelp   bool
	showFilter bool
	ready      bool

	// fetchGen numbers report requests. Only a result carrying the
	// current generation may touch shared state; anything older was
	// superseded while in flight.
	fetchGen uint64

	// Service subscription
	eventChannel chan services.ServiceEvent
}

// NewModel initializes a new application model seeded with the given state.
func NewModel(mgr *services.Manager, state *State) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	return &Model{
		activeTab: TabForReport(state.Filter().ReportType),
		tabNames:  []string{"Performance", "Monthly", "Routes"},
		tabs:      make([]Tab, 3),
		state:     state,
		services:  mgr,
		keymap:    DefaultKeyMap(),
		styles:    DefaultStyles(),
		spinner:   s,
	}
}

// SetTabs sets the tabs for the model.
func (m *Model) SetTabs(tabs []Tab) {
	m.tabs = tabs
	if m.width > 0 && m.height > 0 {
		m.updateTabSizes()
	}
}

// GetState returns the application state.
func (m *Model) GetState() *State {
	return m.state
}

// FetchGeneration returns the generation of the current report request.
func (m *Model) FetchGeneration() uint64 {
	return m.fetchGen
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	m.state.SetLoadingNotification("Loading...")

	cmds := []tea.Cmd{
		m.spinner.Tick,
	}

	if m.services != nil {
		m.warmStart()
		cmds = append(cmds, subscribeToServicesCmd(m.services))
		cmds = append(cmds, loadOfficesCmd(m.services))
		cmds = append(cmds, m.requestReport(m.state.Filter()))
	}

	for _, tab := range m.tabs {
		if tab != nil {
			cmds = append(cmds, tab.Init())
		}
	}

	return tea.Batch(cmds...)
}

// warmStart shows the cached report for the startup filter right away,
// flagged as cached until the first fetch replaces it. A cache miss just
// leaves the loading spinner up.
func (m *Model) warmStart() {
	f := m.state.Filter()
	cached, fetchedAt := m.services.CachedReport(f)
	if cached == nil || !cached.Has(f.ReportType) {
		return
	}
	m.state.SetReport(cached, f, fetchedAt, true)
	m.state.SetLoading("initial", false)
}

// requestReport starts a new report request, superseding any in flight.
func (m *Model) requestReport(f filter.State) tea.Cmd {
	m.fetchGen++
	m.state.SetFilter(f)
	m.state.SetStatus(StatusLoading, "")
	m.state.SetLoading("report", true)
	if m.services == nil {
		return nil
	}
	return loadReportCmd(m.services, f, m.fetchGen)
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg, tea.KeyMsg, spinner.TickMsg:
		if cmd := m.handleTeaMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		if appCmds := m.handleAppMsg(msg); len(appCmds) > 0 {
			cmds = append(cmds, appCmds...)
		}
	}

	if _, isKey := msg.(tea.KeyMsg); !isKey || !m.showFilter {
		if cmd := m.updateActiveTab(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleTeaMsg(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}
	return nil
}

func (m *Model) handleAppMsg(msg tea.Msg) []tea.Cmd {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case SubscriptionEventMsg:
		cmds = append(cmds, m.handleSubscriptionEvent(msg)...)
	case ServiceEventMsg:
		cmds = append(cmds, m.handleServiceEventMsg(msg)...)
	case OfficesLoadedMsg:
		cmds = append(cmds, m.handleOfficesLoaded(msg)...)
	case ReportLoadedMsg:
		cmds = append(cmds, m.handleReportLoaded(msg)...)
	case ApplyFilterMsg:
		m.showFilter = false
		m.form = nil
		cmds = append(cmds, m.requestReport(msg.Filter))
		cmds = append(cmds, notifySuccessCmd("Filter applied"))
	case RefreshMsg:
		cmds = append(cmds, m.requestReport(m.state.Filter()))
	case TabSwitchMsg:
		cmds = append(cmds, m.switchTab(msg.Tab))
	case ToggleFilterMsg:
		m.toggleFilterForm()
	case AddNotificationMsg:
		cmds = append(cmds, m.handleAddNotification(msg)...)
	case RemoveNotificationMsg:
		m.state.RemoveNotification(msg.ID)
	}
	return cmds
}

func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.updateTabSizes()
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleSubscriptionEvent(msg SubscriptionEventMsg) []tea.Cmd {
	m.eventChannel = msg.Channel
	return []tea.Cmd{waitForServiceEventCmd(m.eventChannel)}
}

func (m *Model) handleServiceEventMsg(msg ServiceEventMsg) []tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.handleServiceEvent(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.eventChannel != nil {
		cmds = append(cmds, waitForServiceEventCmd(m.eventChannel))
	}
	return cmds
}

func (m *Model) handleServiceEvent(event services.ServiceEvent) tea.Cmd {
	switch e := event.(type) {
	case services.OfficesLoadedEvent:
		m.state.SetDirectory(models.NewOfficeDirectory(e.Offices))

	case services.RecordsChangedEvent:
		// The records file changed beneath the current report.
		return tea.Batch(
			notifyInfoCmd("Records changed, refreshing"),
			m.requestReport(m.state.Filter()),
		)

	case services.ErrorEvent:
		return notifyErrorCmd(fmt.Sprintf("[%s] %v", e.Service, e.Error))
	}
	return nil
}

func (m *Model) handleOfficesLoaded(msg OfficesLoadedMsg) []tea.Cmd {
	m.state.SetLoading("offices", false)
	if msg.Err != nil {
		return []tea.Cmd{notifyErrorCmd(fmt.Sprintf("Office directory: %v", msg.Err))}
	}
	m.state.SetDirectory(models.NewOfficeDirectory(msg.Offices))
	return nil
}

// handleReportLoaded applies a report result only if it belongs to the
// current request generation. Stale results are dropped whole: neither
// their data nor their errors reach shared state.
func (m *Model) handleReportLoaded(msg ReportLoadedMsg) []tea.Cmd {
	if msg.Gen != m.fetchGen {
		return nil
	}

	m.state.SetLoading("report", false)
	m.state.SetLoading("initial", false)
	if !m.state.AnyLoading() {
		m.state.ClearLoadingNotification()
	}

	var cmds []tea.Cmd

	if msg.Report != nil {
		m.state.SetReport(msg.Report, msg.Filter, msg.FetchedAt, msg.FromCache)
	}

	switch {
	case msg.Err != nil && msg.Report == nil:
		m.state.SetStatus(StatusError, msg.Err.Error())
		cmds = append(cmds, notifyErrorCmd(fmt.Sprintf("Report load failed: %v", msg.Err)))
	case msg.Err != nil:
		m.state.SetStatus(StatusIdle, "")
		cmds = append(cmds, notifyInfoCmd("Source unavailable, showing cached report"))
	default:
		m.state.SetStatus(StatusIdle, "")
	}

	return cmds
}

func (m *Model) handleAddNotification(msg AddNotificationMsg) []tea.Cmd {
	var cmds []tea.Cmd
	id := m.state.AddNotification(msg.Type, msg.Message, msg.Duration)
	if msg.Duration > 0 {
		cmds = append(cmds, clearNotificationCmd(id, msg.Duration))
	}
	return cmds
}

// switchTab activates a tab. The filter keeps its window and offices; only
// the report type changes. A snapshot that already answers the new filter
// is shown as is, without a refetch.
func (m *Model) switchTab(tab TabID) tea.Cmd {
	m.activeTab = tab
	m.updateTabSizes()

	f := m.state.Filter().WithReportType(tab.ReportType())
	if m.form != nil {
		m.form.SetReportType(f.ReportType)
	}
	if m.state.HasReportFor(f) {
		m.state.SetFilter(f)
		m.state.SetStatus(StatusIdle, "")
		return nil
	}
	return m.requestReport(f)
}

func (m *Model) toggleFilterForm() {
	m.showFilter = !m.showFilter
	if m.showFilter {
		m.form = NewFilterForm(m.state.Filter(), m.state.Directory())
	} else {
		m.form = nil
	}
}

func (m *Model) updateActiveTab(msg tea.Msg) tea.Cmd {
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		var cmd tea.Cmd
		m.tabs[m.activeTab], cmd = m.tabs[m.activeTab].Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) updateTabSizes() {
	contentHeight := m.height - 6
	contentHeight = max(0, contentHeight)

	for _, tab := range m.tabs {
		if tab != nil {
			tab.SetSize(m.width, contentHeight)
		}
	}
}

// handleKeyMsg handles keyboard input.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	// The filter form captures all keys while open.
	if m.showFilter && m.form != nil {
		return m.form.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		return tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		return nil

	case key.Matches(msg, m.keymap.Filter):
		m.toggleFilterForm()
		return nil

	case key.Matches(msg, m.keymap.CopyQuery):
		return notifyInfoCmd("Query: ?" + m.state.Filter().Encode())

	case key.Matches(msg, m.keymap.Tab1):
		return switchTabCmd(TabPerformance)

	case key.Matches(msg, m.keymap.Tab2):
		return switchTabCmd(TabMonthly)

	case key.Matches(msg, m.keymap.Tab3):
		return switchTabCmd(TabRoutes)

	case key.Matches(msg, m.keymap.NextTab):
		if !m.showHelp {
			return switchTabCmd(TabID((int(m.activeTab) + 1) % len(m.tabs)))
		}
		return nil

	case key.Matches(msg, m.keymap.PrevTab):
		if !m.showHelp {
			return switchTabCmd(TabID((int(m.activeTab) - 1 + len(m.tabs)) % len(m.tabs)))
		}
		return nil

	case key.Matches(msg, m.keymap.Refresh):
		return refreshCmd()

	case key.Matches(msg, m.keymap.Escape):
		if m.showHelp {
			m.showHelp = false
			return nil
		}
	}

	return nil
}

// View renders the application UI.
func (m *Model) View() string {
	var b strings.Builder

	if m.width > 0 {
		b.WriteString(m.renderNavbar())
		b.WriteString("\n")
		b.WriteString(m.renderFilterSummary())
		b.WriteString("\n")
	}

	if !m.ready {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		b.WriteString(m.tabs[m.activeTab].View())
	} else {
		b.WriteString(m.renderPlaceholder())
	}

	mainView := b.String()

	if m.showFilter && m.form != nil {
		mainView = m.overlayCentered(mainView, m.form.View())
	}

	if m.showHelp {
		mainView = m.overlayCentered(mainView, m.renderHelp())
	}

	notifications := m.renderNotifications()
	if len(notifications) > 0 {
		return m.overlayToasts(mainView, notifications)
	}

	return mainView
}

func (m *Model) renderNavbar() string {
	var tabs []string

	for i, name := range m.tabNames {
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(fmt.Sprintf("[%d] %s", i+1, name)))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(fmt.Sprintf(" %d  %s", i+1, name)))
		}
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return m.styles.TabBar.Width(m.width).Render(tabBar)
}

// renderFilterSummary shows the active window, office restriction, and the
// canonical query string for the current filter.
func (m *Model) renderFilterSummary() string {
	f := m.state.Filter()

	window := fmt.Sprintf("%s → %s",
		f.Range.From.UTC().Format("2006-01-02"),
		f.Range.To.UTC().Format("2006-01-02"))

	offices := m.state.OfficeName(f.SourceOfficeID)
	if f.DestinationOfficeID != models.AllOffices || f.SourceOfficeID != models.AllOffices {
		offices = fmt.Sprintf("%s → %s",
			m.state.OfficeName(f.SourceOfficeID),
			m.state.OfficeName(f.DestinationOfficeID))
	}

	parts := []string{window, offices}
	if m.state.Status() == StatusError {
		parts = append(parts, m.styles.Error.Render("load failed"))
	} else if _, cached := m.state.ReportAge(); cached {
		parts = append(parts, m.styles.Warning.Render("cached"))
	}

	return styles.FilterSummaryStyle.Render("  " + strings.Join(parts, " · "))
}

func (m *Model) renderNotifications() []string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return nil
	}

	var toasts []string
	for _, n := range notifications {
		var style lipgloss.Style
		var prefix string

		switch n.Type {
		case NotificationSuccess:
			style = m.styles.NotificationSuccess
			prefix = "[OK]"
		case NotificationError:
			style = m.styles.NotificationError
			prefix = "[ERR]"
		case NotificationWarning:
			style = m.styles.NotificationWarning
			prefix = "[WARN]"
		case NotificationInfo:
			style = m.styles.NotificationInfo
			prefix = "[INFO]"
		case NotificationLoading:
			style = m.styles.NotificationInfo
			prefix = m.spinner.View()
		}

		content := style.Render(fmt.Sprintf("%s %s", prefix, n.Message))
		toasts = append(toasts, m.styles.Toast.Render(content))
	}

	return toasts
}

func (m *Model) overlayCentered(mainView string, overlay string) string {
	mainLines := strings.Split(mainView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	overlayHeight := len(overlayLines)
	overlayWidth := lipgloss.Width(overlay)

	y := (m.height - overlayHeight) / 2
	x := (m.width - overlayWidth) / 2

	if y < 0 {
		y = 0
	}
	if x < 0 {
		x = 0
	}

	for i, overlayLine := range overlayLines {
		mainY := y + i
		if mainY >= len(mainLines) {
			break
		}

		mainLine := mainLines[mainY]

		left := ansi.Truncate(mainLine, x, "")
		right := ansi.TruncateLeft(mainLine, x+overlayWidth, "")

		if lipgloss.Width(left) < x {
			left += strings.Repeat(" ", x-lipgloss.Width(left))
		}

		mainLines[mainY] = left + overlayLine + right
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) overlayToasts(mainView string, toasts []string) string {
	if len(toasts) == 0 {
		return mainView
	}

	toastStack := lipgloss.JoinVertical(lipgloss.Right, toasts...)
	toastLines := strings.Split(toastStack, "\n")
	mainLines := strings.Split(mainView, "\n")

	toastWidth := lipgloss.Width(toastStack)
	startX := max(m.width-toastWidth-2, 0)

	startY := 2

	for i, toastLine := range toastLines {
		lineIdx := startY + i
		if lineIdx >= len(mainLines) {
			break
		}

		mainLine := mainLines[lineIdx]
		mainLineWidth := lipgloss.Width(mainLine)

		if mainLineWidth < startX {
			padding := strings.Repeat(" ", startX-mainLineWidth)
			mainLines[lineIdx] = mainLine + padding + toastLine
		} else {
			truncated := ansi.Truncate(mainLine, startX, "")
			mainLines[lineIdx] = truncated + toastLine
		}
	}

	return strings.Join(mainLines, "\n")
}

func (m *Model) renderHelp() string {
	var lines []string

	lines = append(lines, m.styles.Title.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Navigation"))
	lines = append(lines, "  1-3        Switch tabs")
	lines = append(lines, "  Tab        Next tab")
	lines = append(lines, "  Shift+Tab  Previous tab")
	lines = append(lines, "")

	lines = append(lines, m.styles.Highlight.Render("Actions"))
	lines = append(lines, "  f          Edit filter")
	lines = append(lines, "  c          Show query string")
	lines = append(lines, "  r          Refresh report")
	lines = append(lines, "  ?          Toggle help")
	lines = append(lines, "  q/Ctrl+C   Quit")
	lines = append(lines, "")

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		tabHelp := m.tabs[m.activeTab].ShortHelp()
		if len(tabHelp) > 0 {
			lines = append(lines, m.styles.Highlight.Render(fmt.Sprintf("%s Tab", m.tabNames[m.activeTab])))
			for _, binding := range tabHelp {
				lines = append(lines, fmt.Sprintf("  %-10s %s", binding.Help().Key, binding.Help().Desc))
			}
		}
	}

	lines = append(lines, "")
	lines = append(lines, m.styles.Subtle.Render("Press ? or Esc to close"))

	return styles.HelpPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderPlaceholder() string {
	content := fmt.Sprintf(
		"Tab %d: %s\n\n%s",
		m.activeTab+1,
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not yet implemented."),
	)
	return m.styles.Content.Render(content)
}
