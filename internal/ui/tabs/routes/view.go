package routes

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"delivery-insight-tui/internal/app"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/presentation"
	"delivery-insight-tui/internal/ui/components"
	"delivery-insight-tui/internal/ui/styles"
)

// View renders the routes tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report, _ := m.state.Report()
	if report == nil || len(report.Routes) == 0 {
		return m.renderEmpty()
	}

	series := presentation.Routes(report.Routes)

	sections := []string{
		m.renderTitle(),
		m.renderChartCard(series),
		m.renderRankingCard(series),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderEmpty() string {
	if m.state.Status() == app.StatusError {
		return styles.CenterBoth(
			lipgloss.NewStyle().Foreground(styles.Error).Render("Report unavailable: "+m.state.LastError()),
			m.width, m.height)
	}
	return styles.CenterBoth(styles.HelpStyle.Render("No route data for this filter"), m.width, m.height)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Busiest Routes")
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("Top %d routes by consignment volume", presentation.TopRouteCount))
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderChartCard(series presentation.RouteSeries) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{
		styles.CardTitleStyle.Render("Volume"),
		components.RenderBarChart(series.Totals, series.Labels, cardWidth-8),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRankingCard(series presentation.RouteSeries) string {
	cardWidth := max(m.width-6, 40)

	rows := []string{
		styles.CardTitleStyle.Render("Ranking"),
	}

	for i, route := range series.Routes {
		rows = append(rows, m.renderRouteRow(i, route))
		if i == m.selectedIndex {
			rows = append(rows, m.renderRouteDetail(route))
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRouteRow(rank int, route models.RouteStat) string {
	percent := route.OnTimeRate * 100

	line := fmt.Sprintf("%2d. %-28s %6s  %s",
		rank+1,
		route.RouteLabel,
		presentation.FormatCount(route.TotalConsignments),
		styles.GetRateStyle(percent).Render(presentation.FormatPercent(route.OnTimeRate)),
	)

	if rank == m.selectedIndex {
		return styles.SelectedListItemStyle.Render(line)
	}
	return styles.ListItemStyle.Render(line)
}

func (m *Model) renderRouteDetail(route models.RouteStat) string {
	detail := fmt.Sprintf("    on time %s · late %s · avg %s",
		presentation.FormatCount(route.OnTimeDeliveries),
		presentation.FormatCount(route.LateDeliveries),
		presentation.FormatHours(route.AvgDeliveryTimeHours),
	)
	return styles.HelpStyle.Render(detail)
}
