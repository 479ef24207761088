package performance

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"delivery-insight-tui/internal/app"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/presentation"
	"delivery-insight-tui/internal/ui/components"
	"delivery-insight-tui/internal/ui/styles"
)

// View renders the performance tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report, _ := m.state.Report()
	if report == nil || report.Performance == nil {
		return m.renderEmpty()
	}

	summary := *report.Performance

	sections := []string{
		m.renderTitle(),
		m.renderSummaryCard(summary),
		m.renderStatusCard(summary),
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
	return styles.CenterBoth(styles.HelpStyle.Render("No delivery data for this filter"), m.width, m.height)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Delivery Performance")
	subtitle := styles.HelpStyle.Render("On-time rates for the selected window")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderSummaryCard(summary models.PerformanceSummary) string {
	cardWidth := max(m.width-6, 40)

	ratePercent := summary.OnTimeRate * 100

	rows := []string{
		styles.CardTitleStyle.Render("Summary"),
		m.renderStat("Consignments", presentation.FormatCount(summary.TotalConsignments)),
		m.renderStat("On time", presentation.FormatCount(summary.OnTimeDeliveries)),
		m.renderStat("Late", presentation.FormatCount(summary.LateDeliveries)),
		m.renderStyledStat("On-time rate",
			styles.GetRateStyle(ratePercent).Render(presentation.FormatPercent(summary.OnTimeRate))),
		m.renderStat("Avg delivery time", presentation.FormatHours(summary.AvgDeliveryTimeHours)),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStatusCard(summary models.PerformanceSummary) string {
	cardWidth := max(m.width-6, 40)
	series := presentation.Statuses(summary)

	rows := []string{
		styles.CardTitleStyle.Render("Status Breakdown"),
		components.RenderBarChart(series.Counts, series.Labels, cardWidth-8),
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStat(label, value string) string {
	return fmt.Sprintf("%s %s",
		styles.StatLabelStyle.Render(label),
		styles.StatValueStyle.Render(value))
}

func (m *Model) renderStyledStat(label, rendered string) string {
	return fmt.Sprintf("%s %s", styles.StatLabelStyle.Render(label), rendered)
}
