package monthly

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"delivery-insight-tui/internal/app"
	"delivery-insight-tui/internal/presentation"
	"delivery-insight-tui/internal/ui/components"
	"delivery-insight-tui/internal/ui/styles"
)

// View renders the monthly trend tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	report, _ := m.state.Report()
	if report == nil || len(report.Monthly) == 0 {
		return m.renderEmpty()
	}

	series := presentation.Monthly(report.Monthly)

	sections := []string{
		m.renderTitle(),
		m.renderTrendCard(series),
		m.renderTableCard(series),
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
	return styles.CenterBoth(styles.HelpStyle.Render("No monthly data for this filter"), m.width, m.height)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Monthly Trend")
	subtitle := styles.HelpStyle.Render("On-time rate and average delivery time per month")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderTrendCard(series presentation.MonthlySeries) string {
	cardWidth := max(m.width-6, 40)
	chartWidth := max(cardWidth-12, 20)

	caption := ""
	if len(series.Labels) > 0 {
		caption = fmt.Sprintf("%s .. %s", series.Labels[0], series.Labels[len(series.Labels)-1])
	}

	chart := components.RenderDualLineChart(series.Rates, series.Durations, chartWidth, 8, caption)
	legend := components.RenderLegend([]components.LegendItem{
		{Label: "On-time rate (%)", Color: components.ChartRateColor},
		{Label: "Avg delivery (h)", Color: components.ChartDurationColor},
	})

	rows := []string{
		styles.CardTitleStyle.Render("Trend"),
		chart,
		"",
		legend,
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTableCard(series presentation.MonthlySeries) string {
	cardWidth := max(m.width-6, 40)

	header := fmt.Sprintf("%-9s %12s %12s %12s", "Month", "Deliveries", "On-time", "Avg time")
	rows := []string{
		styles.CardTitleStyle.Render("By Month"),
		styles.TableHeaderStyle.Render(header),
	}

	for i, label := range series.Labels {
		percent := series.Rates[i]
		line := fmt.Sprintf("%-9s %12s %12s %12s",
			label,
			presentation.FormatCount(int(series.Totals[i])),
			styles.GetRateStyle(percent).Render(fmt.Sprintf("%.1f%%", percent)),
			presentation.FormatHours(series.Durations[i]),
		)
		rows = append(rows, line)
	}

	spark := lipgloss.NewStyle().
		Foreground(components.ChartVolumeColor).
		Render(components.RenderSparkline(series.Totals, len(series.Totals)))
	rows = append(rows, "", styles.HelpStyle.Render("Volume ")+spark)

	return styles.CardStyle.Width(cardWidth).Render(strings.Join(rows, "\n"))
}
