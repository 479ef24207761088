package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Init")

	s.SetLabel("Loading report")
	if s.Label() != "Loading report" {
		t.Errorf("Label = %s, want Loading report", s.Label())
	}

	if s.View() == "" {
		t.Error("View returned empty")
	}
	if s.ViewWithLabel() == "" {
		t.Error("ViewWithLabel returned empty")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}
	if s.Tick() == nil {
		t.Error("Tick should return command")
	}

	_, cmd := s.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading...")
	view := RenderSpinnerCentered(s, 20, 5)
	if view == "" {
		t.Error("RenderSpinnerCentered returned empty")
	}
}

func TestRenderDualLineChart(t *testing.T) {
	rates := []float64{50, 66.7, 80}
	durations := []float64{30.5, 22.1, 18}
	s := RenderDualLineChart(rates, durations, 20, 5, "Monthly trend")
	if s == "" {
		t.Error("RenderDualLineChart returned empty")
	}
}

func TestRenderDualLineChart_Empty(t *testing.T) {
	s := RenderDualLineChart(nil, nil, 20, 5, "Monthly trend")
	if !strings.Contains(s, "No data") {
		t.Errorf("empty chart = %q, want no-data message", s)
	}
}

func TestRenderDualLineChart_UnevenSeries(t *testing.T) {
	// Shorter series is zero-padded rather than rejected.
	s := RenderDualLineChart([]float64{1, 2, 3}, []float64{4}, 20, 5, "")
	if s == "" {
		t.Error("RenderDualLineChart returned empty for uneven series")
	}
}

func TestRenderBarChart(t *testing.T) {
	values := []float64{42, 17}
	labels := []string{"MAD → BCN", "BCN → VLC"}
	s := RenderBarChart(values, labels, 40)
	if s == "" {
		t.Error("RenderBarChart returned empty")
	}
	if !strings.Contains(s, "42.0") {
		t.Errorf("bar chart missing value: %q", s)
	}
}

func TestRenderBarChart_AllZero(t *testing.T) {
	s := RenderBarChart([]float64{0, 0}, []string{"A", "B"}, 30)
	if s == "" {
		t.Error("RenderBarChart returned empty for zero values")
	}
}

func TestRenderSparkline(t *testing.T) {
	data := []float64{1, 2, 3}
	s := RenderSparkline(data, 10)
	if s == "" {
		t.Error("RenderSparkline returned empty")
	}
}

func TestRenderLegend(t *testing.T) {
	items := []LegendItem{
		{Label: "On-time rate", Color: ChartRateColor},
		{Label: "Avg duration", Color: lipgloss.Color("#ffffff")},
	}
	s := RenderLegend(items)
	if !strings.Contains(s, "On-time rate") {
		t.Errorf("legend missing label: %q", s)
	}
}
