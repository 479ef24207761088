// Package presentation reshapes report projections into chart-ready series.
// Everything here is pure so the analytics math stays testable without a
// rendering surface.
package presentation

import (
	"fmt"

	"delivery-insight-tui/internal/analytics"
	"delivery-insight-tui/internal/models"
)

// TopRouteCount is how many routes the ranking views show.
const TopRouteCount = 10

// MonthlySeries is the dual-axis series for the monthly trend chart: the
// on-time rate on a 0–100 scale and the average delivery time in hours,
// unscaled, both aligned with Labels.
type MonthlySeries struct {
	Labels    []string
	Rates     []float64
	Durations []float64
	Totals    []float64
}

// Monthly maps monthly buckets into the dual-axis series. Bucket order is
// preserved; the engine already sorts chronologically.
func Monthly(buckets []models.MonthlyBucket) MonthlySeries {
	s := MonthlySeries{
		Labels:    make([]string, 0, len(buckets)),
		Rates:     make([]float64, 0, len(buckets)),
		Durations: make([]float64, 0, len(buckets)),
		Totals:    make([]float64, 0, len(buckets)),
	}
	for _, b := range buckets {
		s.Labels = append(s.Labels, fmt.Sprintf("%04d-%02d", b.Year, b.Month))
		s.Rates = append(s.Rates, b.OnTimeRate*100)
		s.Durations = append(s.Durations, b.AvgDeliveryTimeHours)
		s.Totals = append(s.Totals, float64(b.TotalConsignments))
	}
	return s
}

// RouteSeries is the top-N route ranking ready for the bar chart.
type RouteSeries struct {
	Labels []string
	Totals []float64
	Rates  []float64
	Routes []models.RouteStat
}

// Routes ranks the routes by volume and keeps the first TopRouteCount. The
// underlying sort is stable, so equal-volume routes keep their order.
func Routes(stats []models.RouteStat) RouteSeries {
	top := analytics.TopRoutes(stats, TopRouteCount)
	s := RouteSeries{
		Labels: make([]string, 0, len(top)),
		Totals: make([]float64, 0, len(top)),
		Rates:  make([]float64, 0, len(top)),
		Routes: top,
	}
	for _, r := range top {
		s.Labels = append(s.Labels, r.RouteLabel)
		s.Totals = append(s.Totals, float64(r.TotalConsignments))
		s.Rates = append(s.Rates, r.OnTimeRate*100)
	}
	return s
}

// StatusSeries is the status breakdown for the summary view, in fixed
// status order.
type StatusSeries struct {
	Labels []string
	Counts []float64
}

// Statuses maps the summary status counts into bars. The order is the fixed
// lifecycle order, never map iteration order.
func Statuses(summary models.PerformanceSummary) StatusSeries {
	s := StatusSeries{
		Labels: make([]string, 0, len(models.Statuses)),
		Counts: make([]float64, 0, len(models.Statuses)),
	}
	for _, status := range models.Statuses {
		s.Labels = append(s.Labels, string(status))
		s.Counts = append(s.Counts, float64(summary.StatusCounts[status]))
	}
	return s
}
