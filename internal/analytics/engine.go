// Package analytics derives the report projections from consignment records.
// All derivations are pure: the same input always produces identical output.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"delivery-insight-tui/internal/models"
)

// NameResolver maps office IDs to display names for route labels.
type NameResolver interface {
	Name(id string) string
}

// Engine turns a record set into report projections. The on-time threshold
// is injected; the engine never assumes a fixed cutoff.
type Engine struct {
	// Threshold is the maximum lateness (actual minus scheduled) for a
	// delivery to count as on time.
	Threshold time.Duration

	// Names resolves office IDs for route labels. Nil falls back to raw IDs.
	Names NameResolver
}

// New creates an engine with the given on-time threshold.
func New(threshold time.Duration, names NameResolver) *Engine {
	return &Engine{Threshold: threshold, Names: names}
}

// tally accumulates per-group delivery counters.
type tally struct {
	total     int
	onTime    int
	late      int
	delivered int
	sumHours  float64
}

func (t *tally) add(rec models.ConsignmentRecord, threshold time.Duration) {
	t.total++
	d, ok := rec.DeliveryDuration()
	if rec.Status != models.StatusDelivered || !ok {
		return
	}
	t.delivered++
	t.sumHours += d.Hours()
	if d <= threshold {
		t.onTime++
	} else {
		t.late++
	}
}

// rate returns onTime/(onTime+late), defined as 0 when no delivery has been
// classified, never NaN.
func (t *tally) rate() float64 {
	den := t.onTime + t.late
	if den == 0 {
		return 0
	}
	return float64(t.onTime) / float64(den)
}

func (t *tally) avgHours() float64 {
	if t.delivered == 0 {
		return 0
	}
	return t.sumHours / float64(t.delivered)
}

// Filter returns the records inside the reporting window that match the
// office filters. Windowing is by scheduled delivery; models.AllOffices
// disables the corresponding office restriction.
func Filter(records []models.ConsignmentRecord, window models.DateRange, sourceID, destinationID string) []models.ConsignmentRecord {
	var out []models.ConsignmentRecord
	for _, rec := range records {
		if !window.Contains(rec.ScheduledDelivery) {
			continue
		}
		if sourceID != models.AllOffices && sourceID != "" && rec.SourceOfficeID != sourceID {
			continue
		}
		if destinationID != models.AllOffices && destinationID != "" && rec.DestinationOfficeID != destinationID {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Summary produces the aggregate performance projection. Every record counts
// in TotalConsignments and StatusCounts; only delivered records with an
// actual-delivery timestamp participate in on-time accounting and in the
// delivery-time mean.
func (e *Engine) Summary(records []models.ConsignmentRecord) models.PerformanceSummary {
	var t tally
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, s := range models.Statuses {
		counts[s] = 0
	}
	for _, rec := range records {
		t.add(rec, e.Threshold)
		counts[rec.Status]++
	}
	return models.PerformanceSummary{
		TotalConsignments:    t.total,
		OnTimeDeliveries:     t.onTime,
		LateDeliveries:       t.late,
		OnTimeRate:           t.rate(),
		AvgDeliveryTimeHours: t.avgHours(),
		StatusCounts:         counts,
	}
}

// Monthly buckets records by the UTC calendar month of their scheduled
// delivery. Buckets come back ascending by (year, month) regardless of the
// input order, one bucket per month present.
func (e *Engine) Monthly(records []models.ConsignmentRecord) []models.MonthlyBucket {
	type monthKey struct {
		year  int
		month int
	}
	tallies := make(map[monthKey]*tally)
	for _, rec := range records {
		sched := rec.ScheduledDelivery.UTC()
		key := monthKey{year: sched.Year(), month: int(sched.Month())}
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
		}
		t.add(rec, e.Threshold)
	}

	keys := make([]monthKey, 0, len(tallies))
	for key := range tallies {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	buckets := make([]models.MonthlyBucket, 0, len(keys))
	for _, key := range keys {
		t := tallies[key]
		buckets = append(buckets, models.MonthlyBucket{
			Year:                 key.year,
			Month:                key.month,
			TotalConsignments:    t.total,
			OnTimeDeliveries:     t.onTime,
			LateDeliveries:       t.late,
			OnTimeRate:           t.rate(),
			AvgDeliveryTimeHours: t.avgHours(),
		})
	}
	return buckets
}

// Routes groups records by their ordered (source, destination) pair. The
// direction matters: A→B and B→A are distinct routes. Routes come back in
// first-seen order, which keeps repeated runs over the same input identical.
func (e *Engine) Routes(records []models.ConsignmentRecord) []models.RouteStat {
	type routeKey struct {
		source      string
		destination string
	}
	tallies := make(map[routeKey]*tally)
	var order []routeKey
	for _, rec := range records {
		key := routeKey{source: rec.SourceOfficeID, destination: rec.DestinationOfficeID}
		t, ok := tallies[key]
		if !ok {
			t = &tally{}
			tallies[key] = t
			order = append(order, key)
		}
		t.add(rec, e.Threshold)
	}

	stats := make([]models.RouteStat, 0, len(order))
	for _, key := range order {
		t := tallies[key]
		stats = append(stats, models.RouteStat{
			RouteLabel:           fmt.Sprintf("%s → %s", e.officeName(key.source), e.officeName(key.destination)),
			SourceOfficeID:       key.source,
			DestinationOfficeID:  key.destination,
			TotalConsignments:    t.total,
			OnTimeDeliveries:     t.onTime,
			LateDeliveries:       t.late,
			OnTimeRate:           t.rate(),
			AvgDeliveryTimeHours: t.avgHours(),
		})
	}
	return stats
}

// Report produces the projection matching the requested report type,
// mirroring the shape of a server-side report response.
func (e *Engine) Report(records []models.ConsignmentRecord, reportType models.ReportType) *models.ReportData {
	report := &models.ReportData{}
	switch reportType {
	case models.ReportPerformance:
		summary := e.Summary(records)
		report.Performance = &summary
	case models.ReportMonthly:
		report.Monthly = e.Monthly(records)
	case models.ReportRoutes:
		report.Routes = e.Routes(records)
	}
	return report
}

func (e *Engine) officeName(id string) string {
	if e.Names == nil {
		return id
	}
	return e.Names.Name(id)
}

// TopRoutes returns the n busiest routes by total consignments. The sort is
// stable: ties keep their incoming order, so ranking the same input twice
// yields the same order.
func TopRoutes(stats []models.RouteStat, n int) []models.RouteStat {
	ranked := make([]models.RouteStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalConsignments > ranked[j].TotalConsignments
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
