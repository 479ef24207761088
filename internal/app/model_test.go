package app

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"delivery-insight-tui/internal/config"
	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
	"delivery-insight-tui/internal/services"
)

func testFilter(reportType models.ReportType, days int) filter.State {
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	return filter.State{
		Range:               models.DateRange{From: to.AddDate(0, 0, -days), To: to},
		SourceOfficeID:      models.AllOffices,
		DestinationOfficeID: models.AllOffices,
		ReportType:          reportType,
	}
}

func performanceReport(total int) *models.ReportData {
	return &models.ReportData{
		Performance: &models.PerformanceSummary{TotalConsignments: total},
	}
}

func newTestModel(f filter.State) *Model {
	return NewModel(nil, NewState(f))
}

func TestTabIDReportTypeRoundTrip(t *testing.T) {
	for _, tab := range []TabID{TabPerformance, TabMonthly, TabRoutes} {
		if got := TabForReport(tab.ReportType()); got != tab {
			t.Errorf("TabForReport(%v.ReportType()) = %v", tab, got)
		}
	}
}

func TestApplyFilterSupersedesInFlightRequest(t *testing.T) {
	f1 := testFilter(models.ReportPerformance, 30)
	f2 := testFilter(models.ReportPerformance, 7)

	m := newTestModel(f1)
	m.Update(ApplyFilterMsg{Filter: f1})
	firstGen := m.FetchGeneration()
	m.Update(ApplyFilterMsg{Filter: f2})
	secondGen := m.FetchGeneration()

	if secondGen <= firstGen {
		t.Fatalf("generation did not advance: %d then %d", firstGen, secondGen)
	}

	// The second request resolves first.
	m.Update(ReportLoadedMsg{
		Gen:    secondGen,
		Filter: f2,
		Report: performanceReport(7),
	})

	// The first, superseded request resolves late and must be dropped.
	m.Update(ReportLoadedMsg{
		Gen:    firstGen,
		Filter: f1,
		Report: performanceReport(30),
	})

	report, reportFilter := m.GetState().Report()
	if report == nil || report.Performance.TotalConsignments != 7 {
		t.Fatalf("late stale result overwrote the current report: %+v", report)
	}
	if !reportFilter.Equal(f2) {
		t.Errorf("report filter = %+v, want the second filter", reportFilter)
	}
	if m.GetState().Status() != StatusIdle {
		t.Errorf("status = %v, want StatusIdle", m.GetState().Status())
	}
}

func TestStaleErrorIsDropped(t *testing.T) {
	f1 := testFilter(models.ReportPerformance, 30)
	f2 := testFilter(models.ReportPerformance, 7)

	m := newTestModel(f1)
	m.Update(ApplyFilterMsg{Filter: f1})
	firstGen := m.FetchGeneration()
	m.Update(ApplyFilterMsg{Filter: f2})

	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f2,
		Report: performanceReport(7),
	})
	m.Update(ReportLoadedMsg{Gen: firstGen, Filter: f1, Err: errors.New("timeout")})

	if m.GetState().Status() != StatusIdle {
		t.Errorf("stale error changed the status to %v", m.GetState().Status())
	}
	if m.GetState().LastError() != "" {
		t.Errorf("stale error was recorded: %q", m.GetState().LastError())
	}
}

func TestFailedFetchKeepsPreviousReport(t *testing.T) {
	f := testFilter(models.ReportPerformance, 30)
	m := newTestModel(f)

	m.Update(ApplyFilterMsg{Filter: f})
	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f,
		Report: performanceReport(30),
	})

	m.Update(RefreshMsg{})
	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f,
		Err:    errors.New("connection refused"),
	})

	report, _ := m.GetState().Report()
	if report == nil || report.Performance.TotalConsignments != 30 {
		t.Error("failed refetch discarded the previous report")
	}
	if m.GetState().Status() != StatusError {
		t.Errorf("status = %v, want StatusError", m.GetState().Status())
	}
}

func TestSwitchTabReusesSnapshotForSameWindow(t *testing.T) {
	f := testFilter(models.ReportPerformance, 30)
	m := newTestModel(f)

	m.Update(ApplyFilterMsg{Filter: f})
	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f,
		Report: performanceReport(30),
	})

	// Monthly section arrives for the same window.
	m.Update(ApplyFilterMsg{Filter: f.WithReportType(models.ReportMonthly)})
	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f.WithReportType(models.ReportMonthly),
		Report: &models.ReportData{Monthly: []models.MonthlyBucket{{Year: 2024, Month: 6}}},
	})

	// Switching back to performance must not refetch: the snapshot still
	// has the performance section for this window.
	before := m.FetchGeneration()
	m.switchTab(TabPerformance)
	if m.FetchGeneration() != before {
		t.Error("tab switch refetched despite a usable snapshot")
	}
	if m.GetState().Filter().ReportType != models.ReportPerformance {
		t.Errorf("filter report type = %v after tab switch", m.GetState().Filter().ReportType)
	}

	report, _ := m.GetState().Report()
	if !report.Has(models.ReportPerformance) || !report.Has(models.ReportMonthly) {
		t.Error("snapshot lost a section after the same-window fetch")
	}
}

func TestSwitchTabRefetchesMissingSection(t *testing.T) {
	f := testFilter(models.ReportPerformance, 30)
	m := newTestModel(f)

	m.Update(ApplyFilterMsg{Filter: f})
	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f,
		Report: performanceReport(30),
	})

	before := m.FetchGeneration()
	m.switchTab(TabRoutes)
	if m.FetchGeneration() == before {
		t.Error("tab switch did not request the missing routes section")
	}
	if m.GetState().Status() != StatusLoading {
		t.Errorf("status = %v, want StatusLoading", m.GetState().Status())
	}
}

func TestNewFilterWindowInvalidatesSnapshot(t *testing.T) {
	f1 := testFilter(models.ReportPerformance, 30)
	m := newTestModel(f1)

	m.Update(ApplyFilterMsg{Filter: f1})
	m.Update(ReportLoadedMsg{
		Gen:    m.FetchGeneration(),
		Filter: f1,
		Report: performanceReport(30),
	})

	f2 := testFilter(models.ReportPerformance, 7)
	if m.GetState().HasReportFor(f2) {
		t.Error("snapshot for the 30-day window claimed to answer the 7-day window")
	}
}

// testManager builds a manager over a one-consignment records file and a
// temp-dir sqlite cache.
func testManager(t *testing.T) *services.Manager {
	t.Helper()
	dir := t.TempDir()

	scheduled := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	actual := scheduled.Add(2 * time.Hour)
	file := map[string]any{
		"offices": []models.Office{
			{ID: "of-1", Name: "Madrid Central"},
			{ID: "of-2", Name: "Barcelona Norte"},
		},
		"consignments": []models.ConsignmentRecord{
			{ID: "c1", SourceOfficeID: "of-1", DestinationOfficeID: "of-2",
				ScheduledDelivery: scheduled, ActualDelivery: &actual, Status: models.StatusDelivered},
		},
	}
	data, err := json.Marshal(file)
	if err != nil {
		t.Fatal(err)
	}
	recordsPath := filepath.Join(dir, "consignments.json")
	if err := os.WriteFile(recordsPath, data, 0o600); err != nil {
		t.Fatal(err)
	}

	mgr, err := services.NewManager(&config.Config{
		RecordsPath:     recordsPath,
		DatabasePath:    filepath.Join(dir, "reports.db"),
		OnTimeThreshold: 24 * time.Hour,
		RequestTimeout:  2 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	mgr.SetNotifications(false)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func TestInitShowsCachedReportBeforeFirstFetch(t *testing.T) {
	mgr := testManager(t)
	f := testFilter(models.ReportPerformance, 30)

	// A previous session fetched this view and cached it.
	if _, err := mgr.FetchReport(f); err != nil {
		t.Fatalf("FetchReport: %v", err)
	}

	m := NewModel(mgr, NewState(f))
	_ = m.Init()

	report, reportFilter := m.GetState().Report()
	if report == nil || !report.Has(models.ReportPerformance) {
		t.Fatal("cached report not shown at startup")
	}
	if !reportFilter.Equal(f) {
		t.Errorf("warm report filter = %+v, want the startup filter", reportFilter)
	}
	if _, cached := m.GetState().ReportAge(); !cached {
		t.Error("warm-start report not flagged as cached")
	}
	if m.GetState().IsInitialLoading() {
		t.Error("initial spinner still up over a warm report")
	}
	// The superseding fetch is still in flight.
	if m.GetState().Status() != StatusLoading {
		t.Errorf("status = %v, want StatusLoading", m.GetState().Status())
	}

	// Its result clears the cached flag.
	m.Update(ReportLoadedMsg{
		Gen:       m.FetchGeneration(),
		Filter:    f,
		Report:    performanceReport(1),
		FetchedAt: time.Now(),
	})
	if _, cached := m.GetState().ReportAge(); cached {
		t.Error("fresh fetch left the snapshot flagged as cached")
	}
}

func TestInitWithColdCacheKeepsSpinner(t *testing.T) {
	mgr := testManager(t)
	f := testFilter(models.ReportPerformance, 30)

	m := NewModel(mgr, NewState(f))
	_ = m.Init()

	if report, _ := m.GetState().Report(); report != nil {
		t.Error("cold cache produced a report at startup")
	}
	if !m.GetState().IsInitialLoading() {
		t.Error("cold start should keep the initial spinner")
	}
}

func TestNavigationKeysEmitMessages(t *testing.T) {
	m := newTestModel(testFilter(models.ReportPerformance, 30))

	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	if cmd == nil {
		t.Fatal("tab key produced no command")
	}
	msg, ok := cmd().(TabSwitchMsg)
	if !ok || msg.Tab != TabMonthly {
		t.Fatalf("tab key produced %v, want TabSwitchMsg{TabMonthly}", msg)
	}
	m.Update(msg)
	if m.activeTab != TabMonthly {
		t.Errorf("active tab = %v after switch message", m.activeTab)
	}
	if m.GetState().Filter().ReportType != models.ReportMonthly {
		t.Errorf("filter report type = %v after switch", m.GetState().Filter().ReportType)
	}

	cmd = m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("refresh key produced no command")
	}
	if _, ok := cmd().(RefreshMsg); !ok {
		t.Error("refresh key should emit RefreshMsg")
	}
}

func TestCachedResultMarksSnapshot(t *testing.T) {
	f := testFilter(models.ReportPerformance, 30)
	m := newTestModel(f)

	fetched := time.Date(2024, 6, 29, 12, 0, 0, 0, time.UTC)
	m.Update(ApplyFilterMsg{Filter: f})
	m.Update(ReportLoadedMsg{
		Gen:       m.FetchGeneration(),
		Filter:    f,
		Report:    performanceReport(30),
		FetchedAt: fetched,
		FromCache: true,
		Err:       errors.New("connection refused"),
	})

	at, cached := m.GetState().ReportAge()
	if !cached {
		t.Error("cached result not flagged as cached")
	}
	if !at.Equal(fetched) {
		t.Errorf("fetched at = %v, want %v", at, fetched)
	}
	// A cached fallback is still a usable report.
	if m.GetState().Status() != StatusIdle {
		t.Errorf("status = %v, want StatusIdle", m.GetState().Status())
	}
}
