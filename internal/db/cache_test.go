package db

import (
	"path/filepath"
	"testing"
	"time"

	"delivery-insight-tui/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestOfficesRoundTrip(t *testing.T) {
	database := testDB(t)

	offices := []models.Office{
		{ID: "ank", Name: "Ankara Hub"},
		{ID: "ist", Name: "Istanbul Hub"},
		{ID: "izm", Name: "Izmir Depot"},
	}
	if err := database.SaveOffices(offices); err != nil {
		t.Fatalf("SaveOffices: %v", err)
	}

	got, err := database.LoadOffices()
	if err != nil {
		t.Fatalf("LoadOffices: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("LoadOffices returned %d entries, want 3", len(got))
	}
	for i := range offices {
		if got[i] != offices[i] {
			t.Errorf("office %d = %+v, want %+v (order must survive)", i, got[i], offices[i])
		}
	}

	// Saving again replaces, never appends.
	if err := database.SaveOffices(offices[:1]); err != nil {
		t.Fatalf("SaveOffices (replace): %v", err)
	}
	got, err = database.LoadOffices()
	if err != nil {
		t.Fatalf("LoadOffices: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("replace left %d entries, want 1", len(got))
	}
}

func TestReportCacheRoundTrip(t *testing.T) {
	database := testDB(t)

	report := &models.ReportData{
		Performance: &models.PerformanceSummary{
			TotalConsignments: 12,
			OnTimeDeliveries:  9,
			LateDeliveries:    2,
			OnTimeRate:        9.0 / 11.0,
			StatusCounts: map[models.Status]int{
				models.StatusDelivered: 11,
				models.StatusPending:   1,
			},
		},
	}
	query := "endDate=2024-02-01T00%3A00%3A00Z&reportType=performance&startDate=2024-01-01T00%3A00%3A00Z"
	fetchedAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

	if err := database.SaveReport(query, report, fetchedAt); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, ts, err := database.LoadReport(query)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if got == nil || got.Performance == nil {
		t.Fatal("cached report lost its performance section")
	}
	if got.Performance.TotalConsignments != 12 {
		t.Errorf("TotalConsignments = %d, want 12", got.Performance.TotalConsignments)
	}
	if !ts.Equal(fetchedAt) {
		t.Errorf("fetchedAt = %v, want %v", ts, fetchedAt)
	}
}

func TestReportCacheMiss(t *testing.T) {
	database := testDB(t)

	got, ts, err := database.LoadReport("reportType=monthly")
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if got != nil || !ts.IsZero() {
		t.Error("cache miss should return nil report and zero time")
	}
}

func TestReportCacheUpsertAndPrune(t *testing.T) {
	database := testDB(t)
	query := "reportType=routes"

	old := &models.ReportData{Routes: []models.RouteStat{{RouteLabel: "A → B"}}}
	if err := database.SaveReport(query, old, time.Now().Add(-48*time.Hour)); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	fresh := &models.ReportData{Routes: []models.RouteStat{{RouteLabel: "B → A"}}}
	if err := database.SaveReport(query, fresh, time.Now()); err != nil {
		t.Fatalf("SaveReport (upsert): %v", err)
	}

	got, _, err := database.LoadReport(query)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if len(got.Routes) != 1 || got.Routes[0].RouteLabel != "B → A" {
		t.Errorf("upsert did not replace payload: %+v", got.Routes)
	}

	if err := database.SaveReport("reportType=stale", old, time.Now().Add(-72*time.Hour)); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	pruned, err := database.PruneReports(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneReports: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned %d entries, want 1", pruned)
	}
	if got, _, _ := database.LoadReport("reportType=stale"); got != nil {
		t.Error("stale entry should be gone")
	}
}
