package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"delivery-insight-tui/internal/config"
	"delivery-insight-tui/internal/filter"
	"delivery-insight-tui/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	scheduled := time.Date(2024, 4, 10, 9, 0, 0, 0, time.UTC)
	actual := scheduled.Add(2 * time.Hour)
	file := map[string]any{
		"offices": []models.Office{
			{ID: "ank", Name: "Ankara Hub"},
			{ID: "ist", Name: "Istanbul Hub"},
		},
		"consignments": []models.ConsignmentRecord{
			{ID: "c1", SourceOfficeID: "ank", DestinationOfficeID: "ist",
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

	return &config.Config{
		RecordsPath:     recordsPath,
		DatabasePath:    filepath.Join(dir, "reports.db"),
		OnTimeThreshold: 24 * time.Hour,
		RequestTimeout:  2 * time.Second,
	}
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.SetNotifications(false) // no desktop popups from tests
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func testState() filter.State {
	return filter.State{
		Range: models.DateRange{
			From: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		SourceOfficeID:      models.AllOffices,
		DestinationOfficeID: models.AllOffices,
		ReportType:          models.ReportPerformance,
	}
}

func TestManagerLoadOffices(t *testing.T) {
	m := newManager(t)

	offices, err := m.LoadOffices()
	if err != nil {
		t.Fatalf("LoadOffices: %v", err)
	}
	if len(offices) != 2 {
		t.Fatalf("office count = %d, want 2", len(offices))
	}
	if got := m.Directory().Name("ank"); got != "Ankara Hub" {
		t.Errorf("directory name = %q", got)
	}
}

func TestManagerFetchAndCache(t *testing.T) {
	m := newManager(t)
	f := testState()

	report, err := m.FetchReport(f)
	if err != nil {
		t.Fatalf("FetchReport: %v", err)
	}
	if report.Performance == nil || report.Performance.TotalConsignments != 1 {
		t.Errorf("report = %+v", report.Performance)
	}

	cached, fetchedAt := m.CachedReport(f)
	if cached == nil || cached.Performance == nil {
		t.Fatal("fetch should populate the cache")
	}
	if fetchedAt.IsZero() {
		t.Error("cached report should carry its fetch time")
	}

	// A different window is a different cache entry.
	other := f
	other.Range.From = other.Range.From.AddDate(0, -1, 0)
	if miss, _ := m.CachedReport(other); miss != nil {
		t.Error("different filter must not hit the same cache entry")
	}
}

func TestManagerFailedSourceKeepsCacheUntouched(t *testing.T) {
	m := newManager(t)
	f := testState()

	if _, err := m.FetchReport(f); err != nil {
		t.Fatalf("FetchReport: %v", err)
	}

	m.mu.Lock()
	m.source = failingSource{}
	m.mu.Unlock()

	if _, err := m.FetchReport(f); err == nil {
		t.Fatal("failing source should surface an error")
	}
	if cached, _ := m.CachedReport(f); cached == nil {
		t.Error("failure must leave the previous cached report untouched")
	}
}

func TestManagerOfficesFallBackToCache(t *testing.T) {
	m := newManager(t)

	if _, err := m.LoadOffices(); err != nil {
		t.Fatalf("LoadOffices: %v", err)
	}

	m.mu.Lock()
	m.source = failingSource{}
	m.mu.Unlock()

	offices, err := m.LoadOffices()
	if err != nil {
		t.Fatalf("LoadOffices should fall back to cache: %v", err)
	}
	if len(offices) != 2 {
		t.Errorf("cached office count = %d, want 2", len(offices))
	}
}

func TestManagerSubscribe(t *testing.T) {
	m := newManager(t)

	ch := m.Subscribe()

	m.broadcast(RecordsChangedEvent{})

	select {
	case event := <-ch:
		if _, ok := event.(RecordsChangedEvent); !ok {
			t.Errorf("event = %T, want RecordsChangedEvent", event)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}

	m.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Error("unsubscribed channel should be closed")
	}
}

type failingSource struct{}

func (failingSource) Offices(context.Context) ([]models.Office, error) {
	return nil, errors.New("source down")
}

func (failingSource) Report(context.Context, filter.State) (*models.ReportData, error) {
	return nil, errors.New("source down")
}
