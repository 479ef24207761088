package models

import (
	"testing"
	"time"
)

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if Status("shipped").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestReportTypeValid(t *testing.T) {
	for _, rt := range ReportTypes {
		if !rt.Valid() {
			t.Errorf("report type %q should be valid", rt)
		}
		if rt.Title() == "Unknown" {
			t.Errorf("report type %q has no title", rt)
		}
	}
	if ReportType("weekly").Valid() {
		t.Error("unknown report type should not be valid")
	}
}

func TestDateRange(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	r := DateRange{From: from, To: to}
	if !r.Valid() {
		t.Error("range should be valid")
	}
	if !r.Contains(from) || !r.Contains(to) {
		t.Error("range should include both ends")
	}
	if r.Contains(to.Add(time.Second)) {
		t.Error("range should exclude times after To")
	}

	if (DateRange{From: to, To: from}).Valid() {
		t.Error("inverted range should be invalid")
	}
	if (DateRange{From: from}).Valid() {
		t.Error("open-ended range should be invalid")
	}
}

func TestConsignmentDeliveryDuration(t *testing.T) {
	scheduled := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	actual := scheduled.Add(5 * time.Hour)

	rec := ConsignmentRecord{ScheduledDelivery: scheduled, ActualDelivery: &actual, Status: StatusDelivered}
	d, ok := rec.DeliveryDuration()
	if !ok || d != 5*time.Hour {
		t.Errorf("DeliveryDuration = %v, %v; want 5h, true", d, ok)
	}
	if !rec.Delivered() {
		t.Error("record should count as delivered")
	}

	pending := ConsignmentRecord{ScheduledDelivery: scheduled, Status: StatusPending}
	if _, ok := pending.DeliveryDuration(); ok {
		t.Error("pending record has no delivery duration")
	}
}

func TestReportDataHasAndMerge(t *testing.T) {
	var nilReport *ReportData
	if nilReport.Has(ReportPerformance) {
		t.Error("nil report has no sections")
	}

	r := &ReportData{Performance: &PerformanceSummary{TotalConsignments: 3}}
	if !r.Has(ReportPerformance) || r.Has(ReportMonthly) || r.Has(ReportRoutes) {
		t.Error("only the performance section should be present")
	}

	r.Merge(&ReportData{Monthly: []MonthlyBucket{{Year: 2024, Month: 2}}})
	if !r.Has(ReportPerformance) || !r.Has(ReportMonthly) {
		t.Error("merge should keep existing sections and add new ones")
	}
	r.Merge(nil)
	if !r.Has(ReportMonthly) {
		t.Error("merging nil should be a no-op")
	}
}

func TestOfficeDirectory(t *testing.T) {
	dir := NewOfficeDirectory([]Office{
		{ID: "ank", Name: "Ankara Hub"},
		{ID: "ist", Name: "Istanbul Hub"},
	})

	if dir.Len() != 2 {
		t.Fatalf("Len = %d, want 2", dir.Len())
	}
	if got := dir.Name("ist"); got != "Istanbul Hub" {
		t.Errorf("Name(ist) = %q", got)
	}
	if got := dir.Name("izm"); got != "izm" {
		t.Errorf("unknown office should fall back to its ID, got %q", got)
	}
	offices := dir.Offices()
	if offices[0].ID != "ank" || offices[1].ID != "ist" {
		t.Error("directory should preserve order")
	}
}
