package filter

import (
	"strings"
	"testing"
	"time"

	"delivery-insight-tui/internal/models"
)

func TestDefault(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	s := Default(now)

	if s.ReportType != models.ReportPerformance {
		t.Errorf("default report type = %s", s.ReportType)
	}
	if s.SourceOfficeID != models.AllOffices || s.DestinationOfficeID != models.AllOffices {
		t.Error("default offices should be unrestricted")
	}
	if got := s.Range.To.Sub(s.Range.From); got != DefaultWindow {
		t.Errorf("default window = %v, want %v", got, DefaultWindow)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default state should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*State)
		wantErr bool
	}{
		{"default ok", func(*State) {}, false},
		{"inverted range", func(s *State) { s.Range.From, s.Range.To = s.Range.To, s.Range.From }, true},
		{"missing from", func(s *State) { s.Range.From = time.Time{} }, true},
		{"bad report type", func(s *State) { s.ReportType = "hourly" }, true},
		{"same office both sides", func(s *State) {
			s.SourceOfficeID = "ank"
			s.DestinationOfficeID = "ank"
		}, true},
		{"all on both sides ok", func(s *State) {
			s.SourceOfficeID = models.AllOffices
			s.DestinationOfficeID = models.AllOffices
		}, false},
		{"specific route ok", func(s *State) {
			s.SourceOfficeID = "ank"
			s.DestinationOfficeID = "ist"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default(now)
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	states := []State{
		Default(time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)),
		{
			Range: models.DateRange{
				From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC),
			},
			SourceOfficeID:      "ank",
			DestinationOfficeID: "ist",
			ReportType:          models.ReportRoutes,
		},
		{
			Range: models.DateRange{
				From: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
			},
			SourceOfficeID:      "izm",
			DestinationOfficeID: models.AllOffices,
			ReportType:          models.ReportMonthly,
		},
	}

	for _, want := range states {
		encoded := want.Encode()
		got, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%q): %v", encoded, err)
		}
		if !got.Equal(want) {
			t.Errorf("round trip changed the state:\n got %+v\nwant %+v", got, want)
		}
		// Idempotent re-encode.
		if again := got.Encode(); again != encoded {
			t.Errorf("re-encode differs:\n got %q\nwant %q", again, encoded)
		}
	}
}

func TestEncodeOmitsAllOffices(t *testing.T) {
	s := Default(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	encoded := s.Encode()
	if strings.Contains(encoded, ParamSourceOffice) || strings.Contains(encoded, ParamDestinationOffice) {
		t.Errorf("unrestricted offices must be omitted, got %q", encoded)
	}

	s.SourceOfficeID = "ank"
	if !strings.Contains(s.Encode(), "sourceOffice=ank") {
		t.Errorf("specific office missing from %q", s.Encode())
	}
}

func TestDecodeDefaultsAndErrors(t *testing.T) {
	// Missing report type falls back to performance, missing offices to all.
	s, err := Decode("startDate=2024-01-01&endDate=2024-02-01")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.ReportType != models.ReportPerformance {
		t.Errorf("report type = %s, want performance", s.ReportType)
	}
	if s.SourceOfficeID != models.AllOffices {
		t.Errorf("source office = %s, want all", s.SourceOfficeID)
	}

	bad := []string{
		"",
		"startDate=2024-01-01",
		"startDate=nope&endDate=2024-02-01",
		"startDate=2024-03-01&endDate=2024-02-01",
		"startDate=2024-01-01&endDate=2024-02-01&reportType=yearly",
		"startDate=2024-01-01&endDate=2024-02-01&sourceOffice=ank&destinationOffice=ank",
	}
	for _, q := range bad {
		if _, err := Decode(q); err == nil {
			t.Errorf("Decode(%q) should fail", q)
		}
	}
}

func TestWithReportTypeAndSameWindow(t *testing.T) {
	s := Default(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	switched := s.WithReportType(models.ReportRoutes)

	if switched.ReportType != models.ReportRoutes {
		t.Error("report type not switched")
	}
	if !s.SameWindow(switched) {
		t.Error("tab switch must not touch the window")
	}
	if s.Equal(switched) {
		t.Error("states with different report types are not equal")
	}

	other := switched
	other.SourceOfficeID = "ank"
	if switched.SameWindow(other) {
		t.Error("office change must change the window identity")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-10", true)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2024, 2, 10, 23, 59, 59, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("end-of-day = %v, want %v", got, want)
	}

	start, err := ParseDate("2024-02-10", false)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !start.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start date = %v", start)
	}

	if _, err := ParseDate("10/02/2024", false); err == nil {
		t.Error("unsupported format should fail")
	}
}
