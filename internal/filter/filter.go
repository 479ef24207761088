// Package filter holds the report filter state and its query-string codec.
package filter

import (
	"fmt"
	"net/url"
	"time"

	"delivery-insight-tui/internal/models"
)

// Query parameter names, shared with the report request (they are the same
// wire format, so an encoded state doubles as the request query).
const (
	ParamStartDate         = "startDate"
	ParamEndDate           = "endDate"
	ParamReportType        = "reportType"
	ParamSourceOffice      = "sourceOffice"
	ParamDestinationOffice = "destinationOffice"
)

// DefaultWindow is the width of the initial reporting window.
const DefaultWindow = 30 * 24 * time.Hour

// State is the report view filter. Office IDs hold models.AllOffices when no
// restriction is applied.
type State struct {
	Range               models.DateRange
	SourceOfficeID      string
	DestinationOfficeID string
	ReportType          models.ReportType
}

// Default returns the initial filter: the trailing 30 days, no office
// restriction, the performance view.
func Default(now time.Time) State {
	now = now.UTC().Truncate(time.Minute)
	return State{
		Range:               models.DateRange{From: now.Add(-DefaultWindow), To: now},
		SourceOfficeID:      models.AllOffices,
		DestinationOfficeID: models.AllOffices,
		ReportType:          models.ReportPerformance,
	}
}

// Validate checks the invariants a state must satisfy before it can drive a
// request.
func (s State) Validate() error {
	if !s.Range.Valid() {
		return fmt.Errorf("date range requires from ≤ to, got %s .. %s",
			s.Range.From.Format(time.RFC3339), s.Range.To.Format(time.RFC3339))
	}
	if !s.ReportType.Valid() {
		return fmt.Errorf("unknown report type %q", s.ReportType)
	}
	if s.SourceOfficeID != models.AllOffices && s.SourceOfficeID == s.DestinationOfficeID {
		return fmt.Errorf("source and destination office cannot both be %q", s.SourceOfficeID)
	}
	return nil
}

// WithReportType returns a copy with only the report type changed. Tab
// switches go through here so the window and offices stay untouched.
func (s State) WithReportType(t models.ReportType) State {
	s.ReportType = t
	return s
}

// SameWindow reports whether two states query the same records: identical
// range and office filters, ignoring the report type.
func (s State) SameWindow(o State) bool {
	return s.Range.From.Equal(o.Range.From) &&
		s.Range.To.Equal(o.Range.To) &&
		s.SourceOfficeID == o.SourceOfficeID &&
		s.DestinationOfficeID == o.DestinationOfficeID
}

// Equal reports whether two states are equivalent, report type included.
func (s State) Equal(o State) bool {
	return s.SameWindow(o) && s.ReportType == o.ReportType
}

// Values encodes the state as request query parameters. Office parameters
// are omitted when unrestricted. Encoding is idempotent: the same state
// always yields the same string.
func (s State) Values() url.Values {
	v := url.Values{}
	v.Set(ParamStartDate, s.Range.From.UTC().Format(time.RFC3339))
	v.Set(ParamEndDate, s.Range.To.UTC().Format(time.RFC3339))
	v.Set(ParamReportType, s.ReportType.String())
	if s.SourceOfficeID != "" && s.SourceOfficeID != models.AllOffices {
		v.Set(ParamSourceOffice, s.SourceOfficeID)
	}
	if s.DestinationOfficeID != "" && s.DestinationOfficeID != models.AllOffices {
		v.Set(ParamDestinationOffice, s.DestinationOfficeID)
	}
	return v
}

// Encode returns the canonical query string for the state.
func (s State) Encode() string {
	return s.Values().Encode()
}

// Decode reconstructs a state from a query string previously produced by
// Encode (or pasted from a report URL). Missing office parameters mean
// "all"; a missing report type falls back to the performance view.
func Decode(query string) (State, error) {
	v, err := url.ParseQuery(query)
	if err != nil {
		return State{}, fmt.Errorf("parse view query: %w", err)
	}
	return FromValues(v)
}

// FromValues reconstructs a state from parsed query parameters.
func FromValues(v url.Values) (State, error) {
	var s State

	from, err := parseTimestamp(v.Get(ParamStartDate))
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", ParamStartDate, err)
	}
	to, err := parseTimestamp(v.Get(ParamEndDate))
	if err != nil {
		return State{}, fmt.Errorf("%s: %w", ParamEndDate, err)
	}
	s.Range = models.DateRange{From: from, To: to}

	s.ReportType = models.ReportType(v.Get(ParamReportType))
	if s.ReportType == "" {
		s.ReportType = models.ReportPerformance
	}

	s.SourceOfficeID = officeOrAll(v.Get(ParamSourceOffice))
	s.DestinationOfficeID = officeOrAll(v.Get(ParamDestinationOffice))

	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

func officeOrAll(id string) string {
	if id == "" {
		return models.AllOffices
	}
	return id
}

// timestampFormats are accepted on decode. Encode always emits RFC3339; the
// date-only form is for hand-typed filter input.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseDate parses a hand-typed filter date. End dates get the end-of-day
// time so a date-only range is inclusive.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
