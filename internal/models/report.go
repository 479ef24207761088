package models

// ReportType selects which projection a report request returns.
type ReportType string

const (
	// ReportPerformance is the aggregate on-time/late summary view.
	ReportPerformance ReportType = "performance"
	// ReportMonthly is the month-by-month trend view.
	ReportMonthly ReportType = "monthly"
	// ReportRoutes is the per-route ranking view.
	ReportRoutes ReportType = "routes"
)

// ReportTypes lists the report types in tab order.
var ReportTypes = []ReportType{ReportPerformance, ReportMonthly, ReportRoutes}

// Valid reports whether t is a known report type.
func (t ReportType) Valid() bool {
	switch t {
	case ReportPerformance, ReportMonthly, ReportRoutes:
		return true
	}
	return false
}

// String returns the wire name of the report type.
func (t ReportType) String() string { return string(t) }

// Title returns the display name of the report type.
func (t ReportType) Title() string {
	switch t {
	case ReportPerformance:
		return "Performance"
	case ReportMonthly:
		return "Monthly Trend"
	case ReportRoutes:
		return "Routes"
	default:
		return "Unknown"
	}
}

// PerformanceSummary is the aggregate delivery-performance projection.
// OnTimeDeliveries + LateDeliveries never exceeds TotalConsignments:
// cancelled and undelivered records are excluded from on-time accounting.
type PerformanceSummary struct {
	TotalConsignments    int            `json:"totalConsignments"`
	OnTimeDeliveries     int            `json:"onTimeDeliveries"`
	LateDeliveries       int            `json:"lateDeliveries"`
	OnTimeRate           float64        `json:"onTimeRate"`
	AvgDeliveryTimeHours float64        `json:"avgDeliveryTime"`
	StatusCounts         map[Status]int `json:"statusCounts"`
}

// MonthlyBucket aggregates one calendar month (UTC, by scheduled delivery).
type MonthlyBucket struct {
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	TotalConsignments    int     `json:"totalConsignments"`
	OnTimeDeliveries     int     `json:"onTimeDeliveries"`
	LateDeliveries       int     `json:"lateDeliveries"`
	OnTimeRate           float64 `json:"onTimeRate"`
	AvgDeliveryTimeHours float64 `json:"avgDeliveryTime"`
}

// RouteStat aggregates one ordered (source, destination) route. A→B and B→A
// are distinct routes.
type RouteStat struct {
	RouteLabel           string  `json:"routeLabel"`
	SourceOfficeID       string  `json:"sourceOffice"`
	DestinationOfficeID  string  `json:"destinationOffice"`
	TotalConsignments    int     `json:"totalConsignments"`
	OnTimeDeliveries     int     `json:"onTimeDeliveries"`
	LateDeliveries       int     `json:"lateDeliveries"`
	OnTimeRate           float64 `json:"onTimeRate"`
	AvgDeliveryTimeHours float64 `json:"avgDeliveryTime"`
}

// ReportData is one report response. Only the section matching the requested
// report type is populated; absent sections mean "no data for this view".
type ReportData struct {
	Performance *PerformanceSummary `json:"performance,omitempty"`
	Monthly     []MonthlyBucket     `json:"monthly,omitempty"`
	Routes      []RouteStat         `json:"routes,omitempty"`
}

// Has reports whether the section for the given report type is present.
func (r *ReportData) Has(t ReportType) bool {
	if r == nil {
		return false
	}
	switch t {
	case ReportPerformance:
		return r.Performance != nil
	case ReportMonthly:
		return r.Monthly != nil
	case ReportRoutes:
		return r.Routes != nil
	}
	return false
}

// Merge copies the populated sections of other into r, so cached views for
// the same window survive a tab switch.
func (r *ReportData) Merge(other *ReportData) {
	if other == nil {
		return
	}
	if other.Performance != nil {
		r.Performance = other.Performance
	}
	if other.Monthly != nil {
		r.Monthly = other.Monthly
	}
	if other.Routes != nil {
		r.Routes = other.Routes
	}
}
