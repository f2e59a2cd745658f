package domain

// TimeLayout is the storage format for report submission timestamps.
// It sorts lexicographically, so range filters can compare the raw strings.
const TimeLayout = "2006-01-02 15:04:05"

// Report is an enriched incident submission. A report is immutable once
// persisted; every derived field (state, country, temperature,
// classification) is computed exactly once at ingestion time.
type Report struct {
	ID             int64
	UserID         int64
	Username       string
	DatetimeEntry  string
	Latitude       float64
	Longitude      float64
	State          string
	Country        string
	Temperature    string
	IPAddress      string
	Description    string
	Classification string
	FilePath       string
}

// ReportFilter holds the optional query options recognized by the query
// engine. All present options compose with logical AND. The distance filter
// applies only when Lat, Long and Dist are all set; otherwise it is skipped
// entirely.
type ReportFilter struct {
	StartDate string
	EndDate   string
	Lat       *float64
	Long      *float64
	Dist      *float64
	Sort      string
	Max       int
}

// HasDistance reports whether the all-or-nothing geo filter is active.
func (f ReportFilter) HasDistance() bool {
	return f.Lat != nil && f.Long != nil && f.Dist != nil
}
