package hours

import "github.com/codr1/openhours/internal/display"

// PageData is everything the hours page renders, already formatted for the
// viewer.
type PageData struct {
	BusinessName string
	Address      string
	TimezoneText string
	Badge        display.Badge
	Status       display.StatusLine
	Week         []display.WeekRow
	// RefreshQuery is appended to fragment URLs so refreshes keep the
	// viewer's zone, e.g. "?tz=Europe%2FBerlin".
	RefreshQuery string
	// RefreshEvery is the htmx polling interval, e.g. "30s".
	RefreshEvery string
}
