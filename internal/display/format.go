// Package display renders schedule results as text in the viewer's zone.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/codr1/openhours/internal/hours"
)

const (
	LocalTimeLabel = "Local time"

	clockLayout    = "3:04 PM"
	dateTimeLayout = "Monday, Jan 2, 2006, 3:04 PM"
	rangeSeparator = " – "
)

// Viewer is the zone results are shown in. Label is what the page prints
// as "Your time zone".
type Viewer struct {
	Location *time.Location
	Label    string
}

// ResolveViewer loads an IANA zone name for display.
func ResolveViewer(name string) (Viewer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LocalViewer(), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Viewer{}, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return NewViewer(loc), nil
}

// LocalViewer uses the process zone. Go falls back to UTC when it cannot
// determine one, so the location is always usable; only the label degrades.
func LocalViewer() Viewer {
	return NewViewer(time.Local)
}

func NewViewer(loc *time.Location) Viewer {
	if loc == nil {
		return Viewer{Location: time.UTC, Label: LocalTimeLabel}
	}
	label := loc.String()
	if label == "" || label == "Local" {
		label = LocalTimeLabel
	}
	return Viewer{Location: loc, Label: label}
}

func (v Viewer) location() *time.Location {
	if v.Location == nil {
		return time.UTC
	}
	return v.Location
}

// FormatClock renders t as "7:30 AM" in the viewer zone.
func FormatClock(t time.Time, v Viewer) string {
	return t.In(v.location()).Format(clockLayout)
}

// FormatTimeRange renders "7:30 AM – 6:00 PM" in the viewer zone.
func FormatTimeRange(open, closing time.Time, v Viewer) string {
	return FormatClock(open, v) + rangeSeparator + FormatClock(closing, v)
}

// FormatDateTime renders "Thursday, Jun 18, 2026, 7:30 AM" in the viewer zone.
func FormatDateTime(t time.Time, v Viewer) string {
	return t.In(v.location()).Format(dateTimeLayout)
}

// WeekRow is a weekly table row ready for rendering.
type WeekRow struct {
	Day    string `json:"day"`
	Date   string `json:"date"`
	Closed bool   `json:"closed"`
	Hours  string `json:"hours"`
}

func WeekRows(rows []hours.DayHours, v Viewer) []WeekRow {
	formatted := make([]WeekRow, 0, len(rows))
	for _, row := range rows {
		entry := WeekRow{
			Day:    row.Weekday.String(),
			Date:   row.Date.Date(),
			Closed: row.Closed,
			Hours:  "Closed",
		}
		if !row.Closed {
			entry.Hours = FormatTimeRange(row.Open, row.Close, v)
		}
		formatted = append(formatted, entry)
	}
	return formatted
}
