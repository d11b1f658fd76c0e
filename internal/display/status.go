package display

import (
	"fmt"

	"github.com/codr1/openhours/internal/hours"
)

const (
	ClosedTodayText      = "Closed today"
	NextOpenUnavailable  = "unavailable"
	checkBusinessPageTxt = "Closed now • Check Business page for details"
)

// Badge is the compact home-page summary.
type Badge struct {
	Open bool   `json:"open"`
	Main string `json:"main"`
	Sub  string `json:"sub"`
}

func NewBadge(status hours.Status, v Viewer) Badge {
	badge := Badge{
		Open: status.IsOpen,
		Main: ClosedTodayText,
		Sub:  TimezoneText(v),
	}
	if status.Today != nil {
		badge.Main = FormatTimeRange(status.Today.Start, status.Today.End, v)
	}

	switch {
	case status.IsOpen && status.ClosesAt != nil:
		badge.Sub = fmt.Sprintf("Open now • Closes at %s (%s)", FormatClock(*status.ClosesAt, v), v.Label)
	case status.IsOpen:
	case status.OpensAt != nil:
		badge.Sub = "Closed now • Next open: " + FormatDateTime(*status.OpensAt, v)
	default:
		badge.Sub = checkBusinessPageTxt
	}
	return badge
}

// StatusLine is the business page status block.
type StatusLine struct {
	Open        bool   `json:"open"`
	State       string `json:"state"`
	ClosesAt    string `json:"closesAt,omitempty"`
	NextOpening string `json:"nextOpening,omitempty"`
}

func NewStatusLine(status hours.Status, v Viewer) StatusLine {
	if status.IsOpen {
		line := StatusLine{Open: true, State: "Open"}
		if status.ClosesAt != nil {
			line.ClosesAt = FormatDateTime(*status.ClosesAt, v)
		}
		return line
	}

	line := StatusLine{State: "Closed", NextOpening: NextOpenUnavailable}
	if status.OpensAt != nil {
		line.NextOpening = FormatDateTime(*status.OpensAt, v)
	}
	return line
}

func TimezoneText(v Viewer) string {
	return "Your time zone: " + v.Label
}
