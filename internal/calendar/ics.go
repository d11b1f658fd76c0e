// Package calendar builds iCalendar (RFC 5545) files for schedule events.
package calendar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// NextOpeningDuration is how long the reminder event for an opening lasts.
	NextOpeningDuration = 30 * time.Minute

	productID     = "-//codr1//openhours//EN"
	utcLayout     = "20060102T150405Z"
	maxLineOctets = 75
	uidDomain     = "openhours"
)

// Event is a single VEVENT.
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// NextOpeningEvent is the "add to calendar" event for an upcoming opening.
func NextOpeningEvent(businessName, location string, opening time.Time) Event {
	summary := strings.TrimSpace(businessName)
	if summary == "" {
		summary = "Business"
	}
	return Event{
		UID:      uuid.NewString() + "@" + uidDomain,
		Summary:  summary + " opens",
		Location: strings.TrimSpace(location),
		Start:    opening,
		End:      opening.Add(NextOpeningDuration),
	}
}

// Encode writes a VCALENDAR holding events. stamp becomes each DTSTAMP.
func Encode(w io.Writer, stamp time.Time, events ...Event) error {
	buf := bufio.NewWriter(w)
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + productID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	for _, event := range events {
		if event.End.Before(event.Start) {
			return fmt.Errorf("event %q ends before it starts", event.Summary)
		}
		uid := event.UID
		if uid == "" {
			uid = uuid.NewString() + "@" + uidDomain
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+uid,
			"DTSTAMP:"+formatUTC(stamp),
			"DTSTART:"+formatUTC(event.Start),
			"DTEND:"+formatUTC(event.End),
			"SUMMARY:"+escapeText(event.Summary),
		)
		if event.Description != "" {
			lines = append(lines, "DESCRIPTION:"+escapeText(event.Description))
		}
		if event.Location != "" {
			lines = append(lines, "LOCATION:"+escapeText(event.Location))
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR")

	for _, line := range lines {
		if _, err := buf.WriteString(foldLine(line)); err != nil {
			return fmt.Errorf("write calendar: %w", err)
		}
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

// Filename is the download name for an event starting at start.
func Filename(start time.Time) string {
	return "next-opening-" + start.UTC().Format("20060102") + ".ics"
}

func formatUTC(t time.Time) string {
	return t.UTC().Format(utcLayout)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(value string) string {
	return textEscaper.Replace(value)
}

// foldLine splits content lines longer than 75 octets, never inside a UTF-8
// sequence, and terminates with CRLF.
func foldLine(line string) string {
	var b strings.Builder
	width := 0
	for _, r := range line {
		size := len(string(r))
		if width+size > maxLineOctets {
			b.WriteString("\r\n ")
			width = 1
		}
		b.WriteRune(r)
		width += size
	}
	b.WriteString("\r\n")
	return b.String()
}
