package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNextOpeningEvent(t *testing.T) {
	opening := time.Date(2026, time.June, 18, 11, 30, 0, 0, time.UTC)

	event := NextOpeningEvent("Corner Bakery", "12 Main St", opening)
	if event.Summary != "Corner Bakery opens" {
		t.Fatalf("summary: %s", event.Summary)
	}
	if !event.End.Equal(opening.Add(30 * time.Minute)) {
		t.Fatalf("end: %s", event.End)
	}
	if !strings.HasSuffix(event.UID, "@openhours") {
		t.Fatalf("uid: %s", event.UID)
	}

	if got := NextOpeningEvent("  ", "", opening).Summary; got != "Business opens" {
		t.Fatalf("fallback summary: %s", got)
	}
}

func TestEncode(t *testing.T) {
	opening := time.Date(2026, time.June, 18, 7, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	stamp := time.Date(2026, time.June, 17, 23, 0, 0, 0, time.UTC)
	event := NextOpeningEvent("Pastry; Coffee, Tea", "", opening)
	event.UID = "fixed@openhours"
	event.Description = "Open until 6:00 PM\nSee you soon"

	var buf bytes.Buffer
	if err := Encode(&buf, stamp, event); err != nil {
		t.Fatalf("encode: %v", err)
	}
	body := buf.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR\r\n",
		"UID:fixed@openhours\r\n",
		"DTSTAMP:20260617T230000Z\r\n",
		"DTSTART:20260618T113000Z\r\n",
		"DTEND:20260618T120000Z\r\n",
		`SUMMARY:Pastry\; Coffee\, Tea opens` + "\r\n",
		`DESCRIPTION:Open until 6:00 PM\nSee you soon` + "\r\n",
		"END:VCALENDAR\r\n",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
	if strings.Contains(body, "LOCATION:") {
		t.Fatalf("empty location should be omitted")
	}
}

func TestEncode_RejectsInvertedEvent(t *testing.T) {
	start := time.Date(2026, time.June, 18, 11, 30, 0, 0, time.UTC)
	err := Encode(&bytes.Buffer{}, start, Event{Summary: "bad", Start: start, End: start.Add(-time.Minute)})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFoldLine(t *testing.T) {
	line := "SUMMARY:" + strings.Repeat("é", 60)
	folded := foldLine(line)

	for _, part := range strings.Split(strings.TrimSuffix(folded, "\r\n"), "\r\n") {
		if len(part) > maxLineOctets {
			t.Fatalf("line has %d octets: %q", len(part), part)
		}
	}
	unfolded := strings.ReplaceAll(strings.TrimSuffix(folded, "\r\n"), "\r\n ", "")
	if unfolded != line {
		t.Fatalf("unfolded mismatch: %q", unfolded)
	}
}

func TestFilename(t *testing.T) {
	start := time.Date(2026, time.June, 18, 23, 30, 0, 0, time.FixedZone("EDT", -4*3600))
	if got := Filename(start); got != "next-opening-20260619.ics" {
		t.Fatalf("filename: %s", got)
	}
}
