package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_StandardSchedule(t *testing.T) {
	var out strings.Builder
	opts := options{
		businessTZ: "America/New_York",
		viewerTZ:   "Europe/Berlin",
		at:         "2026-06-20T23:00:00Z",
	}

	if err := run(&out, opts, time.Time{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"Status: Closed",
		"Next opening: Monday, Jun 22, 2026, 1:30 PM",
		"Your time zone: Europe/Berlin",
		"Sunday",
		"Closed",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
}

func TestRun_WritesCalendar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "next.ics")
	opts := options{
		businessTZ: "America/New_York",
		viewerTZ:   "UTC",
		at:         "2026-06-17T15:00:00Z",
		icsPath:    path,
	}

	var out strings.Builder
	if err := run(&out, opts, time.Time{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read calendar: %v", err)
	}
	if !strings.Contains(string(data), "DTSTART:20260618T113000Z") {
		t.Fatalf("calendar:\n%s", data)
	}
}

func TestRun_ConfigDefaultViewer(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	body := `app:
  name: "Openhours"
  port: 9000
database:
  filename: "` + filepath.Join(dir, "openhours.db") + `"
business:
  name: "Corner Bakery"
  timezone: "America/New_York"
viewer:
  default_timezone: "Asia/Tokyo"
`
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var out strings.Builder
	opts := options{configPath: configPath, at: "2026-06-17T15:00:00Z"}
	if err := run(&out, opts, time.Time{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"Corner Bakery",
		"Your time zone: Asia/Tokyo",
		"Closes: Thursday, Jun 18, 2026, 7:00 AM",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	out.Reset()
	opts.viewerTZ = "UTC"
	if err := run(&out, opts, time.Time{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Your time zone: UTC") {
		t.Fatalf("-tz should override the config default:\n%s", out.String())
	}
}

type failingCloser struct {
	strings.Builder
}

func (f *failingCloser) Close() error {
	return errors.New("disk quota exceeded")
}

func TestRun_CalendarCloseError(t *testing.T) {
	original := createFile
	t.Cleanup(func() { createFile = original })
	file := &failingCloser{}
	createFile = func(string) (io.WriteCloser, error) {
		return file, nil
	}

	opts := options{
		businessTZ: "America/New_York",
		viewerTZ:   "UTC",
		at:         "2026-06-17T15:00:00Z",
		icsPath:    "next.ics",
	}
	var out strings.Builder
	err := run(&out, opts, time.Time{})
	if err == nil || !strings.Contains(err.Error(), "close calendar file") {
		t.Fatalf("error = %v, want close failure", err)
	}
	if !strings.Contains(file.String(), "BEGIN:VCALENDAR") {
		t.Fatalf("calendar not written before close")
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{name: "bad_business_tz", opts: options{businessTZ: "Nowhere/Land"}},
		{name: "bad_viewer_tz", opts: options{businessTZ: "UTC", viewerTZ: "Nowhere/Land"}},
		{name: "bad_at", opts: options{businessTZ: "UTC", viewerTZ: "UTC", at: "yesterday"}},
		{name: "missing_config", opts: options{configPath: filepath.Join(t.TempDir(), "missing.yaml")}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out strings.Builder
			if err := run(&out, test.opts, time.Now()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
