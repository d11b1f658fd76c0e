package hours

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ClockTime
		wantErr bool
	}{
		{name: "twenty_four_hour", raw: "07:30", want: ClockTime{Hour: 7, Minute: 30}},
		{name: "evening", raw: "18:00", want: ClockTime{Hour: 18}},
		{name: "twelve_hour_pm", raw: "9:30 PM", want: ClockTime{Hour: 21, Minute: 30}},
		{name: "twelve_hour_lowercase", raw: "8:00 am", want: ClockTime{Hour: 8}},
		{name: "trimmed", raw: "  06:15 ", want: ClockTime{Hour: 6, Minute: 15}},
		{name: "empty", raw: "", wantErr: true},
		{name: "words", raw: "7am", wantErr: true},
		{name: "out_of_range", raw: "25:00", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseClockTime(test.raw)
			if test.wantErr {
				if !errors.Is(err, ErrInvalidClockTime) {
					t.Fatalf("ParseClockTime(%q) error = %v, want ErrInvalidClockTime", test.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClockTime(%q): %v", test.raw, err)
			}
			if got != test.want {
				t.Fatalf("ParseClockTime(%q) = %v, want %v", test.raw, got, test.want)
			}
		})
	}
}

func TestDayRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rule    DayRule
		wantErr string
	}{
		{name: "valid", rule: DayRule{Open: ClockTime{Hour: 7, Minute: 30}, Close: ClockTime{Hour: 18}}},
		{name: "equal", rule: DayRule{Open: ClockTime{Hour: 9}, Close: ClockTime{Hour: 9}}, wantErr: "must be before"},
		{name: "overnight", rule: DayRule{Open: ClockTime{Hour: 22}, Close: ClockTime{Hour: 2}}, wantErr: "must be before"},
		{name: "bad_minute", rule: DayRule{Open: ClockTime{Hour: 9, Minute: 60}, Close: ClockTime{Hour: 10}}, wantErr: "opens_at"},
		{name: "bad_hour", rule: DayRule{Open: ClockTime{Hour: 9}, Close: ClockTime{Hour: 24}}, wantErr: "closes_at"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.rule.Validate()
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, test.wantErr)
			}
		})
	}
}

func TestWeeklySchedule(t *testing.T) {
	schedule := StandardSchedule()

	if _, ok := schedule.Rule(time.Sunday); ok {
		t.Fatalf("sunday should be closed")
	}
	rule, ok := schedule.Rule(time.Saturday)
	if !ok || rule.Open.String() != "07:30" || rule.Close.String() != "18:00" {
		t.Fatalf("saturday rule = %+v, %t", rule, ok)
	}
	if _, ok := schedule.Rule(time.Weekday(9)); ok {
		t.Fatalf("out of range weekday should have no rule")
	}
	if schedule.AlwaysClosed() {
		t.Fatalf("standard schedule is not always closed")
	}
	if err := schedule.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	schedule.Set(time.Tuesday, &DayRule{Open: ClockTime{Hour: 20}, Close: ClockTime{Hour: 8}})
	err := schedule.Validate()
	if err == nil || !strings.HasPrefix(err.Error(), "Tuesday") {
		t.Fatalf("validate error = %v", err)
	}

	var empty WeeklySchedule
	if !empty.AlwaysClosed() {
		t.Fatalf("empty schedule should be always closed")
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Weekday
		wantErr bool
	}{
		{raw: "sunday", want: time.Sunday},
		{raw: "Monday", want: time.Monday},
		{raw: " sat ", want: time.Saturday},
		{raw: "WED", want: time.Wednesday},
		{raw: "funday", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseWeekday(test.raw)
		if test.wantErr {
			if err == nil {
				t.Fatalf("ParseWeekday(%q) expected error", test.raw)
			}
			continue
		}
		if err != nil || got != test.want {
			t.Fatalf("ParseWeekday(%q) = %s, %v", test.raw, got, err)
		}
	}
}
