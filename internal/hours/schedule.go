package hours

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidClockTime = errors.New("time must be in HH:MM or H:MM AM/PM format")

// ClockTime is a time of day in the business's civil time.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime accepts "15:04" and "3:04 PM" forms.
func ParseClockTime(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ClockTime{}, ErrInvalidClockTime
	}
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		parsed, err = time.Parse("3:04 PM", strings.ToUpper(raw))
		if err != nil {
			return ClockTime{}, ErrInvalidClockTime
		}
	}
	return ClockTime{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// MustClockTime is ParseClockTime for literals.
func MustClockTime(raw string) ClockTime {
	clock, err := ParseClockTime(raw)
	if err != nil {
		panic(fmt.Sprintf("hours: %q: %v", raw, err))
	}
	return clock
}

func (c ClockTime) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("hour %d out of range 0-23", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("minute %d out of range 0-59", c.Minute)
	}
	return nil
}

func (c ClockTime) Before(other ClockTime) bool {
	return c.minutes() < other.minutes()
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

// DayRule is the single open interval of a day. Close must fall later on the
// same civil day; overnight intervals are not representable.
type DayRule struct {
	Open  ClockTime
	Close ClockTime
}

func (r DayRule) Validate() error {
	if err := r.Open.Validate(); err != nil {
		return fmt.Errorf("opens_at: %w", err)
	}
	if err := r.Close.Validate(); err != nil {
		return fmt.Errorf("closes_at: %w", err)
	}
	if !r.Open.Before(r.Close) {
		return fmt.Errorf("opens_at %s must be before closes_at %s", r.Open, r.Close)
	}
	return nil
}

// WeeklySchedule maps each weekday (time.Sunday == 0) to its rule. A nil
// entry means closed all day.
type WeeklySchedule [7]*DayRule

// Rule returns the rule for day, if any.
func (s WeeklySchedule) Rule(day time.Weekday) (DayRule, bool) {
	if day < time.Sunday || day > time.Saturday {
		return DayRule{}, false
	}
	rule := s[day]
	if rule == nil {
		return DayRule{}, false
	}
	return *rule, true
}

// Set assigns rule to day. A nil rule closes the day.
func (s *WeeklySchedule) Set(day time.Weekday, rule *DayRule) {
	if rule == nil {
		s[day] = nil
		return
	}
	copied := *rule
	s[day] = &copied
}

// AlwaysClosed reports whether no weekday has a rule.
func (s WeeklySchedule) AlwaysClosed() bool {
	for _, rule := range s {
		if rule != nil {
			return false
		}
	}
	return true
}

func (s WeeklySchedule) Validate() error {
	for day, rule := range s {
		if rule == nil {
			continue
		}
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%s: %w", time.Weekday(day), err)
		}
	}
	return nil
}

// ParseWeekday maps an English weekday name ("monday", "Mon") to its index.
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if name == full || name == full[:3] {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
