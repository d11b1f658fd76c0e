package hours

import (
	"time"
)

// searchDays covers a full week plus today, so a weekday whose opening has
// already passed today is still found a week later.
const searchDays = 8

// Interval is a resolved open period, closed at End.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t is in [Start, End).
func (i Interval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// Status is the open/closed state at one instant.
type Status struct {
	IsOpen bool `json:"isOpen"`
	// Today is the resolved interval for the business's current civil day,
	// nil when the day has no rule.
	Today *Interval `json:"today,omitempty"`
	// OpensAt is the next opening when closed; nil if there is none.
	OpensAt *time.Time `json:"opensAt,omitempty"`
	// ClosesAt is today's closing instant when open.
	ClosesAt *time.Time `json:"closesAt,omitempty"`
}

// Evaluate decides whether the business is open at now. The weekday is the
// business's weekday in loc, not the caller's.
func Evaluate(now time.Time, schedule WeeklySchedule, loc *time.Location) Status {
	today := ReadCivil(now, loc)

	var status Status
	if rule, ok := schedule.Rule(today.Weekday()); ok {
		interval := resolveInterval(today, rule, loc)
		status.Today = &interval
		if interval.Contains(now) {
			status.IsOpen = true
			closesAt := interval.End
			status.ClosesAt = &closesAt
			return status
		}
	}

	if opensAt, ok := FindNextOpening(now, schedule, loc); ok {
		status.OpensAt = &opensAt
	}
	return status
}

// FindNextOpening returns the first opening strictly after now. It reports
// false only when the schedule has no rule on any weekday.
func FindNextOpening(now time.Time, schedule WeeklySchedule, loc *time.Location) (time.Time, bool) {
	today := ReadCivil(now, loc)
	for offset := 0; offset < searchDays; offset++ {
		day := today.AddDays(offset)
		rule, ok := schedule.Rule(day.Weekday())
		if !ok {
			continue
		}
		opensAt := ResolveWallClock(day.At(rule.Open), loc)
		if opensAt.After(now) {
			return opensAt, true
		}
	}
	return time.Time{}, false
}

func resolveInterval(day CivilInstant, rule DayRule, loc *time.Location) Interval {
	return Interval{
		Start: ResolveWallClock(day.At(rule.Open), loc),
		End:   ResolveWallClock(day.At(rule.Close), loc),
	}
}
