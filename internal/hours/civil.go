// Package hours holds the schedule engine: reading wall clocks in a zone,
// resolving wall clocks back to instants, and deciding open/closed status
// against a fixed weekly schedule.
package hours

import (
	"fmt"
	"time"
)

const neighborWindow = 24 * time.Hour

// CivilInstant is a wall-clock reading in some timezone. It carries no zone
// of its own.
type CivilInstant struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// ReadCivil returns the calendar date and time of day of t as observed in loc.
func ReadCivil(t time.Time, loc *time.Location) CivilInstant {
	local := t.In(loc)
	return CivilInstant{
		Year:   local.Year(),
		Month:  local.Month(),
		Day:    local.Day(),
		Hour:   local.Hour(),
		Minute: local.Minute(),
	}
}

// ResolveWallClock returns the instant denoted by c read as wall-clock time in loc.
//
// The offset is discovered by reading the components back in loc rather than
// from a table. In a repeated (fall-back) hour the earlier instant is returned.
// In a skipped (spring-forward) hour the pre-transition offset is applied, so
// the result lands after the gap: 02:30 on a New York spring-forward day
// resolves to 03:30 EDT.
func ResolveWallClock(c CivilInstant, loc *time.Location) time.Time {
	c = c.normalize()
	guess := c.asUTC()

	var best time.Time
	for _, sample := range []time.Time{guess, guess.Add(-neighborWindow), guess.Add(neighborWindow)} {
		candidate := guess.Add(-appliedOffset(sample, loc))
		if ReadCivil(candidate, loc) != c {
			continue
		}
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	if !best.IsZero() {
		return best
	}

	return guess.Add(-appliedOffset(guess.Add(-neighborWindow), loc))
}

// appliedOffset is the UTC offset loc applies at t, measured as the distance
// between t's wall clock in loc (read as UTC) and t itself.
func appliedOffset(t time.Time, loc *time.Location) time.Duration {
	t = t.Truncate(time.Minute)
	return ReadCivil(t, loc).asUTC().Sub(t)
}

// Weekday is the day of week of the civil date.
func (c CivilInstant) Weekday() time.Weekday {
	return c.asUTC().Weekday()
}

// AddDays moves the civil date by n days, keeping the time of day.
func (c CivilInstant) AddDays(n int) CivilInstant {
	c.Day += n
	return c.normalize()
}

// At returns the same civil date at the given clock time.
func (c CivilInstant) At(clock ClockTime) CivilInstant {
	c.Hour = clock.Hour
	c.Minute = clock.Minute
	return c.normalize()
}

// Date formats the civil date as 2006-01-02.
func (c CivilInstant) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), c.Day)
}

func (c CivilInstant) String() string {
	return fmt.Sprintf("%s %02d:%02d", c.Date(), c.Hour, c.Minute)
}

func (c CivilInstant) asUTC() time.Time {
	return time.Date(c.Year, c.Month, c.Day, c.Hour, c.Minute, 0, 0, time.UTC)
}

func (c CivilInstant) normalize() CivilInstant {
	return ReadCivil(c.asUTC(), time.UTC)
}
