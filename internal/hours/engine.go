package hours

import (
	"errors"
	"fmt"
	"time"
)

// Engine binds a validated schedule to the zone it was authored in.
// It holds no clock; every call takes the instant to evaluate.
type Engine struct {
	schedule WeeklySchedule
	loc      *time.Location
}

func NewEngine(schedule WeeklySchedule, loc *time.Location) (*Engine, error) {
	if loc == nil {
		return nil, errors.New("business timezone is required")
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}
	return &Engine{schedule: schedule, loc: loc}, nil
}

func (e *Engine) Evaluate(now time.Time) Status {
	return Evaluate(now, e.schedule, e.loc)
}

func (e *Engine) NextOpening(now time.Time) (time.Time, bool) {
	return FindNextOpening(now, e.schedule, e.loc)
}

func (e *Engine) Week(now time.Time) []DayHours {
	return WeeklyTable(now, e.schedule, e.loc)
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) Schedule() WeeklySchedule {
	return e.schedule
}

// StandardSchedule is Monday through Saturday 07:30-18:00, closed Sunday.
func StandardSchedule() WeeklySchedule {
	var schedule WeeklySchedule
	rule := DayRule{Open: ClockTime{Hour: 7, Minute: 30}, Close: ClockTime{Hour: 18}}
	for day := time.Monday; day <= time.Saturday; day++ {
		schedule.Set(day, &rule)
	}
	return schedule
}
