package hours

import (
	"time"
)

// DayHours is one row of the weekly table.
type DayHours struct {
	Weekday time.Weekday
	// Date is the civil date of the occurrence the row was resolved on.
	Date   CivilInstant
	Closed bool
	Open   time.Time
	Close  time.Time
}

// WeeklyTable returns Sunday through Saturday, each resolved on that
// weekday's next occurrence in loc (today included). Resolving a real date
// keeps the offset right when the week crosses a DST change.
func WeeklyTable(now time.Time, schedule WeeklySchedule, loc *time.Location) []DayHours {
	today := ReadCivil(now, loc)
	current := today.Weekday()

	rows := make([]DayHours, 0, len(schedule))
	for day := time.Sunday; day <= time.Saturday; day++ {
		delta := (int(day) - int(current) + 7) % 7
		date := today.AddDays(delta)
		row := DayHours{
			Weekday: day,
			Date:    date.At(ClockTime{}),
		}

		rule, ok := schedule.Rule(day)
		if !ok {
			row.Closed = true
			rows = append(rows, row)
			continue
		}
		interval := resolveInterval(date, rule, loc)
		row.Open = interval.Start
		row.Close = interval.End
		rows = append(rows, row)
	}
	return rows
}
