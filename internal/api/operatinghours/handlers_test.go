package operatinghours

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/codr1/openhours/internal/hours"
)

func TestHandleSchedule(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	schedule := hours.StandardSchedule()
	schedule.Set(time.Saturday, &hours.DayRule{Open: hours.MustClockTime("09:00"), Close: hours.MustClockTime("13:30")})
	e, err := hours.NewEngine(schedule, loc)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	InitHandlers(e)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hours/schedule", nil)
	recorder := httptest.NewRecorder()

	HandleSchedule(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
	var got scheduleResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Timezone != "Europe/Berlin" || len(got.Days) != 7 {
		t.Fatalf("response = %+v", got)
	}

	tests := []struct {
		day  time.Weekday
		want DayHours
	}{
		{day: time.Sunday, want: DayHours{DayOfWeek: 0, Day: "Sunday", IsClosed: true}},
		{day: time.Monday, want: DayHours{DayOfWeek: 1, Day: "Monday", OpensAt: "07:30", ClosesAt: "18:00"}},
		{day: time.Saturday, want: DayHours{DayOfWeek: 6, Day: "Saturday", OpensAt: "09:00", ClosesAt: "13:30"}},
	}
	for _, test := range tests {
		if got.Days[test.day] != test.want {
			t.Fatalf("%s = %+v, want %+v", test.day, got.Days[test.day], test.want)
		}
	}
}
