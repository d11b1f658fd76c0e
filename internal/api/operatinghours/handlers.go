// internal/api/operatinghours/handlers.go
package operatinghours

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/api/apiutil"
	"github.com/codr1/openhours/internal/hours"
)

const clockLayout = "15:04"

var (
	engine     *hours.Engine
	engineOnce sync.Once
)

// DayHours is one configured weekday, in the business timezone.
type DayHours struct {
	DayOfWeek int64  `json:"dayOfWeek"`
	Day       string `json:"day"`
	OpensAt   string `json:"opensAt,omitempty"`
	ClosesAt  string `json:"closesAt,omitempty"`
	IsClosed  bool   `json:"isClosed"`
}

type scheduleResponse struct {
	Timezone string     `json:"timezone"`
	Days     []DayHours `json:"days"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(e *hours.Engine) {
	if e == nil {
		return
	}
	engineOnce.Do(func() {
		engine = e
	})
}

// GET /api/v1/hours/schedule
//
// The configured rules as authored, Sunday first, without resolving them to
// instants.
func HandleSchedule(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Schedule engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	response := scheduleResponse{
		Timezone: e.Location().String(),
		Days:     operatingHours(e.Schedule()),
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("Failed to write schedule response")
	}
}

func operatingHours(schedule hours.WeeklySchedule) []DayHours {
	days := make([]DayHours, 0, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		entry := DayHours{
			DayOfWeek: int64(day),
			Day:       day.String(),
			IsClosed:  true,
		}
		if rule, ok := schedule.Rule(day); ok {
			entry.IsClosed = false
			entry.OpensAt = formatClockTime(rule.Open)
			entry.ClosesAt = formatClockTime(rule.Close)
		}
		days = append(days, entry)
	}
	return days
}

func formatClockTime(c hours.ClockTime) string {
	return time.Date(2000, time.January, 1, c.Hour, c.Minute, 0, 0, time.UTC).Format(clockLayout)
}

func loadEngine() *hours.Engine {
	return engine
}
