// internal/api/businesshours/handlers.go
package businesshours

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/api/apiutil"
	"github.com/codr1/openhours/internal/calendar"
	"github.com/codr1/openhours/internal/db"
	"github.com/codr1/openhours/internal/display"
	"github.com/codr1/openhours/internal/hours"
	"github.com/codr1/openhours/internal/models"
	"github.com/codr1/openhours/internal/monitor"
	"github.com/codr1/openhours/internal/request"
	hourstempl "github.com/codr1/openhours/internal/templates/components/hours"
	"github.com/codr1/openhours/internal/templates/layouts"
	"github.com/codr1/openhours/internal/ui"
)

const (
	historyQueryTimeout = 5 * time.Second
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	viewerCookieMaxAge  = 365 * 24 * time.Hour
)

var errInvalidLimit = errors.New("limit must be a positive integer")

// Dependencies are the shared services the handlers read from.
type Dependencies struct {
	Monitor         *monitor.Monitor
	Queries         *db.Queries
	BusinessName    string
	Address         string
	DefaultViewer   display.Viewer
	RefreshInterval time.Duration
	Themes          models.ThemeSet
}

var (
	deps   *Dependencies
	depsMu sync.RWMutex
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(d Dependencies) {
	if d.Monitor == nil {
		return
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = &d
}

func loadDependencies() *Dependencies {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

type statusResponse struct {
	ComputedAt time.Time          `json:"computedAt"`
	Timezone   string             `json:"timezone"`
	Status     hours.Status       `json:"status"`
	Display    display.StatusLine `json:"display"`
	Badge      display.Badge      `json:"badge"`
}

type weekResponse struct {
	Timezone string            `json:"timezone"`
	Days     []display.WeekRow `json:"days"`
}

type historyEntry struct {
	ID            int64      `json:"id"`
	IsOpen        bool       `json:"isOpen"`
	ObservedAt    time.Time  `json:"observedAt"`
	BoundaryAt    *time.Time `json:"boundaryAt,omitempty"`
	NextOpeningAt *time.Time `json:"nextOpeningAt,omitempty"`
}

// GET /
func HandleHoursPage(w http.ResponseWriter, r *http.Request) {
	d, viewer, snapshot, ok := prepare(w, r)
	if !ok {
		return
	}

	rememberViewer(w, r)
	state := ui.FromRequest(r, d.Themes)
	page := layouts.Base(pageTitle(d), hourstempl.Page(pageData(d, r, viewer, snapshot)), state)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render hours page", "Failed to render page")
}

// GET /api/v1/hours/status
func HandleStatus(w http.ResponseWriter, r *http.Request) {
	d, viewer, snapshot, ok := prepare(w, r)
	if !ok {
		return
	}

	if apiutil.IsJSONRequest(r) {
		writeJSON(w, r, http.StatusOK, newStatusResponse(viewer, snapshot))
		return
	}

	line := display.NewStatusLine(snapshot.Status, viewer)
	component := hourstempl.Status(line, refreshQuery(r), refreshEvery(d))
	apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render status", "Failed to render status")
}

// GET /api/v1/hours/badge
func HandleBadge(w http.ResponseWriter, r *http.Request) {
	d, viewer, snapshot, ok := prepare(w, r)
	if !ok {
		return
	}

	badge := display.NewBadge(snapshot.Status, viewer)
	if apiutil.IsJSONRequest(r) {
		writeJSON(w, r, http.StatusOK, badge)
		return
	}

	component := hourstempl.Badge(badge, refreshQuery(r), refreshEvery(d))
	apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render badge", "Failed to render badge")
}

// GET /api/v1/hours/week
func HandleWeek(w http.ResponseWriter, r *http.Request) {
	_, viewer, snapshot, ok := prepare(w, r)
	if !ok {
		return
	}

	rows := display.WeekRows(snapshot.Week, viewer)
	if apiutil.IsJSONRequest(r) {
		writeJSON(w, r, http.StatusOK, weekResponse{Timezone: viewer.Label, Days: rows})
		return
	}

	apiutil.RenderHTMLComponent(r.Context(), w, hourstempl.WeekTable(rows), nil, "Failed to render weekly hours", "Failed to render weekly hours")
}

// GET /api/v1/hours/next-opening.ics
func HandleNextOpeningICS(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	d := loadDependencies()
	if d == nil {
		logger.Error().Msg("Hours handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	now := d.Monitor.Clock().Now()
	opening, ok := d.Monitor.Engine().NextOpening(now)
	if !ok {
		http.Error(w, "Next opening: "+display.NextOpenUnavailable, http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	event := calendar.NextOpeningEvent(d.BusinessName, d.Address, opening)
	if err := calendar.Encode(&buf, now, event); err != nil {
		logger.Error().Err(err).Time("opening", opening).Msg("Failed to encode calendar event")
		http.Error(w, "Failed to build calendar file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+calendar.Filename(opening)+"\"")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error().Err(err).Msg("Failed to write calendar file")
	}
}

// GET /api/v1/hours/history
func HandleHistory(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	d := loadDependencies()
	if d == nil || d.Queries == nil {
		logger.Error().Msg("Status history not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	limit, err := historyLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), historyQueryTimeout)
	defer cancel()

	rows, err := d.Queries.ListStatusTransitions(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Int64("limit", limit).Msg("Failed to list status transitions")
		http.Error(w, "Failed to load status history", http.StatusInternalServerError)
		return
	}

	entries := make([]historyEntry, 0, len(rows))
	for _, row := range rows {
		entry := historyEntry{
			ID:         row.ID,
			IsOpen:     row.IsOpen,
			ObservedAt: row.ObservedAt,
		}
		if row.BoundaryAt.Valid {
			boundary := row.BoundaryAt.Time
			entry.BoundaryAt = &boundary
		}
		if row.NextOpeningAt.Valid {
			next := row.NextOpeningAt.Time
			entry.NextOpeningAt = &next
		}
		entries = append(entries, entry)
	}
	writeJSON(w, r, http.StatusOK, entries)
}

// prepare loads dependencies, resolves the viewer and evaluates the schedule
// at request time. It writes the error response itself and reports false on failure.
func prepare(w http.ResponseWriter, r *http.Request) (*Dependencies, display.Viewer, monitor.Snapshot, bool) {
	logger := log.Ctx(r.Context())

	d := loadDependencies()
	if d == nil {
		logger.Error().Msg("Hours handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, display.Viewer{}, monitor.Snapshot{}, false
	}

	viewer, err := request.ResolveViewer(r, d.DefaultViewer)
	if err != nil {
		logger.Warn().Err(err).Str("timezone", request.ViewerTimezone(r)).Msg("Unknown viewer timezone")
		http.Error(w, "Unknown timezone: "+request.ViewerTimezone(r), http.StatusBadRequest)
		return nil, display.Viewer{}, monitor.Snapshot{}, false
	}

	return d, viewer, d.Monitor.Compute(), true
}

func newStatusResponse(viewer display.Viewer, snapshot monitor.Snapshot) statusResponse {
	return statusResponse{
		ComputedAt: snapshot.ComputedAt,
		Timezone:   viewer.Label,
		Status:     snapshot.Status,
		Display:    display.NewStatusLine(snapshot.Status, viewer),
		Badge:      display.NewBadge(snapshot.Status, viewer),
	}
}

func pageData(d *Dependencies, r *http.Request, viewer display.Viewer, snapshot monitor.Snapshot) hourstempl.PageData {
	return hourstempl.PageData{
		BusinessName: pageTitle(d),
		Address:      d.Address,
		TimezoneText: display.TimezoneText(viewer),
		Badge:        display.NewBadge(snapshot.Status, viewer),
		Status:       display.NewStatusLine(snapshot.Status, viewer),
		Week:         display.WeekRows(snapshot.Week, viewer),
		RefreshQuery: refreshQuery(r),
		RefreshEvery: refreshEvery(d),
	}
}

func pageTitle(d *Dependencies) string {
	if d.BusinessName == "" {
		return "Business hours"
	}
	return d.BusinessName
}

// refreshQuery carries an explicit tz parameter into fragment URLs.
func refreshQuery(r *http.Request) string {
	name := request.ViewerTimezone(r)
	if name == "" {
		return ""
	}
	return "?" + request.TimezoneParam + "=" + url.QueryEscape(name)
}

func refreshEvery(d *Dependencies) string {
	if d.RefreshInterval <= 0 {
		return ""
	}
	return strconv.FormatInt(int64(d.RefreshInterval/time.Second), 10) + "s"
}

// rememberViewer stores an explicit tz query choice for later requests.
func rememberViewer(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get(request.TimezoneParam)
	if name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     request.TimezoneCookie,
		Value:    url.QueryEscape(name),
		Path:     "/",
		MaxAge:   int(viewerCookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func historyLimit(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return 0, errInvalidLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return limit, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}
