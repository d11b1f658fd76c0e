// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/api"
	"github.com/codr1/openhours/internal/api/businesshours"
	"github.com/codr1/openhours/internal/api/nav"
	"github.com/codr1/openhours/internal/api/operatinghours"
	"github.com/codr1/openhours/internal/api/themes"
	"github.com/codr1/openhours/internal/config"
	"github.com/codr1/openhours/internal/db"
	"github.com/codr1/openhours/internal/display"
	"github.com/codr1/openhours/internal/models"
	"github.com/codr1/openhours/internal/monitor"
	"github.com/codr1/openhours/internal/ratelimit"
)

type serverDeps struct {
	database *db.DB
	monitor  *monitor.Monitor
	themes   models.ThemeSet
	limiter  *ratelimit.Limiter
}

func newServer(cfg *config.Config, deps serverDeps) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	businesshours.InitHandlers(businesshours.Dependencies{
		Monitor:         deps.monitor,
		Queries:         deps.database.Queries,
		BusinessName:    cfg.Business.Name,
		Address:         cfg.Business.Address,
		DefaultViewer:   display.NewViewer(cfg.ViewerLocation()),
		RefreshInterval: cfg.Refresh.Interval,
		Themes:          deps.themes,
	})
	operatinghours.InitHandlers(deps.monitor.Engine())
	themes.InitHandlers(deps.themes)
	nav.InitHandlers(deps.themes)

	// Register routes
	registerRoutes(router, cfg.App.StaticDir, deps.limiter)

	// No WriteTimeout: live status connections stay open.
	return &http.Server{
		Addr:        ":" + strconv.Itoa(cfg.App.Port),
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, staticDir string, limiter *ratelimit.Limiter) {
	// Main page handler
	mux.HandleFunc("GET /{$}", businesshours.HandleHoursPage)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Business hours routes
	mux.HandleFunc("GET /api/v1/hours/status", businesshours.HandleStatus)
	mux.HandleFunc("GET /api/v1/hours/badge", businesshours.HandleBadge)
	mux.HandleFunc("GET /api/v1/hours/week", businesshours.HandleWeek)
	mux.Handle("GET /api/v1/hours/next-opening.ics", limiter.Middleware("ics")(http.HandlerFunc(businesshours.HandleNextOpeningICS)))
	mux.Handle("GET /api/v1/hours/live", limiter.Middleware("live")(http.HandlerFunc(businesshours.HandleLive)))
	mux.HandleFunc("GET /api/v1/hours/history", businesshours.HandleHistory)
	mux.HandleFunc("GET /api/v1/hours/schedule", operatinghours.HandleSchedule)

	// Presentation state routes
	mux.HandleFunc("GET /api/v1/ui/themes", themes.HandleThemesList)
	mux.HandleFunc("POST /api/v1/ui/theme", themes.HandleThemeCycle)
	mux.HandleFunc("GET /api/v1/nav/menu", nav.HandleMenu)
	mux.HandleFunc("POST /api/v1/nav/toggle", nav.HandleToggle)

	if staticDir == "" {
		return
	}
	fs := http.FileServer(http.Dir(staticDir))

	// Add logging middleware for static files
	mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
