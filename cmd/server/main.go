// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/codr1/openhours/internal/config"
	"github.com/codr1/openhours/internal/db"
	"github.com/codr1/openhours/internal/hours"
	"github.com/codr1/openhours/internal/models"
	"github.com/codr1/openhours/internal/monitor"
	"github.com/codr1/openhours/internal/ratelimit"
	"github.com/codr1/openhours/internal/scheduler"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// loadThemes reads the configured themes and applies the configured default.
func loadThemes(cfg *config.Config) (models.ThemeSet, error) {
	themes, err := models.LoadThemes(cfg.UI.ThemesFile)
	if err != nil {
		return models.ThemeSet{}, err
	}
	if name := cfg.UI.DefaultTheme; name != "" {
		if themes.Lookup(name).Name != name {
			return models.ThemeSet{}, fmt.Errorf("default theme %q not found", name)
		}
		themes.Default = name
	}
	return themes, nil
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)
	shutdownTimeout := time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 30)) * time.Second

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	engine, err := hours.NewEngine(cfg.Schedule(), cfg.BusinessLocation())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build schedule engine")
	}

	statusMonitor, err := monitor.New(engine,
		monitor.WithRecorder(db.NewTransitionRecorder(database, cfg.History.Retention)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create status monitor")
	}

	themes, err := loadThemes(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load themes")
	}

	if err := scheduler.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := scheduler.RegisterStatusRefreshJob(statusMonitor, cfg.Refresh.Interval); err != nil {
		log.Fatal().Err(err).Msg("Failed to register status refresh job")
	}
	if err := scheduler.RegisterHistoryPruneJob(database, cfg.History.Retention); err != nil {
		log.Fatal().Err(err).Msg("Failed to register history prune job")
	}

	log.Info().
		Str("business", cfg.Business.Name).
		Str("timezone", cfg.Business.Timezone).
		Dur("refresh_interval", cfg.Refresh.Interval).
		Msg("Schedule engine ready")

	limiter := ratelimit.New(&ratelimit.Config{
		MaxPerWindow: cfg.RateLimit.PerMinute,
		Window:       time.Minute,
		TrustProxy:   cfg.RateLimit.TrustProxy,
	})
	defer limiter.Close()

	server := newServer(cfg, serverDeps{
		database: database,
		monitor:  statusMonitor,
		themes:   themes,
		limiter:  limiter,
	})

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Run server
	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Wait for interrupt signal
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}

		log.Info().Msg("Shutting down server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
