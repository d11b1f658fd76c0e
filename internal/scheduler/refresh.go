package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/db"
	"github.com/codr1/openhours/internal/monitor"
)

const (
	DefaultRefreshInterval = 30 * time.Second

	statusRefreshJobName = "status_refresh"
	historyPruneJobName  = "status_history_prune"
	historyPruneCron     = "15 3 * * *"
	historyPruneTimeout  = time.Minute
)

// RegisterStatusRefreshJob refreshes the monitor on the singleton scheduler.
func RegisterStatusRefreshJob(m *monitor.Monitor, interval time.Duration) error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.RegisterStatusRefreshJob(m, interval)
}

// RegisterStatusRefreshJob refreshes the monitor every interval (30s when
// interval is zero). Each run is bounded by the interval.
func (s *Service) RegisterStatusRefreshJob(m *monitor.Monitor, interval time.Duration) error {
	if m == nil {
		return fmt.Errorf("status refresh job requires monitor")
	}
	if interval == 0 {
		interval = DefaultRefreshInterval
	}

	jobLogger := log.With().
		Str("component", "status_refresh_job").
		Str("job_name", statusRefreshJobName).
		Logger()

	_, err := s.AddIntervalJob(statusRefreshJobName, interval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		snapshot, err := m.Refresh(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to refresh business status")
			return
		}
		jobLogger.Debug().
			Bool("is_open", snapshot.Status.IsOpen).
			Time("computed_at", snapshot.ComputedAt).
			Msg("Business status refreshed")
	})
	return err
}

// RegisterHistoryPruneJob trims the status history on the singleton scheduler.
func RegisterHistoryPruneJob(database *db.DB, retention int) error {
	svc, err := ServiceInstance()
	if err != nil {
		return err
	}
	return svc.RegisterHistoryPruneJob(database, retention)
}

// RegisterHistoryPruneJob trims the status history to retention rows once a
// day, catching up after retention is lowered in config.
func (s *Service) RegisterHistoryPruneJob(database *db.DB, retention int) error {
	if database == nil {
		return fmt.Errorf("history prune job requires database")
	}
	if retention <= 0 {
		retention = db.DefaultHistoryRetention
	}

	jobLogger := log.With().
		Str("component", "status_history_prune_job").
		Str("job_name", historyPruneJobName).
		Str("cron", historyPruneCron).
		Logger()

	_, err := s.AddJob(historyPruneJobName, historyPruneCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyPruneTimeout)
		defer cancel()

		removed, err := database.Queries.PruneStatusTransitions(ctx, int64(retention))
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to prune status history")
			return
		}
		jobLogger.Info().Int64("removed", removed).Msg("Status history pruned")
	})
	return err
}
