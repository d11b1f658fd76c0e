package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/codr1/openhours/internal/monitor"
)

const DefaultHistoryRetention = 500

// TransitionRecorder stores monitor transitions and trims the table to the
// newest Retention rows.
type TransitionRecorder struct {
	DB        *DB
	Retention int64
}

func NewTransitionRecorder(database *DB, retention int) *TransitionRecorder {
	if retention <= 0 {
		retention = DefaultHistoryRetention
	}
	return &TransitionRecorder{DB: database, Retention: int64(retention)}
}

func (r *TransitionRecorder) RecordTransition(ctx context.Context, transition monitor.Transition) error {
	return r.DB.RunInTx(ctx, func(tx *DB) error {
		if _, err := tx.Queries.InsertStatusTransition(ctx, InsertStatusTransitionParams{
			IsOpen:        transition.IsOpen,
			ObservedAt:    transition.ObservedAt,
			BoundaryAt:    toNullTime(transition.Boundary),
			NextOpeningAt: toNullTime(transition.NextOpening),
		}); err != nil {
			return fmt.Errorf("insert status transition: %w", err)
		}
		if _, err := tx.Queries.PruneStatusTransitions(ctx, r.Retention); err != nil {
			return fmt.Errorf("prune status transitions: %w", err)
		}
		return nil
	})
}

func toNullTime(value *time.Time) sql.NullTime {
	if value == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *value, Valid: true}
}
