package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type StatusTransition struct {
	ID            int64        `json:"id"`
	IsOpen        bool         `json:"isOpen"`
	ObservedAt    time.Time    `json:"observedAt"`
	BoundaryAt    sql.NullTime `json:"-"`
	NextOpeningAt sql.NullTime `json:"-"`
	CreatedAt     time.Time    `json:"createdAt"`
}

const insertStatusTransition = `
INSERT INTO status_transitions (is_open, observed_at, boundary_at, next_opening_at)
VALUES (?, ?, ?, ?)
`

type InsertStatusTransitionParams struct {
	IsOpen        bool
	ObservedAt    time.Time
	BoundaryAt    sql.NullTime
	NextOpeningAt sql.NullTime
}

func (q *Queries) InsertStatusTransition(ctx context.Context, arg InsertStatusTransitionParams) (StatusTransition, error) {
	result, err := q.db.ExecContext(ctx, insertStatusTransition,
		arg.IsOpen,
		arg.ObservedAt.UTC(),
		nullTimeUTC(arg.BoundaryAt),
		nullTimeUTC(arg.NextOpeningAt),
	)
	if err != nil {
		return StatusTransition{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return StatusTransition{}, err
	}
	return q.GetStatusTransition(ctx, id)
}

const getStatusTransition = `
SELECT id, is_open, observed_at, boundary_at, next_opening_at, created_at
FROM status_transitions
WHERE id = ?
`

func (q *Queries) GetStatusTransition(ctx context.Context, id int64) (StatusTransition, error) {
	row := q.db.QueryRowContext(ctx, getStatusTransition, id)
	var i StatusTransition
	err := row.Scan(
		&i.ID,
		&i.IsOpen,
		&i.ObservedAt,
		&i.BoundaryAt,
		&i.NextOpeningAt,
		&i.CreatedAt,
	)
	return i, err
}

const listStatusTransitions = `
SELECT id, is_open, observed_at, boundary_at, next_opening_at, created_at
FROM status_transitions
ORDER BY observed_at DESC, id DESC
LIMIT ?
`

// ListStatusTransitions returns the newest transitions first.
func (q *Queries) ListStatusTransitions(ctx context.Context, limit int64) ([]StatusTransition, error) {
	rows, err := q.db.QueryContext(ctx, listStatusTransitions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []StatusTransition{}
	for rows.Next() {
		var i StatusTransition
		if err := rows.Scan(
			&i.ID,
			&i.IsOpen,
			&i.ObservedAt,
			&i.BoundaryAt,
			&i.NextOpeningAt,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const pruneStatusTransitions = `
DELETE FROM status_transitions
WHERE id NOT IN (
    SELECT id FROM status_transitions
    ORDER BY observed_at DESC, id DESC
    LIMIT ?
)
`

// PruneStatusTransitions keeps the newest keep rows and reports how many were removed.
func (q *Queries) PruneStatusTransitions(ctx context.Context, keep int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, pruneStatusTransitions, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func nullTimeUTC(value sql.NullTime) sql.NullTime {
	if value.Valid {
		value.Time = value.Time.UTC()
	}
	return value
}
