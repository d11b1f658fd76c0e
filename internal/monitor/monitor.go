// Package monitor keeps the current open/closed status fresh. Each refresh is
// a full recomputation from the clock; nothing is carried between refreshes
// except the last recorded open state, used to detect transitions.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/hours"
)

var ErrNilEngine = errors.New("monitor: engine is nil")

// Snapshot is the result of one refresh.
type Snapshot struct {
	ComputedAt time.Time        `json:"computedAt"`
	Status     hours.Status     `json:"status"`
	Week       []hours.DayHours `json:"-"`
}

// Transition is an observed open/closed flip. Boundary is the closing time
// when the business just opened.
type Transition struct {
	IsOpen      bool
	ObservedAt  time.Time
	Boundary    *time.Time
	NextOpening *time.Time
}

// Recorder persists transitions.
type Recorder interface {
	RecordTransition(ctx context.Context, transition Transition) error
}

type Option func(*Monitor)

func WithClock(clock clockwork.Clock) Option {
	return func(m *Monitor) {
		if clock != nil {
			m.clock = clock
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(m *Monitor) {
		m.recorder = recorder
	}
}

type Monitor struct {
	engine   *hours.Engine
	clock    clockwork.Clock
	recorder Recorder

	refreshMu sync.Mutex

	// recordedOpen is the last open state written to the recorder, or the
	// first observed state. It only advances once recording succeeds.
	recordedOpen *bool

	mu          sync.RWMutex
	subscribers map[int]chan Snapshot
	nextID      int
}

func New(engine *hours.Engine, opts ...Option) (*Monitor, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	m := &Monitor{
		engine:      engine,
		clock:       clockwork.NewRealClock(),
		subscribers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Monitor) Engine() *hours.Engine {
	return m.engine
}

func (m *Monitor) Clock() clockwork.Clock {
	return m.clock
}

// Compute evaluates the schedule at the current clock time. It neither
// records nor publishes the result.
func (m *Monitor) Compute() Snapshot {
	now := m.clock.Now()
	return Snapshot{
		ComputedAt: now,
		Status:     m.engine.Evaluate(now),
		Week:       m.engine.Week(now),
	}
}

// Refresh computes a snapshot, notifies subscribers, and records a transition
// when the open state differs from the last recorded one. A failed recording
// is retried by the next refresh.
func (m *Monitor) Refresh(ctx context.Context) (Snapshot, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	snapshot := m.Compute()

	m.mu.Lock()
	for _, ch := range m.subscribers {
		deliver(ch, snapshot)
	}
	m.mu.Unlock()

	isOpen := snapshot.Status.IsOpen
	if m.recordedOpen == nil {
		m.recordedOpen = &isOpen
		return snapshot, nil
	}
	if *m.recordedOpen == isOpen {
		return snapshot, nil
	}

	log.Ctx(ctx).Info().
		Bool("is_open", isOpen).
		Time("observed_at", snapshot.ComputedAt).
		Msg("Business status changed")

	if m.recorder != nil {
		transition := Transition{
			IsOpen:      isOpen,
			ObservedAt:  snapshot.ComputedAt,
			Boundary:    snapshot.Status.ClosesAt,
			NextOpening: snapshot.Status.OpensAt,
		}
		if err := m.recorder.RecordTransition(ctx, transition); err != nil {
			return snapshot, err
		}
	}
	m.recordedOpen = &isOpen
	return snapshot, nil
}

// Subscribe registers for snapshots produced by later refreshes. The
// channel holds at most one pending snapshot; a slow reader only sees the
// newest. Calling cancel closes the channel.
func (m *Monitor) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = ch
	m.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			m.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (m *Monitor) subscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// deliver replaces any pending snapshot with the new one.
func deliver(ch chan Snapshot, snapshot Snapshot) {
	for {
		select {
		case ch <- snapshot:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
