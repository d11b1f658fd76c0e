package scheduler

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/codr1/openhours/internal/hours"
	"github.com/codr1/openhours/internal/monitor"
	"github.com/codr1/openhours/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := New()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Stop()
	})
	return svc
}

func TestServiceInstance_NotInitialized(t *testing.T) {
	if service != nil {
		t.Skip("singleton already initialized")
	}
	if _, err := ServiceInstance(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("error = %v, want ErrNotInitialized", err)
	}
	if _, err := AddIntervalJob("x", time.Second, func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("error = %v, want ErrNotInitialized", err)
	}
}

func TestAddJob_Validation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name    string
		add     func() error
		wantErr error
	}{
		{
			name: "cron_empty_name",
			add: func() error {
				_, err := svc.AddJob(" ", "* * * * *", func() {})
				return err
			},
			wantErr: ErrEmptyJobName,
		},
		{
			name: "cron_empty_expr",
			add: func() error {
				_, err := svc.AddJob("job", "", func() {})
				return err
			},
			wantErr: ErrEmptyCronExpr,
		},
		{
			name: "interval_zero",
			add: func() error {
				_, err := svc.AddIntervalJob("job", 0, func() {})
				return err
			},
			wantErr: ErrInvalidInterval,
		},
		{
			name: "interval_empty_name",
			add: func() error {
				_, err := svc.AddIntervalJob("", time.Second, func() {})
				return err
			},
			wantErr: ErrEmptyJobName,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.add(); !errors.Is(err, test.wantErr) {
				t.Fatalf("error = %v, want %v", err, test.wantErr)
			}
		})
	}

	var nilService *Service
	if _, err := nilService.AddIntervalJob("job", time.Second, func() {}); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("nil service error = %v", err)
	}
}

func TestAddIntervalJob_RunsImmediately(t *testing.T) {
	svc := newTestService(t)
	ran := make(chan struct{}, 1)

	job, err := svc.AddIntervalJob("tick", time.Hour, func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	if job.Name() != "tick" {
		t.Fatalf("job name = %q", job.Name())
	}
	svc.Start()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatalf("interval job did not run on start")
	}
}

func TestRegisterStatusRefreshJob(t *testing.T) {
	svc := newTestService(t)

	if err := svc.RegisterStatusRefreshJob(nil, 0); err == nil {
		t.Fatalf("expected error for nil monitor")
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	engine, err := hours.NewEngine(hours.StandardSchedule(), loc)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	m, err := monitor.New(engine)
	if err != nil {
		t.Fatalf("new monitor: %v", err)
	}

	updates, cancel := m.Subscribe()
	defer cancel()

	if err := svc.RegisterStatusRefreshJob(m, 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	svc.Start()

	select {
	case snapshot := <-updates:
		if snapshot.ComputedAt.IsZero() {
			t.Fatalf("snapshot missing computation time")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("refresh job did not publish a snapshot")
	}
}

func TestRegisterHistoryPruneJob(t *testing.T) {
	svc := newTestService(t)

	if err := svc.RegisterHistoryPruneJob(nil, 10); err == nil {
		t.Fatalf("expected error for nil database")
	}
	if err := svc.RegisterHistoryPruneJob(testutil.NewTestDB(t), 10); err != nil {
		t.Fatalf("register: %v", err)
	}

	jobs := svc.Jobs()
	if len(jobs) != 1 || jobs[0].Name() != historyPruneJobName {
		t.Fatalf("jobs = %v", jobs)
	}
}
