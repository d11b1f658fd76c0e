package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestEnsureForeignKeysEnabledDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{name: "plain", dsn: "data/hours.db", want: "data/hours.db?_fk=1"},
		{name: "with_query", dsn: "file:hours.db?cache=shared", want: "file:hours.db?cache=shared&_fk=1"},
		{name: "already_set", dsn: "hours.db?_fk=0", want: "hours.db?_fk=0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ensureForeignKeysEnabledDSN(test.dsn); got != test.want {
				t.Fatalf("ensureForeignKeysEnabledDSN(%q) = %q, want %q", test.dsn, got, test.want)
			}
		})
	}
}

func TestNew_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hours.db")

	first, err := New(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	first.Close()

	second, err := New(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	var count int
	if err := second.QueryRow("SELECT COUNT(*) FROM status_transitions").Scan(&count); err != nil {
		t.Fatalf("query table: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestRunInTx_RollsBack(t *testing.T) {
	database, err := New(filepath.Join(t.TempDir(), "hours.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	failure := errors.New("boom")
	err = database.RunInTx(ctx, func(tx *DB) error {
		if _, err := tx.Queries.InsertStatusTransition(ctx, InsertStatusTransitionParams{IsOpen: true}); err != nil {
			t.Fatalf("insert: %v", err)
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("RunInTx error = %v, want %v", err, failure)
	}

	rows, err := database.Queries.ListStatusTransitions(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want rollback to leave 0", len(rows))
	}
}
