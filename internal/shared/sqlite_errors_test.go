//nolint:revive // test package mirrors production package name.
package shared

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"modernc.org/sqlite"
)

func TestIsSQLiteConflictError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY: database busy"), true},
		{errors.New("database is locked"), true},
		{errors.New("no such table"), false},
	}
	for _, tt := range tests {
		if got := IsSQLiteConflictError(tt.err); got != tt.want {
			t.Errorf("IsSQLiteConflictError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRetryOnConflictRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}, "test", func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryOnConflictStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := RetryOnConflict(context.Background(), RetryPolicy{Attempts: 5, BaseDelay: time.Millisecond}, "test", func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("expected single call returning boom, got %d calls err=%v", calls, err)
	}
}

func TestRetryOnConflictGivesUp(t *testing.T) {
	calls := 0
	err := RetryOnConflict(context.Background(), RetryPolicy{Attempts: 2, BaseDelay: time.Millisecond}, "test", func() error {
		calls++
		return errors.New("SQLITE_BUSY")
	})
	if !IsSQLiteConflictError(err) || calls != 2 {
		t.Fatalf("expected 2 calls ending in conflict, got %d err=%v", calls, err)
	}
}

func TestIsSQLiteConflictErrorFromDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "busy.db")
	holder, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer holder.Close()
	other, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer other.Close()

	if _, err := holder.Exec(`CREATE TABLE t (x INTEGER)`); err != nil {
		t.Fatal(err)
	}
	tx, err := holder.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.Exec(`INSERT INTO t (x) VALUES (1)`); err != nil {
		t.Fatal(err)
	}

	// The open write transaction holds the lock; no busy timeout is set.
	_, err = other.Exec(`INSERT INTO t (x) VALUES (2)`)
	var driverErr *sqlite.Error
	if !errors.As(err, &driverErr) {
		t.Fatalf("expected a driver error, got %T: %v", err, err)
	}
	if !IsSQLiteConflictError(fmt.Errorf("save progress: %w", err)) {
		t.Fatalf("expected conflict classification for %v (code %d)", err, driverErr.Code())
	}
}

func TestDriverErrorWithOtherCodeIsNotConflict(t *testing.T) {
	if IsSQLiteConflictError(&sqlite.Error{}) {
		t.Fatal("expected a non-busy driver error not to be a conflict")
	}
}
