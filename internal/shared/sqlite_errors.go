// Package shared provides common utilities used across the codebase.
//
//nolint:revive // "shared" is an intentional package name for cross-cutting helpers.
package shared

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// sqliteCode returns the primary result code of a driver error.
func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, false
	}
	// Extended codes carry the primary code in the low byte.
	return sqliteErr.Code() & 0xff, true
}

// IsSQLiteBusyError checks if the error is a SQLITE_BUSY error.
// This occurs when the database is locked by another connection.
func IsSQLiteBusyError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.SQLITE_BUSY
	}
	return strings.Contains(err.Error(), "SQLITE_BUSY")
}

// IsSQLiteLockedError checks if the error is a SQLITE_LOCKED or
// "database is locked" error.
func IsSQLiteLockedError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		return code == sqlite3.SQLITE_LOCKED
	}
	return strings.Contains(err.Error(), "database is locked")
}

// IsSQLiteConflictError checks if the error is either a SQLITE_BUSY
// or SQLITE_LOCKED error.
func IsSQLiteConflictError(err error) bool {
	if err == nil {
		return false
	}
	return IsSQLiteBusyError(err) || IsSQLiteLockedError(err)
}

// RetryPolicy bounds RetryOnConflict.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

// DefaultRetryPolicy retries three times: 100ms, 200ms, 400ms.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, BaseDelay: 100 * time.Millisecond}

// RetryOnConflict runs fn, retrying with exponential backoff while it fails
// with a SQLite conflict error. Other errors are returned immediately.
func RetryOnConflict(ctx context.Context, p RetryPolicy, op string, fn func() error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}

	var err error
	for i := 0; i < p.Attempts; i++ {
		err = fn()
		if err == nil || !IsSQLiteConflictError(err) {
			return err
		}
		if i == p.Attempts-1 {
			break
		}

		delay := p.BaseDelay * time.Duration(1<<i)
		slog.Debug("SQLite conflict, retrying", "op", op, "attempt", i+1, "delay", delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
