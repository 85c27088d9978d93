// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

// Repository defines the interface for persisting players, their progression
// and their inventory.
type Repository interface {
	// GetUser retrieves a user by their user ID.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// InitPlayer seeds starting progress and an empty inventory for a user
	// that has none. Existing rows are left untouched.
	InitPlayer(ctx context.Context, userID string) error

	// GetProgress returns the stored progression, or nil if none exists.
	GetProgress(ctx context.Context, userID string) (*domain.ProgressSnapshot, error)

	// SaveProgress writes absolute totals, stamps last_save and recomputes
	// achievements.
	SaveProgress(ctx context.Context, userID string, update domain.ProgressUpdate) error

	// GetInventory returns the stored inventory, or nil if none exists.
	GetInventory(ctx context.Context, userID string) (*domain.Inventory, error)

	// SaveInventory replaces the stored inventory.
	SaveInventory(ctx context.Context, userID string, inv domain.Inventory) error

	// AddItem increments the count of one collected item.
	AddItem(ctx context.Context, userID string, item string) error

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
