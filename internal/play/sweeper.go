package play

import (
	"context"
	"log/slog"
	"time"
)

const sweepInterval = time.Minute

// Sweep closes sessions with no client activity for longer than ttl and
// returns how many were closed.
func (m *Manager) Sweep(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.RLock()
	var expired []*Session
	for _, sessions := range m.active {
		for _, s := range sessions {
			if s.IdleSince().Before(cutoff) {
				expired = append(expired, s)
			}
		}
	}
	m.mu.RUnlock()

	for _, s := range expired {
		m.Close(s, "idle timeout")
	}
	return len(expired)
}

// StartSweeper runs a background goroutine that periodically closes idle
// sessions until ctx is done.
func (m *Manager) StartSweeper(ctx context.Context, ttl time.Duration) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		slog.Info("Play session sweeper started", "interval", sweepInterval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				if n := m.Sweep(ttl); n > 0 {
					slog.Info("Play session sweeper closed idle sessions", "count", n)
				}
			case <-ctx.Done():
				slog.Info("Play session sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}
