// Package domain contains core domain types for the MindCraft game server.
package domain

import (
	"time"
)

// User is an anonymous player identified per device.
type User struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IdleFor reports how long the player has been inactive.
func (u *User) IdleFor(now time.Time) time.Duration {
	idle := now.Sub(u.LastSeenAt)
	if idle < 0 {
		return 0
	}
	return idle
}
