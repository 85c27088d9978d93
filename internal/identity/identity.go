// Package identity gives every browser a durable anonymous player.
//
// The first request from a device gets a random player ID in a long-lived
// cookie, and the player is created in the store with starting progress
// (level 1, 0 XP, 100 coins, area 1 unlocked) and an empty inventory. Later
// requests reuse the cookie and refresh its expiry. Each browser tab adds its
// own session ID so the play channel can keep one engine per tab.
package identity

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/store"
	"github.com/google/uuid"
)

const (
	AnonCookieName        = "mindcraft_player_id"
	SessionHeaderName     = "X-MindCraft-Session-ID"
	DefaultSessionIDValue = "default"
	anonCookieMaxAge      = 90 * 24 * time.Hour
)

type contextKey int

const (
	userIDKey contextKey = iota
	usernameKey
	sessionIDKey
)

var (
	anonIDPattern    = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// UsernameFromContext extracts the username from the request context.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the tab session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultSessionIDValue
}

func generateAnonID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + strings.ReplaceAll(id.String(), "-", ""), nil
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return DefaultSessionIDValue
	}
	return id
}

func deriveUsername(userID string) string {
	if len(userID) > 13 {
		return "player-" + userID[len(userID)-8:]
	}
	return "player"
}

// ensureUser makes sure userID exists as a player. A known player is left
// untouched; an unknown one is inserted and seeded through InitPlayer, so the
// progress and inventory endpoints never see a missing row.
func ensureUser(ctx context.Context, repo store.Repository, userID string) error {
	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user != nil {
		return nil
	}

	now := time.Now()
	if err := repo.UpsertUser(ctx, &domain.User{
		UserID:     userID,
		Username:   deriveUsername(userID),
		LastSeenAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return err
	}
	return repo.InitPlayer(ctx, userID)
}

// WithUser returns ctx carrying userID, its display name and the sanitized
// sessionID. It does not touch the store; callers outside Middleware must
// have seeded the player already.
func WithUser(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, usernameKey, deriveUsername(userID))
	return context.WithValue(ctx, sessionIDKey, sanitizeSessionID(sessionID))
}

// setPlayerCookie writes (or refreshes) the player cookie for another full
// lifetime.
func setPlayerCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func playerIDFromRequest(w http.ResponseWriter, r *http.Request, isDev bool) (string, error) {
	var id string
	if c, err := r.Cookie(AnonCookieName); err == nil && isValidAnonID(c.Value) {
		id = c.Value
	} else {
		fresh, err := generateAnonID()
		if err != nil {
			return "", err
		}
		id = fresh
	}
	setPlayerCookie(w, id, isDev)
	return id, nil
}

func sessionIDFromRequest(r *http.Request) string {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	return sanitizeSessionID(sid)
}

// Middleware resolves the player for every request: it reads or issues the
// player cookie, creates and seeds the player on first contact, and stores
// the player ID, display name and tab session ID in the request context.
// A store failure answers 500 without calling next.
func Middleware(repo store.Repository, isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := playerIDFromRequest(w, r, isDev)
			if err != nil {
				http.Error(w, `{"error":"failed to establish anonymous identity"}`, http.StatusInternalServerError)
				return
			}

			if err := ensureUser(r.Context(), repo, userID); err != nil {
				http.Error(w, `{"error":"failed to initialize anonymous user"}`, http.StatusInternalServerError)
				return
			}

			ctx := WithUser(r.Context(), userID, sessionIDFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPFromRequest returns a normalized remote IP for optional request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
