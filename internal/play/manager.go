// Package play runs one challenge engine per connected game tab and serves
// it over a WebSocket.
package play

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/challenge"
	"github.com/ashureev/mindcraft-labs/internal/engine"
	"github.com/ashureev/mindcraft-labs/internal/playlog"
	"github.com/ashureev/mindcraft-labs/internal/store"
	"github.com/google/uuid"
)

const updateQueueSize = 32

// Challenges issues challenges and grades answers for any player.
type Challenges interface {
	engine.Source
	challenge.Checker
}

// ManagerConfig wires a Manager to its collaborators.
type ManagerConfig struct {
	Repo       store.Repository
	Challenges Challenges
	Timing     engine.Timing
	Clock      engine.Clock
	PlayLog    playlog.Logger
	Logger     *slog.Logger
}

// Session is one play tab with its own engine.
type Session struct {
	ID     string
	UserID string
	TabID  string

	engine     *engine.Engine
	updates    chan engine.View
	lastActive atomic.Int64
	done       chan struct{}
	closeOnce  sync.Once
	log        playlog.Logger
}

// Engine returns the session's engine.
func (s *Session) Engine() *engine.Engine { return s.engine }

// Updates delivers a view after every engine transition.
func (s *Session) Updates() <-chan engine.View { return s.updates }

// Done is closed once the session has been shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Touch marks the session active.
func (s *Session) Touch(now time.Time) { s.lastActive.Store(now.UnixNano()) }

// IdleSince returns the time of the last client activity.
func (s *Session) IdleSince() time.Time { return time.Unix(0, s.lastActive.Load()) }

// publish runs on the engine loop and must not block. When the client falls
// behind the oldest queued view is dropped.
func (s *Session) publish(v engine.View) {
	s.log.Log(playlog.Event{
		UserID:    s.UserID,
		SessionID: s.ID,
		EventType: "transition",
		State:     v.State.String(),
		Category:  string(v.Category),
		Challenge: challengeIdentity(v),
		Attempts:  v.Attempts,
		QueueLen:  v.QueueLen,
		XP:        v.Progress.XP,
		Level:     v.Progress.Level,
		Error:     v.Error,
	})

	select {
	case s.updates <- v:
		return
	default:
	}
	select {
	case <-s.updates:
	default:
	}
	select {
	case s.updates <- v:
	default:
	}
}

func (s *Session) shutdown(reason string) {
	s.closeOnce.Do(func() {
		s.engine.Shutdown()
		close(s.done)
		s.log.Log(playlog.Event{UserID: s.UserID, SessionID: s.ID, EventType: "session_end", Error: reason})
	})
}

func challengeIdentity(v engine.View) string {
	if v.Challenge == nil {
		return ""
	}
	return v.Challenge.Identity()
}

// Manager tracks live play sessions per player and tab.
type Manager struct {
	cfg    ManagerConfig
	logger *slog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	active map[string]map[string]*Session
}

// NewManager creates a session manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.PlayLog == nil {
		cfg.PlayLog = playlog.Noop()
	}
	return &Manager{
		cfg:    cfg,
		logger: cfg.Logger,
		now:    time.Now,
		active: make(map[string]map[string]*Session),
	}
}

// Open starts a session for a player tab, seeded with the player's stored
// progress. An existing session for the same tab is shut down.
func (m *Manager) Open(ctx context.Context, userID, tabID string) (*Session, error) {
	progress := store.ForPlayer(m.cfg.Repo, userID)
	initial, err := progress.ReadProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}

	s := &Session{
		ID:      uuid.NewString(),
		UserID:  userID,
		TabID:   tabID,
		updates: make(chan engine.View, updateQueueSize),
		done:    make(chan struct{}),
		log:     m.cfg.PlayLog,
	}
	s.Touch(m.now())
	s.engine = engine.New(engine.Config{
		Source:   m.cfg.Challenges,
		Verifier: challenge.ForPlayer(m.cfg.Challenges, userID),
		Progress: progress,
		Initial:  initial,
		Clock:    m.cfg.Clock,
		Timing:   m.cfg.Timing,
		Logger:   m.logger.With("user_id", userID, "session_id", s.ID),
		OnChange: s.publish,
	})

	m.mu.Lock()
	if _, exists := m.active[userID]; !exists {
		m.active[userID] = make(map[string]*Session)
	}
	existing := m.active[userID][tabID]
	m.active[userID][tabID] = s
	m.mu.Unlock()

	if existing != nil {
		existing.shutdown("session replaced")
	}

	s.log.Log(playlog.Event{UserID: userID, SessionID: s.ID, EventType: "session_start", XP: initial.XP, Level: initial.Level})
	m.logger.Info("Play session opened", "user_id", userID, "tab_id", tabID, "session_id", s.ID)
	return s, nil
}

// Get returns the live session for a player tab.
func (m *Manager) Get(userID, tabID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sessions, ok := m.active[userID]; ok {
		return sessions[tabID]
	}
	return nil
}

// Close shuts a session down and forgets it if it is still current.
func (m *Manager) Close(s *Session, reason string) {
	m.mu.Lock()
	if sessions, ok := m.active[s.UserID]; ok {
		if current, exists := sessions[s.TabID]; exists && current == s {
			delete(sessions, s.TabID)
			if len(sessions) == 0 {
				delete(m.active, s.UserID)
			}
		}
	}
	m.mu.Unlock()

	s.shutdown(reason)
	m.logger.Info("Play session closed", "user_id", s.UserID, "session_id", s.ID, "reason", reason)
}

// CloseUser shuts down every session of a player.
func (m *Manager) CloseUser(userID string) {
	m.mu.Lock()
	sessions := m.active[userID]
	delete(m.active, userID)
	m.mu.Unlock()

	for _, s := range sessions {
		s.shutdown("player sessions closed")
	}
}

// CloseAll shuts down every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := m.active
	m.active = make(map[string]map[string]*Session)
	m.mu.Unlock()

	for _, sessions := range all {
		for _, s := range sessions {
			s.shutdown("server shutdown")
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, sessions := range m.active {
		n += len(sessions)
	}
	return n
}
