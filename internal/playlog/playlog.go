// Package playlog writes play-session events as NDJSON, one file per player
// session, from a background worker.
package playlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// Config controls play logging.
type Config struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Event is one logged play-session record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	EventType string    `json:"event_type"`
	State     string    `json:"state,omitempty"`
	Category  string    `json:"category,omitempty"`
	Challenge string    `json:"challenge,omitempty"`
	Answer    string    `json:"answer,omitempty"`
	Correct   *bool     `json:"correct,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	QueueLen  int       `json:"retry_queue_len,omitempty"`
	XP        int       `json:"xp,omitempty"`
	Level     int       `json:"level,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Logger records play events.
type Logger interface {
	Log(Event)
	Close() error
}

type noopLogger struct{}

func (noopLogger) Log(Event)    {}
func (noopLogger) Close() error { return nil }

// Noop returns a Logger that discards everything.
func Noop() Logger { return noopLogger{} }

var unsafePathChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

type fileLogger struct {
	dir    string
	queue  chan Event
	logger *slog.Logger

	mu      sync.Mutex
	closed  bool
	dropped int

	files map[string]*os.File
	done  chan struct{}
}

// New creates a play logger. A disabled config yields a no-op logger.
func New(cfg Config, logger *slog.Logger) (Logger, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create play log directory: %w", err)
	}

	l := &fileLogger{
		dir:    cfg.Dir,
		queue:  make(chan Event, cfg.QueueSize),
		logger: logger,
		files:  make(map[string]*os.File),
		done:   make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// Log enqueues an event. When the queue is full the oldest event is dropped.
func (l *fileLogger) Log(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	select {
	case l.queue <- ev:
		return
	default:
	}

	select {
	case <-l.queue:
		l.dropped++
	default:
	}
	select {
	case l.queue <- ev:
	default:
		l.dropped++
	}
	if l.dropped%100 == 1 {
		l.logger.Warn("Play log queue full, dropping events", "dropped", l.dropped)
	}
}

func (l *fileLogger) run() {
	defer close(l.done)
	for ev := range l.queue {
		if err := l.write(ev); err != nil {
			l.logger.Warn("Failed to write play log event", "error", err, "user_id", ev.UserID, "session_id", ev.SessionID)
		}
	}
	for key, f := range l.files {
		if err := f.Close(); err != nil {
			l.logger.Warn("Failed to close play log file", "error", err, "file", key)
		}
	}
}

func (l *fileLogger) write(ev Event) error {
	f, err := l.fileFor(ev.UserID, ev.SessionID)
	if err != nil {
		return err
	}
	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	line = append(line, '\n')
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (l *fileLogger) fileFor(userID, sessionID string) (*os.File, error) {
	user := sanitize(userID, "unknown")
	session := sanitize(sessionID, "default")
	key := user + "/" + session
	if f, ok := l.files[key]; ok {
		return f, nil
	}

	dir := filepath.Join(l.dir, user)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create player log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, session+".ndjson"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open play log: %w", err)
	}
	l.files[key] = f
	return f, nil
}

// Close stops accepting events, flushes the queue and closes all files.
func (l *fileLogger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	select {
	case <-l.done:
	case <-time.After(5 * time.Second):
		l.logger.Warn("Play log flush timeout", "queue_remaining", len(l.queue))
	}
	return nil
}

func sanitize(s, fallback string) string {
	s = unsafePathChars.ReplaceAllString(s, "_")
	if s == "" || s == "." || s == ".." {
		return fallback
	}
	return s
}
