package play

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/engine"
	"github.com/ashureev/mindcraft-labs/internal/identity"
	"github.com/ashureev/mindcraft-labs/internal/playlog"
	"github.com/ashureev/mindcraft-labs/internal/store"
	"github.com/coder/websocket"
)

// WebSocketHandler serves the play channel.
type WebSocketHandler struct {
	sm             *Manager
	repo           store.Repository
	allowedOrigins []string
	isDev          bool
}

// NewWebSocketHandler creates a new play channel handler.
func NewWebSocketHandler(sm *Manager, repo store.Repository, allowedOrigins []string, isDev bool) *WebSocketHandler {
	return &WebSocketHandler{
		sm:             sm,
		repo:           repo,
		allowedOrigins: allowedOrigins,
		isDev:          isDev,
	}
}

// clientMessage is a message sent by the game client.
type clientMessage struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

type submissionMessage struct {
	Accepted   bool                    `json:"accepted"`
	Resolution engine.State            `json:"resolution"`
	Result     *domain.ChallengeResult `json:"result,omitempty"`
}

// serverMessage is a message sent to the game client.
type serverMessage struct {
	Type       string                   `json:"type"`
	SessionID  string                   `json:"session_id,omitempty"`
	View       *engine.View             `json:"view,omitempty"`
	Progress   *domain.ProgressSnapshot `json:"progress,omitempty"`
	Inventory  *domain.Inventory        `json:"inventory,omitempty"`
	Stages     []domain.Stage           `json:"stages,omitempty"`
	Submission *submissionMessage       `json:"submission,omitempty"`
	Op         string                   `json:"op,omitempty"`
	Code       string                   `json:"code,omitempty"`
	Error      string                   `json:"error,omitempty"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	tabID := identity.SessionIDFromContext(r.Context())
	slog.Info("Play connection request", "user_id", userID, "tab_id", tabID, "ip", identity.IPFromRequest(r))

	if userID == "" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session, err := h.sm.Open(ctx, userID, tabID)
	if err != nil {
		slog.Error("Failed to open play session", "error", err, "user_id", userID)
		_ = writeJSON(ctx, ws, serverMessage{Type: "error", Code: "session_failed", Error: "failed to open play session"})
		return
	}
	defer h.sm.Close(session, "connection closed")

	if err := h.sendHello(ctx, ws, session); err != nil {
		slog.Debug("Failed to send hello", "error", err, "user_id", userID)
		return
	}

	out := make(chan serverMessage, 16)
	var wg, ops sync.WaitGroup
	wg.Add(2)

	// Output loop: engine views and replies -> WebSocket.
	go func() {
		defer wg.Done()
		defer cancel()
		h.outputLoop(ctx, ws, session, out)
	}()

	// Input loop: WebSocket -> engine.
	go func() {
		defer wg.Done()
		defer cancel()
		h.inputLoop(ctx, ws, session, out, &ops)
	}()

	wg.Wait()
	// Engine calls still in flight return once ctx is cancelled.
	ops.Wait()
	slog.Info("Play session ended", "user_id", userID, "session_id", session.ID)
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(h.allowedOrigins, "*") || slices.Contains(h.allowedOrigins, origin) {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigins)
	return false
}

func (h *WebSocketHandler) sendHello(ctx context.Context, ws *websocket.Conn, s *Session) error {
	view := s.Engine().View()
	msg := serverMessage{
		Type:      "hello",
		SessionID: s.ID,
		Progress:  &view.Progress,
		Stages:    domain.Stages,
		View:      &view,
	}

	inv, err := h.repo.GetInventory(ctx, s.UserID)
	if err != nil {
		slog.Warn("Failed to load inventory for hello", "error", err, "user_id", s.UserID)
	}
	if inv == nil {
		empty := domain.NewInventory()
		inv = &empty
	}
	msg.Inventory = inv
	return writeJSON(ctx, ws, msg)
}

func (h *WebSocketHandler) outputLoop(ctx context.Context, ws *websocket.Conn, s *Session, out <-chan serverMessage) {
	for {
		var msg serverMessage
		select {
		case <-ctx.Done():
			return
		case <-s.Done():
			_ = writeJSON(ctx, ws, serverMessage{Type: "closed", SessionID: s.ID})
			return
		case v := <-s.Updates():
			msg = serverMessage{Type: "view", View: &v}
		case msg = <-out:
		}
		if err := writeJSON(ctx, ws, msg); err != nil {
			if ctx.Err() == nil {
				slog.Debug("WebSocket write error", "error", err, "user_id", s.UserID)
			}
			return
		}
	}
}

func (h *WebSocketHandler) inputLoop(ctx context.Context, ws *websocket.Conn, s *Session, out chan<- serverMessage, ops *sync.WaitGroup) {
	send := func(msg serverMessage) {
		select {
		case out <- msg:
		case <-ctx.Done():
		}
	}

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				slog.Debug("WebSocket closed by client", "user_id", s.UserID)
			} else if ctx.Err() == nil {
				slog.Warn("WebSocket read error", "error", err, "user_id", s.UserID)
			}
			return
		}
		s.Touch(time.Now())

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			send(serverMessage{Type: "error", Code: "bad_message", Error: "invalid JSON message"})
			continue
		}

		switch msg.Type {
		case "request":
			ops.Add(1)
			go func() {
				defer ops.Done()
				h.request(ctx, s, msg.Category, send)
			}()
		case "submit":
			ops.Add(1)
			go func() {
				defer ops.Done()
				h.submit(ctx, s, msg.Answer, send)
			}()
		case "close":
			if err := s.Engine().Close(ctx); err != nil {
				send(errorMessage("close", err))
			}
		case "ping":
			send(serverMessage{Type: "pong"})
		default:
			send(serverMessage{Type: "error", Code: "bad_message", Error: "unknown message type: " + msg.Type})
		}

		// Update last seen asynchronously with timeout.
		go func() {
			updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.repo.UpdateLastSeen(updateCtx, s.UserID, time.Now()); err != nil {
				slog.Warn("Failed to update last seen", "error", err)
			}
		}()
	}
}

func (h *WebSocketHandler) request(ctx context.Context, s *Session, tag string, send func(serverMessage)) {
	category, err := domain.ParseCategory(tag)
	if err != nil {
		send(errorMessage("request", err))
		return
	}
	if _, err := s.Engine().RequestNextChallenge(ctx, category); err != nil {
		send(errorMessage("request", err))
	}
}

func (h *WebSocketHandler) submit(ctx context.Context, s *Session, answer string, send func(serverMessage)) {
	sub, err := s.Engine().SubmitAnswer(ctx, answer)

	ev := playlog.Event{UserID: s.UserID, SessionID: s.ID, EventType: "submit", Answer: answer, State: sub.Resolution.String()}
	if sub.Accepted {
		correct := sub.Result.Correct
		ev.Correct = &correct
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.log.Log(ev)

	msg := serverMessage{Type: "submission", Submission: &submissionMessage{Accepted: sub.Accepted, Resolution: sub.Resolution}}
	if sub.Accepted {
		res := sub.Result
		msg.Submission.Result = &res
	}
	send(msg)

	if err != nil {
		send(errorMessage("submit", err))
	}
	if sub.Accepted && sub.Result.Correct && sub.Result.EarnedItem != "" {
		h.collect(ctx, s, sub.Result.EarnedItem, send)
	}
}

// collect adds an earned item to the player's inventory and pushes the
// updated inventory to the client.
func (h *WebSocketHandler) collect(ctx context.Context, s *Session, item string, send func(serverMessage)) {
	if err := h.repo.AddItem(ctx, s.UserID, item); err != nil {
		slog.Warn("Failed to add earned item", "error", err, "user_id", s.UserID, "item", item)
		return
	}
	inv, err := h.repo.GetInventory(ctx, s.UserID)
	if err != nil || inv == nil {
		return
	}
	send(serverMessage{Type: "inventory", Inventory: inv})
}

// errorCode maps engine errors to stable client codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrUnknownCategory):
		return "unknown_category"
	case errors.Is(err, engine.ErrNotFound):
		return "not_found"
	case errors.Is(err, engine.ErrChallengeActive):
		return "challenge_active"
	case errors.Is(err, engine.ErrVerification):
		return "verification_failed"
	case errors.Is(err, engine.ErrPersist):
		return "persist_failed"
	case errors.Is(err, engine.ErrClosed):
		return "closed"
	case errors.Is(err, engine.ErrStopped), errors.Is(err, context.Canceled):
		return "stopped"
	default:
		return "internal"
	}
}

func errorMessage(op string, err error) serverMessage {
	return serverMessage{Type: "error", Op: op, Code: errorCode(err), Error: err.Error()}
}

func writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, data)
}
