package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/identity"
	"github.com/go-chi/chi/v5"
)

// GameHandler serves stage data and stateless challenge endpoints.
type GameHandler struct {
	*Handler
}

// NewGameHandler creates a new game handler.
func NewGameHandler(base *Handler) *GameHandler {
	return &GameHandler{Handler: base}
}

// RegisterRoutes registers game routes.
func (h *GameHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/game", func(r chi.Router) {
		r.Get("/stages", h.Stages)
		r.Get("/challenge/{type}", h.Challenge)
		r.Post("/verify-answer", h.VerifyAnswer)
	})
}

// Stages returns every stage keyed by id.
func (h *GameHandler) Stages(w http.ResponseWriter, _ *http.Request) {
	stages := make(map[int]domain.Stage, len(domain.Stages))
	for _, s := range domain.Stages {
		stages[s.ID] = s
	}
	JSON(w, http.StatusOK, stages)
}

// Challenge returns a fresh challenge for the requested category.
func (h *GameHandler) Challenge(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(chi.URLParam(r, "type"))
	if err != nil {
		Error(w, http.StatusNotFound, err.Error())
		return
	}

	c, err := h.challenges.Next(r.Context(), category)
	if err != nil {
		slog.Error("Failed to fetch challenge", "error", err, "category", category)
		Error(w, StatusFor(err), err.Error())
		return
	}
	JSON(w, http.StatusOK, c)
}

type verifyRequest struct {
	ChallengeType string `json:"challenge_type"`
	Answer        string `json:"answer"`
	Question      string `json:"question"`
	Word          string `json:"word"`
	Hint          string `json:"hint"`
}

// VerifyAnswer grades an answer against the caller's stored totals. It never
// writes progress; clients persist the result through PUT /api/user/progress.
func (h *GameHandler) VerifyAnswer(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Answer) == "" {
		Error(w, http.StatusBadRequest, "answer is required")
		return
	}

	c, err := domain.ChallengeFromWire(req.ChallengeType, req.Question, req.Word, req.Hint)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := identity.UserIDFromContext(r.Context())
	res, err := h.challenges.Check(r.Context(), userID, c, req.Answer)
	if err != nil {
		slog.Error("Failed to verify answer", "error", err, "user_id", userID, "challenge_type", c.Kind())
		Error(w, http.StatusInternalServerError, "failed to verify answer")
		return
	}

	slog.Debug("Answer verified", "user_id", userID, "challenge_type", c.Kind(), "correct", res.Correct)
	JSON(w, http.StatusOK, res)
}
