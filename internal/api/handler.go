// Package api provides HTTP handlers for the MindCraft API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/store"
)

const maxBodyBytes = 1 << 16

// ChallengeService issues challenges and grades answers for a player. It is
// satisfied by the built-in challenge service and the gRPC client.
type ChallengeService interface {
	Next(ctx context.Context, category domain.Category) (domain.Challenge, error)
	Check(ctx context.Context, userID string, c domain.Challenge, answer string) (domain.ChallengeResult, error)
}

// Handler provides common handler utilities.
type Handler struct {
	repo       store.Repository
	challenges ChallengeService
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, challenges ChallengeService) *Handler {
	return &Handler{
		repo:       repo,
		challenges: challenges,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownCategory), errors.Is(err, domain.ErrChallengeNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
