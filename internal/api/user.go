package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/identity"
	"github.com/go-chi/chi/v5"
)

// UserHandler serves a player's progress, inventory and profile.
type UserHandler struct {
	*Handler
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *Handler) *UserHandler {
	return &UserHandler{Handler: base}
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/user", func(r chi.Router) {
		r.Get("/progress", h.GetProgress)
		r.Put("/progress", h.SaveProgress)
		r.Get("/inventory", h.GetInventory)
		r.Put("/inventory", h.SaveInventory)
		r.Get("/profile", h.GetProfile)
	})
}

type progressResponse struct {
	domain.ProgressSnapshot
	CurrentStage int `json:"current_stage"`
}

func (h *UserHandler) loadProgress(w http.ResponseWriter, r *http.Request, userID string) (domain.ProgressSnapshot, bool) {
	p, err := h.repo.GetProgress(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load progress", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to load progress")
		return domain.ProgressSnapshot{}, false
	}
	if p == nil {
		return domain.NewPlayerProgress(), true
	}
	return *p, true
}

// GetProgress returns the caller's progression.
func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	p, ok := h.loadProgress(w, r, userID)
	if !ok {
		return
	}
	JSON(w, http.StatusOK, progressResponse{ProgressSnapshot: p, CurrentStage: p.CurrentStage()})
}

// SaveProgress overwrites the caller's totals.
func (h *UserHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())

	var update domain.ProgressUpdate
	if err := decodeJSON(r, &update); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if update.Level < 1 || update.XP < 0 || update.Coins < 0 {
		Error(w, http.StatusBadRequest, "level must be >= 1, xp and coins must be >= 0")
		return
	}

	if err := h.repo.SaveProgress(r.Context(), userID, update); err != nil {
		slog.Error("Failed to save progress", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to save progress")
		return
	}

	slog.Info("Progress saved", "user_id", userID, "level", update.Level, "xp", update.XP)
	JSON(w, http.StatusOK, map[string]string{"message": "Progress saved successfully"})
}

// GetInventory returns the caller's inventory.
func (h *UserHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())
	inv, err := h.repo.GetInventory(r.Context(), userID)
	if err != nil {
		slog.Error("Failed to load inventory", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to load inventory")
		return
	}
	if inv == nil {
		empty := domain.NewInventory()
		inv = &empty
	}
	JSON(w, http.StatusOK, inv)
}

// SaveInventory replaces the caller's inventory.
func (h *UserHandler) SaveInventory(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())

	var inv domain.Inventory
	if err := decodeJSON(r, &inv); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for item, n := range inv.Items {
		if n < 0 {
			Error(w, http.StatusBadRequest, "item counts must be >= 0: "+item)
			return
		}
	}

	if err := h.repo.SaveInventory(r.Context(), userID, inv); err != nil {
		slog.Error("Failed to save inventory", "error", err, "user_id", userID)
		Error(w, http.StatusInternalServerError, "failed to save inventory")
		return
	}
	JSON(w, http.StatusOK, map[string]string{"message": "Inventory saved successfully"})
}

// GetProfile returns the caller's identity and progression.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := identity.UserIDFromContext(r.Context())

	user, err := h.repo.GetUser(r.Context(), userID)
	if err != nil || user == nil {
		slog.Error("Failed to get user for profile", "error", err, "user_id", userID)
		Error(w, http.StatusUnauthorized, "user not found")
		return
	}

	p, ok := h.loadProgress(w, r, userID)
	if !ok {
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":      user.UserID,
		"username":     user.Username,
		"created_at":   user.CreatedAt.UTC().Format(time.RFC3339),
		"last_seen_at": user.LastSeenAt.UTC().Format(time.RFC3339),
		"progress":     progressResponse{ProgressSnapshot: p, CurrentStage: p.CurrentStage()},
	})
}
