//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

func TestProgressRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/progress", nil))
	var got struct {
		Level        int   `json:"level"`
		Coins        int   `json:"coins"`
		Unlocked     []int `json:"unlocked_areas"`
		CurrentStage int   `json:"current_stage"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Level != 1 || got.Coins != 100 || got.CurrentStage != 1 {
		t.Fatalf("unexpected default progress %+v", got)
	}

	body := `{"level":3,"xp":120,"coins":140,"unlocked_areas":[2,1]}`
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/user/progress", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d body=%s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/progress", nil))
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Level != 3 || !slices.Equal(got.Unlocked, []int{1, 2}) || got.CurrentStage != 2 {
		t.Fatalf("unexpected saved progress %+v", got)
	}
}

func TestSaveProgressValidation(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	for _, body := range []string{`{"level":0,"xp":0,"coins":0}`, `{"level":1,"xp":-1,"coins":0}`, `not json`} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/user/progress", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}

	repo.saveErr = errors.New("disk full")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/user/progress", strings.NewReader(`{"level":1,"xp":0,"coins":0}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestInventoryRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	body := `{"items":{"wood":3},"home_decorations":[{"emoji":"⭐","name":"Star"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/user/inventory", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d body=%s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/inventory", nil))
	var inv domain.Inventory
	if err := json.NewDecoder(rec.Body).Decode(&inv); err != nil {
		t.Fatal(err)
	}
	if inv.Items["wood"] != 3 || len(inv.HomeDecorations) != 1 || inv.HomeDecorations[0].Name != "Star" {
		t.Fatalf("unexpected inventory %+v", inv)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/user/inventory", strings.NewReader(`{"items":{"wood":-1}}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative count, got %d", rec.Code)
	}
}

func TestProfile(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}

	now := time.Now()
	_ = repo.UpsertUser(context.Background(), &domain.User{UserID: testUser, Username: "player-89abcdef", CreatedAt: now, LastSeenAt: now})
	_ = repo.InitPlayer(context.Background(), testUser)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/profile", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["username"] != "player-89abcdef" {
		t.Fatalf("unexpected profile %v", got)
	}
	if progress, ok := got["progress"].(map[string]interface{}); !ok || progress["coins"].(float64) != 100 {
		t.Fatalf("unexpected progress %v", got["progress"])
	}
}

func TestHealth(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	repo.pingErr = errors.New("gone")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
