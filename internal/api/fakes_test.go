//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/challenge"
	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/identity"
	"github.com/go-chi/chi/v5"
)

type fakeRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	progress  map[string]domain.ProgressSnapshot
	inventory map[string]domain.Inventory
	pingErr   error
	saveErr   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     make(map[string]*domain.User),
		progress:  make(map[string]domain.ProgressSnapshot),
		inventory: make(map[string]domain.Inventory),
	}
}

func (f *fakeRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user := f.users[userID]
	if user == nil {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (f *fakeRepo) UpsertUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *user
	f.users[user.UserID] = &copy
	return nil
}

func (f *fakeRepo) UpdateLastSeen(_ context.Context, _ string, _ time.Time) error { return nil }

func (f *fakeRepo) InitPlayer(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.progress[userID]; !ok {
		f.progress[userID] = domain.NewPlayerProgress()
	}
	if _, ok := f.inventory[userID]; !ok {
		f.inventory[userID] = domain.NewInventory()
	}
	return nil
}

func (f *fakeRepo) GetProgress(_ context.Context, userID string) (*domain.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.progress[userID]
	if !ok {
		return nil, nil
	}
	p = p.Clone()
	return &p, nil
}

func (f *fakeRepo) SaveProgress(_ context.Context, userID string, u domain.ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	areas := domain.NormalizeAreas(u.UnlockedAreas)
	now := time.Now()
	f.progress[userID] = domain.ProgressSnapshot{
		Level:         u.Level,
		XP:            u.XP,
		Coins:         u.Coins,
		UnlockedAreas: areas,
		Achievements:  domain.AchievementsFor(u.Level, areas),
		LastSave:      &now,
	}
	return nil
}

func (f *fakeRepo) GetInventory(_ context.Context, userID string) (*domain.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.inventory[userID]
	if !ok {
		return nil, nil
	}
	inv.Items = maps.Clone(inv.Items)
	inv.HomeDecorations = slices.Clone(inv.HomeDecorations)
	return &inv, nil
}

func (f *fakeRepo) SaveInventory(_ context.Context, userID string, inv domain.Inventory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.inventory[userID] = inv
	return nil
}

func (f *fakeRepo) AddItem(_ context.Context, userID string, item string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.inventory[userID]
	if !ok {
		return errors.New("user not found")
	}
	if inv.Items == nil {
		inv.Items = map[string]int{}
	}
	inv.Items[item]++
	f.inventory[userID] = inv
	return nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeRepo) Close() error { return nil }

const testUser = "anon_0123456789abcdef0123456789abcdef"

// withTestUser attaches a fixed player, standing in for identity.Middleware.
func withTestUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), testUser, "tab")))
	})
}

func newTestRouter(repo *fakeRepo) http.Handler {
	base := NewHandler(repo, challenge.NewService(repo, nil, []challenge.Word{{Text: "cat", Hint: "meow"}}))
	r := chi.NewRouter()
	r.Use(withTestUser)
	NewGameHandler(base).RegisterRoutes(r)
	NewUserHandler(base).RegisterRoutes(r)
	NewHealthHandler(repo).RegisterHealth(r)
	return r
}
