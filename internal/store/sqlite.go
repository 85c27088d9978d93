package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
	"github.com/ashureev/mindcraft-labs/internal/shared"
	_ "modernc.org/sqlite"
)

// ErrUserNotFound is returned when a write targets a player with no rows.
var ErrUserNotFound = errors.New("user not found")

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db    *sql.DB
	retry shared.RetryPolicy
	now   func() time.Time
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, retry: shared.DefaultRetryPolicy, now: time.Now}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		last_seen_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_last_seen ON users(last_seen_at);

	CREATE TABLE IF NOT EXISTS player_progress (
		user_id TEXT PRIMARY KEY,
		level INTEGER NOT NULL DEFAULT 1,
		xp INTEGER NOT NULL DEFAULT 0,
		coins INTEGER NOT NULL DEFAULT 100,
		unlocked_areas TEXT NOT NULL DEFAULT '[1]',
		achievements TEXT NOT NULL DEFAULT '[]',
		last_save INTEGER
	);

	CREATE TABLE IF NOT EXISTS player_inventory (
		user_id TEXT PRIMARY KEY,
		items TEXT NOT NULL DEFAULT '{}',
		home_decorations TEXT NOT NULL DEFAULT '[]',
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetUser retrieves a user by their user ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, username, last_seen_at, created_at, updated_at
		FROM users WHERE user_id = ?`

	row := s.db.QueryRowContext(ctx, query, userID)

	var user domain.User
	var lastSeen, createdAt, updatedAt int64

	err := row.Scan(&user.UserID, &user.Username, &lastSeen, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.LastSeenAt = time.Unix(lastSeen, 0)
	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)

	return &user, nil
}

// UpsertUser creates or updates a user record.
func (s *SQLiteStore) UpsertUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (user_id, username, last_seen_at, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		username = excluded.username,
		last_seen_at = excluded.last_seen_at,
		updated_at = excluded.updated_at`

	err := shared.RetryOnConflict(ctx, s.retry, "upsert user", func() error {
		_, err := s.db.ExecContext(ctx, query,
			user.UserID, user.Username, user.LastSeenAt.Unix(),
			user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdateLastSeen updates the last_seen_at timestamp for a user.
func (s *SQLiteStore) UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error {
	query := `UPDATE users SET last_seen_at = ?, updated_at = ? WHERE user_id = ?`
	result, err := s.db.ExecContext(ctx, query, lastSeen.Unix(), s.now().Unix(), userID)
	if err != nil {
		return fmt.Errorf("update last_seen: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		slog.Warn("UpdateLastSeen affected 0 rows", "user_id", userID)
	}

	return nil
}

// InitPlayer seeds starting progress and an empty inventory.
func (s *SQLiteStore) InitPlayer(ctx context.Context, userID string) error {
	start := domain.NewPlayerProgress()
	areas, err := json.Marshal(start.UnlockedAreas)
	if err != nil {
		return fmt.Errorf("encode unlocked areas: %w", err)
	}

	err = shared.RetryOnConflict(ctx, s.retry, "init player", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO player_progress (user_id, level, xp, coins, unlocked_areas, achievements)
			VALUES (?, ?, ?, ?, ?, '[]')`,
			userID, start.Level, start.XP, start.Coins, string(areas),
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO player_inventory (user_id, items, home_decorations, updated_at)
			VALUES (?, '{}', '[]', ?)`,
			userID, s.now().Unix(),
		); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("init player: %w", err)
	}
	return nil
}

// GetProgress returns the stored progression for a user.
func (s *SQLiteStore) GetProgress(ctx context.Context, userID string) (*domain.ProgressSnapshot, error) {
	query := `
		SELECT level, xp, coins, unlocked_areas, achievements, last_save
		FROM player_progress WHERE user_id = ?`

	var p domain.ProgressSnapshot
	var areasJSON, achievementsJSON string
	var lastSave sql.NullInt64

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.Level, &p.XP, &p.Coins, &areasJSON, &achievementsJSON, &lastSave,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan progress row: %w", err)
	}

	if err := json.Unmarshal([]byte(areasJSON), &p.UnlockedAreas); err != nil {
		return nil, fmt.Errorf("decode unlocked areas: %w", err)
	}
	if err := json.Unmarshal([]byte(achievementsJSON), &p.Achievements); err != nil {
		return nil, fmt.Errorf("decode achievements: %w", err)
	}
	p.UnlockedAreas = domain.NormalizeAreas(p.UnlockedAreas)
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if lastSave.Valid {
		ts := time.Unix(lastSave.Int64, 0)
		p.LastSave = &ts
	}

	return &p, nil
}

// SaveProgress writes absolute totals for a user.
func (s *SQLiteStore) SaveProgress(ctx context.Context, userID string, update domain.ProgressUpdate) error {
	areas := domain.NormalizeAreas(update.UnlockedAreas)
	if len(areas) == 0 {
		areas = []int{1}
	}
	areasJSON, err := json.Marshal(areas)
	if err != nil {
		return fmt.Errorf("encode unlocked areas: %w", err)
	}
	achievementsJSON, err := json.Marshal(domain.AchievementsFor(update.Level, areas))
	if err != nil {
		return fmt.Errorf("encode achievements: %w", err)
	}

	query := `
	INSERT INTO player_progress (user_id, level, xp, coins, unlocked_areas, achievements, last_save)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		level = excluded.level,
		xp = excluded.xp,
		coins = excluded.coins,
		unlocked_areas = excluded.unlocked_areas,
		achievements = excluded.achievements,
		last_save = excluded.last_save`

	err = shared.RetryOnConflict(ctx, s.retry, "save progress", func() error {
		_, err := s.db.ExecContext(ctx, query,
			userID, update.Level, update.XP, update.Coins,
			string(areasJSON), string(achievementsJSON), s.now().Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// GetInventory returns the stored inventory for a user.
func (s *SQLiteStore) GetInventory(ctx context.Context, userID string) (*domain.Inventory, error) {
	query := `SELECT items, home_decorations FROM player_inventory WHERE user_id = ?`

	var itemsJSON, decorationsJSON string
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&itemsJSON, &decorationsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan inventory row: %w", err)
	}

	inv := domain.NewInventory()
	if err := json.Unmarshal([]byte(itemsJSON), &inv.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal([]byte(decorationsJSON), &inv.HomeDecorations); err != nil {
		return nil, fmt.Errorf("decode home decorations: %w", err)
	}
	if inv.Items == nil {
		inv.Items = map[string]int{}
	}
	if inv.HomeDecorations == nil {
		inv.HomeDecorations = []domain.Decoration{}
	}
	return &inv, nil
}

// SaveInventory replaces the stored inventory for a user.
func (s *SQLiteStore) SaveInventory(ctx context.Context, userID string, inv domain.Inventory) error {
	if inv.Items == nil {
		inv.Items = map[string]int{}
	}
	if inv.HomeDecorations == nil {
		inv.HomeDecorations = []domain.Decoration{}
	}
	itemsJSON, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	decorationsJSON, err := json.Marshal(inv.HomeDecorations)
	if err != nil {
		return fmt.Errorf("encode home decorations: %w", err)
	}

	query := `
	INSERT INTO player_inventory (user_id, items, home_decorations, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		items = excluded.items,
		home_decorations = excluded.home_decorations,
		updated_at = excluded.updated_at`

	err = shared.RetryOnConflict(ctx, s.retry, "save inventory", func() error {
		_, err := s.db.ExecContext(ctx, query, userID, string(itemsJSON), string(decorationsJSON), s.now().Unix())
		return err
	})
	if err != nil {
		return fmt.Errorf("save inventory: %w", err)
	}
	return nil
}

// AddItem increments one item count inside a transaction.
func (s *SQLiteStore) AddItem(ctx context.Context, userID string, item string) error {
	err := shared.RetryOnConflict(ctx, s.retry, "add item", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var itemsJSON string
		err = tx.QueryRowContext(ctx, `SELECT items FROM player_inventory WHERE user_id = ?`, userID).Scan(&itemsJSON)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		items := map[string]int{}
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
		if items == nil {
			items = map[string]int{}
		}
		items[item]++

		encoded, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode items: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE player_inventory SET items = ?, updated_at = ? WHERE user_id = ?`,
			string(encoded), s.now().Unix(), userID,
		); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("add item %s: %w", item, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
