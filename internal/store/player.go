package store

import (
	"context"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

// PlayerProgress adapts a Repository to one player's progress, the shape a
// play-session engine reads and writes.
type PlayerProgress struct {
	repo   Repository
	userID string
}

// ForPlayer binds repo to userID.
func ForPlayer(repo Repository, userID string) *PlayerProgress {
	return &PlayerProgress{repo: repo, userID: userID}
}

// ReadProgress returns the player's progress, or the starting snapshot if
// nothing has been stored yet.
func (p *PlayerProgress) ReadProgress(ctx context.Context) (domain.ProgressSnapshot, error) {
	snap, err := p.repo.GetProgress(ctx, p.userID)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}
	if snap == nil {
		return domain.NewPlayerProgress(), nil
	}
	return *snap, nil
}

// WriteProgress persists absolute totals for the player.
func (p *PlayerProgress) WriteProgress(ctx context.Context, update domain.ProgressUpdate) error {
	return p.repo.SaveProgress(ctx, p.userID, update)
}
