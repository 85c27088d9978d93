package engine

import (
	"errors"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

var (
	// ErrUnknownCategory rejects a request for a category the game does not offer.
	ErrUnknownCategory = domain.ErrUnknownCategory
	// ErrNotFound is returned by a Source with nothing to offer for a category.
	ErrNotFound = domain.ErrChallengeNotFound
	// ErrVerification wraps a verifier or transport failure during a submission.
	ErrVerification = errors.New("answer verification failed")
	// ErrPersist wraps a progress store write failure after a correct answer.
	ErrPersist = errors.New("progress write failed")
	// ErrChallengeActive rejects a request while a challenge is unresolved.
	ErrChallengeActive = errors.New("challenge already active")
	// ErrClosed is returned to a caller whose operation was cut short by Close.
	ErrClosed = errors.New("challenge view closed")
	// ErrStopped is returned once the engine loop has shut down.
	ErrStopped = errors.New("engine stopped")
)
