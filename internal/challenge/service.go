// Package challenge provides the built-in challenge source and answer grader.
package challenge

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

// ProgressReader looks up a player's stored progression.
type ProgressReader interface {
	GetProgress(ctx context.Context, userID string) (*domain.ProgressSnapshot, error)
}

// Service generates challenges and grades answers against a player's stored
// progression. It never writes progress.
type Service struct {
	progress ProgressReader
	words    []Word

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a challenge service. A nil rng is seeded from the
// clock; nil words selects DefaultWords.
func NewService(progress ProgressReader, rng *rand.Rand, words []Word) *Service {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>1))
	}
	if words == nil {
		words = DefaultWords
	}
	return &Service{
		progress: progress,
		words:    words,
		rng:      rng,
	}
}

// Next returns a fresh challenge for the category.
func (s *Service) Next(ctx context.Context, category domain.Category) (domain.Challenge, error) {
	if err := ctx.Err(); err != nil {
		return domain.Challenge{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch category {
	case domain.CategoryMath:
		return newMathChallenge(s.rng), nil
	case domain.CategoryReading:
		if len(s.words) == 0 {
			return domain.Challenge{}, fmt.Errorf("%w: no words for %s", domain.ErrChallengeNotFound, category)
		}
		w := s.words[s.rng.IntN(len(s.words))]
		return domain.NewReading(w.Text, w.Hint), nil
	default:
		return domain.Challenge{}, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
}

// Check grades an answer for a player.
func (s *Service) Check(ctx context.Context, userID string, c domain.Challenge, answer string) (domain.ChallengeResult, error) {
	expected, err := Answer(c)
	if err != nil {
		return domain.ChallengeResult{}, fmt.Errorf("grade challenge: %w", err)
	}

	current, err := s.progress.GetProgress(ctx, userID)
	if err != nil {
		return domain.ChallengeResult{}, fmt.Errorf("load progress: %w", err)
	}
	if current == nil {
		p := domain.NewPlayerProgress()
		current = &p
	}

	return Grade(c, answer, expected, *current), nil
}

// Checker grades answers on behalf of a player.
type Checker interface {
	Check(ctx context.Context, userID string, c domain.Challenge, answer string) (domain.ChallengeResult, error)
}

// PlayerVerifier binds a Checker to one player.
type PlayerVerifier struct {
	checker Checker
	userID  string
}

// ForPlayer returns a verifier that grades answers for userID.
func ForPlayer(checker Checker, userID string) PlayerVerifier {
	return PlayerVerifier{checker: checker, userID: userID}
}

// Check grades an answer for the bound player.
func (p PlayerVerifier) Check(ctx context.Context, c domain.Challenge, answer string) (domain.ChallengeResult, error) {
	return p.checker.Check(ctx, p.userID, c, answer)
}
