package engine

import (
	"slices"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

// MaxAttempts is the number of wrong answers after which a challenge is revealed.
const MaxAttempts = 2

// retryQueue holds missed challenges in first-missed order, one per identity.
type retryQueue struct {
	items []domain.Challenge
}

func (q *retryQueue) Len() int { return len(q.items) }

// Head returns the oldest missed challenge without removing it.
func (q *retryQueue) Head() (domain.Challenge, bool) {
	if len(q.items) == 0 {
		return domain.Challenge{}, false
	}
	return q.items[0], true
}

func (q *retryQueue) Contains(identity string) bool {
	return q.index(identity) >= 0
}

// Push appends c unless its identity is already queued.
func (q *retryQueue) Push(c domain.Challenge) bool {
	if q.Contains(c.Identity()) {
		return false
	}
	q.items = append(q.items, c)
	return true
}

// Remove drops the challenge with the given identity.
func (q *retryQueue) Remove(identity string) bool {
	i := q.index(identity)
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

func (q *retryQueue) Reset() { q.items = nil }

// Identities lists queued identities in order.
func (q *retryQueue) Identities() []string {
	out := make([]string, 0, len(q.items))
	for _, c := range q.items {
		out = append(out, c.Identity())
	}
	return out
}

func (q *retryQueue) index(identity string) int {
	return slices.IndexFunc(q.items, func(c domain.Challenge) bool {
		return c.Identity() == identity
	})
}

// attemptCounter maps identity to wrong answers so far. Entries exist only
// between the first miss and resolution.
type attemptCounter map[string]int

func (a attemptCounter) Get(identity string) int { return a[identity] }

// Miss records a wrong answer and returns the new count, capped at MaxAttempts.
func (a attemptCounter) Miss(identity string) int {
	n := min(a[identity]+1, MaxAttempts)
	a[identity] = n
	return n
}

func (a attemptCounter) Clear(identity string) { delete(a, identity) }
