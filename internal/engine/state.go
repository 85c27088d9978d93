package engine

import (
	"fmt"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

// State is a step of the challenge lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingChallenge
	StatePresented
	StateVerifying
	StateResolvedCorrect
	StateResolvedIncorrectRetry
	StateResolvedIncorrectFinal
	StateClosed
)

var stateNames = map[State]string{
	StateIdle:                   "idle",
	StateAwaitingChallenge:      "awaiting_challenge",
	StatePresented:              "presented",
	StateVerifying:              "verifying",
	StateResolvedCorrect:        "resolved_correct",
	StateResolvedIncorrectRetry: "resolved_incorrect_retry",
	StateResolvedIncorrectFinal: "resolved_incorrect_final",
	StateClosed:                 "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for st, name := range stateNames {
		if name == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// Resolved reports whether s is one of the timed result states.
func (s State) Resolved() bool {
	return s == StateResolvedCorrect || s == StateResolvedIncorrectRetry || s == StateResolvedIncorrectFinal
}

// View is a read-only copy of the engine state for display.
type View struct {
	State         State                   `json:"state"`
	Category      domain.Category         `json:"category,omitempty"`
	Challenge     *domain.Challenge       `json:"challenge,omitempty"`
	Attempts      int                     `json:"attempts"`
	Retrying      bool                    `json:"retrying"`
	QueueLen      int                     `json:"retry_queue_len"`
	Result        *domain.ChallengeResult `json:"result,omitempty"`
	Reveal        string                  `json:"reveal,omitempty"`
	LevelUp       bool                    `json:"level_up,omitempty"`
	Progress      domain.ProgressSnapshot `json:"progress"`
	ProgressDirty bool                    `json:"progress_dirty"`
	Busy          bool                    `json:"busy"`
	Error         string                  `json:"error,omitempty"`
}

// Submission describes what happened to a submitted answer.
type Submission struct {
	// Accepted is false when the call was ignored by the busy/state guard.
	Accepted   bool
	Resolution State
	Result     domain.ChallengeResult
}
