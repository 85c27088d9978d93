package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCategory is returned when a category tag is not recognized.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrChallengeNotFound is returned when no challenge exists for a category.
	ErrChallengeNotFound = errors.New("challenge not found")
)

// Category selects which kind of challenge to generate.
type Category string

const (
	// CategoryMath selects arithmetic challenges.
	CategoryMath Category = "math"
	// CategoryReading selects word/spelling challenges.
	CategoryReading Category = "reading"
)

// ParseCategory converts a request tag into a Category.
func ParseCategory(tag string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(tag))) {
	case CategoryMath:
		return CategoryMath, nil
	case CategoryReading:
		return CategoryReading, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, tag)
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryMath || c == CategoryReading
}

// Challenge is a single issued question. It is immutable: the fields are only
// reachable through accessors and the constructors derive the identity once.
type Challenge struct {
	kind     Category
	prompt   string
	hint     string
	identity string
}

// NewMath builds a math challenge. The prompt doubles as its identity.
func NewMath(prompt, hint string) Challenge {
	return Challenge{
		kind:     CategoryMath,
		prompt:   prompt,
		hint:     hint,
		identity: prompt,
	}
}

// NewReading builds a reading challenge for a target word. The word is the
// identity; the prompt is the instruction shown to the player.
func NewReading(word, hint string) Challenge {
	return Challenge{
		kind:     CategoryReading,
		prompt:   "Type the word:",
		hint:     hint,
		identity: word,
	}
}

// Kind returns the challenge category.
func (c Challenge) Kind() Category { return c.kind }

// Prompt returns the text presented to the player.
func (c Challenge) Prompt() string { return c.prompt }

// Hint returns the hint text.
func (c Challenge) Hint() string { return c.hint }

// Identity returns the deduplication key: the prompt for math, the target
// word for reading.
func (c Challenge) Identity() string { return c.identity }

// Word returns the target word of a reading challenge, or "" for math.
func (c Challenge) Word() string {
	if c.kind != CategoryReading {
		return ""
	}
	return c.identity
}

// IsZero reports whether c was never issued.
func (c Challenge) IsZero() bool { return c.kind == "" }

// challengeWire is the JSON shape the game client has always used.
type challengeWire struct {
	Type     Category `json:"type"`
	Question string   `json:"question,omitempty"`
	Word     string   `json:"word,omitempty"`
	Hint     string   `json:"hint"`
}

// MarshalJSON encodes the challenge in its wire form.
func (c Challenge) MarshalJSON() ([]byte, error) {
	w := challengeWire{Type: c.kind, Hint: c.hint}
	switch c.kind {
	case CategoryMath:
		w.Question = c.prompt
	case CategoryReading:
		w.Word = c.identity
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a challenge from its wire form.
func (c *Challenge) UnmarshalJSON(data []byte) error {
	var w challengeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := ChallengeFromWire(string(w.Type), w.Question, w.Word, w.Hint)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ChallengeFromWire rebuilds a challenge from the loose fields clients send
// back with an answer.
func ChallengeFromWire(kind, question, word, hint string) (Challenge, error) {
	cat, err := ParseCategory(kind)
	if err != nil {
		return Challenge{}, err
	}
	switch cat {
	case CategoryMath:
		if strings.TrimSpace(question) == "" {
			return Challenge{}, errors.New("math challenge requires a question")
		}
		return NewMath(question, hint), nil
	default:
		if strings.TrimSpace(word) == "" {
			return Challenge{}, errors.New("reading challenge requires a word")
		}
		return NewReading(word, hint), nil
	}
}
