package challenge

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

var (
	errUnsolvable = errors.New("unsolvable math prompt")

	// Matches "What is 7 + 5?" as well as bare "7+5".
	mathPattern = regexp.MustCompile(`(-?\d+)\s*([-+*xX×/÷])\s*(-?\d+)`)
)

func newMathChallenge(rng *rand.Rand) domain.Challenge {
	switch rng.IntN(4) {
	case 0:
		a, b := rng.IntN(20)+1, rng.IntN(20)+1
		return domain.NewMath(fmt.Sprintf("What is %d + %d?", a, b), "Start from the bigger number and count up.")
	case 1:
		a, b := rng.IntN(20)+1, rng.IntN(20)+1
		if b > a {
			a, b = b, a
		}
		return domain.NewMath(fmt.Sprintf("What is %d - %d?", a, b), "Count back from the first number.")
	case 2:
		a, b := rng.IntN(10)+1, rng.IntN(10)+1
		return domain.NewMath(fmt.Sprintf("What is %d × %d?", a, b), fmt.Sprintf("Think of %d groups of %d.", a, b))
	default:
		b, q := rng.IntN(9)+2, rng.IntN(10)+1
		return domain.NewMath(fmt.Sprintf("What is %d ÷ %d?", b*q, b), fmt.Sprintf("How many groups of %d fit into %d?", b, b*q))
	}
}

// Solve evaluates a two-operand integer math prompt.
func Solve(prompt string) (int, error) {
	m := mathPattern.FindStringSubmatch(prompt)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", errUnsolvable, prompt)
	}
	a, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errUnsolvable, prompt)
	}
	b, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errUnsolvable, prompt)
	}

	switch m[2] {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*", "x", "X", "×":
		return a * b, nil
	default:
		if b == 0 || a%b != 0 {
			return 0, fmt.Errorf("%w: %q is not an exact division", errUnsolvable, prompt)
		}
		return a / b, nil
	}
}

// Answer returns the expected answer for a challenge.
func Answer(c domain.Challenge) (string, error) {
	switch c.Kind() {
	case domain.CategoryMath:
		n, err := Solve(c.Prompt())
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	case domain.CategoryReading:
		return c.Word(), nil
	default:
		return "", domain.ErrUnknownCategory
	}
}

func matches(c domain.Challenge, answer, expected string) bool {
	answer = strings.TrimSpace(answer)
	if c.Kind() == domain.CategoryMath {
		got, err := strconv.Atoi(answer)
		if err != nil {
			return false
		}
		want, err := strconv.Atoi(expected)
		return err == nil && got == want
	}
	return strings.EqualFold(answer, expected)
}
