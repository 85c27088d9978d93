package engine

import "time"

// Clock schedules the timed transitions between a result and the next
// presentation.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a scheduled transition that can be cancelled.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Timing holds the delays between a resolution and what follows it.
type Timing struct {
	Correct time.Duration
	Retry   time.Duration
	Reveal  time.Duration
}

// DefaultTiming returns the delays the game client was designed around.
func DefaultTiming() Timing {
	return Timing{
		Correct: 2 * time.Second,
		Retry:   2 * time.Second,
		Reveal:  3 * time.Second,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.Correct <= 0 {
		t.Correct = d.Correct
	}
	if t.Retry <= 0 {
		t.Retry = d.Retry
	}
	if t.Reveal <= 0 {
		t.Reveal = d.Reveal
	}
	return t
}
