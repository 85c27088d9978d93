// Package engine runs the challenge lifecycle for one play session: it picks
// the next challenge (missed ones first), gates submissions, counts attempts,
// reveals answers after the second miss, and keeps the player's progress
// mirror in step with the progress store.
//
// All state is owned by a single loop goroutine. Public methods post commands
// to the loop and wait for the reply; I/O and timed transitions run off-loop
// and re-enter it as events tagged with the current epoch, so anything that
// completes after Close is discarded.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

// Source issues new challenges.
type Source interface {
	Next(ctx context.Context, category domain.Category) (domain.Challenge, error)
}

// Verifier judges an answer. The verdict is taken as-is.
type Verifier interface {
	Check(ctx context.Context, c domain.Challenge, answer string) (domain.ChallengeResult, error)
}

// ProgressStore is the durable holder of a player's progression.
type ProgressStore interface {
	ReadProgress(ctx context.Context) (domain.ProgressSnapshot, error)
	WriteProgress(ctx context.Context, update domain.ProgressUpdate) error
}

// Config wires an Engine to its collaborators.
type Config struct {
	Source   Source
	Verifier Verifier
	Progress ProgressStore
	// Initial seeds the local progress mirror, normally read from Progress
	// at session start.
	Initial  domain.ProgressSnapshot
	Clock    Clock
	Timing   Timing
	Logger   *slog.Logger
	// OnChange is called on the loop goroutine after every transition. It
	// must not block or call back into the engine.
	OnChange func(View)
}

type outcome struct {
	view View
	sub  Submission
	err  error
}

// Engine is the challenge lifecycle state machine for one player session.
type Engine struct {
	source   Source
	verifier Verifier
	store    ProgressStore
	clock    Clock
	timing   Timing
	logger   *slog.Logger
	onChange func(View)

	events   chan func()
	quit     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	latest   atomic.Pointer[View]

	// Loop-owned state below.
	state      State
	category   domain.Category
	active     domain.Challenge
	result     *domain.ChallengeResult
	levelUp    bool
	busy       bool
	queue      retryQueue
	attempts   attemptCounter
	progress   domain.ProgressSnapshot
	dirty      bool
	lastErr    error
	waiter     chan<- outcome
	timer      Timer
	timerToken uint64
	epoch      uint64
	ioCtx      context.Context
	ioCancel   context.CancelFunc
}

// New creates an engine and starts its loop. Call Shutdown to stop it.
func New(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Initial.Level == 0 {
		cfg.Initial = domain.NewPlayerProgress()
	}

	ioCtx, ioCancel := context.WithCancel(context.Background())
	e := &Engine{
		source:   cfg.Source,
		verifier: cfg.Verifier,
		store:    cfg.Progress,
		clock:    cfg.Clock,
		timing:   cfg.Timing.withDefaults(),
		logger:   cfg.Logger,
		onChange: cfg.OnChange,
		events:   make(chan func(), 16),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		state:    StateIdle,
		attempts: attemptCounter{},
		progress: cfg.Initial.Clone(),
		ioCtx:    ioCtx,
		ioCancel: ioCancel,
	}
	v := e.view()
	e.latest.Store(&v)

	go e.run()
	return e
}

// RequestNextChallenge presents the head of the retry queue, or a fresh
// challenge of the category when the queue is empty. It is accepted only
// while no challenge is active.
func (e *Engine) RequestNextChallenge(ctx context.Context, category domain.Category) (View, error) {
	reply := make(chan outcome, 1)
	if !e.post(func() { e.handleRequest(category, reply) }) {
		return e.View(), ErrStopped
	}
	o, err := e.await(ctx, reply)
	return o.view, err
}

// SubmitAnswer verifies an answer to the active challenge. Calls made while
// no challenge is presented, while a previous submission is unresolved, or
// with a blank answer are ignored and return a Submission with Accepted
// false.
func (e *Engine) SubmitAnswer(ctx context.Context, answer string) (Submission, error) {
	reply := make(chan outcome, 1)
	if !e.post(func() { e.handleSubmit(answer, reply) }) {
		return Submission{}, ErrStopped
	}
	o, err := e.await(ctx, reply)
	return o.sub, err
}

// Close discards the retry queue and attempt counters, cancels any pending
// transition or in-flight call, and leaves the engine Closed.
func (e *Engine) Close(ctx context.Context) error {
	reply := make(chan outcome, 1)
	if !e.post(func() { e.handleClose(reply) }) {
		return ErrStopped
	}
	_, err := e.await(ctx, reply)
	return err
}

// View returns the most recent state published by the loop.
func (e *Engine) View() View {
	return *e.latest.Load()
}

// Shutdown stops the loop. Pending callers receive ErrStopped.
func (e *Engine) Shutdown() {
	e.stopOnce.Do(func() { close(e.quit) })
	<-e.stopped
}

func (e *Engine) run() {
	defer close(e.stopped)
	for {
		select {
		case fn := <-e.events:
			fn()
		case <-e.quit:
			e.ioCancel()
			e.stopTimer()
			if e.waiter != nil {
				e.reply(outcome{view: e.view(), err: ErrStopped})
			}
			return
		}
	}
}

// post hands fn to the loop. It reports false once the loop has stopped.
func (e *Engine) post(fn func()) bool {
	select {
	case e.events <- fn:
		return true
	case <-e.quit:
		return false
	}
}

func (e *Engine) await(ctx context.Context, reply <-chan outcome) (outcome, error) {
	select {
	case o := <-reply:
		return o, o.err
	case <-ctx.Done():
		return outcome{view: e.View()}, ctx.Err()
	case <-e.stopped:
		select {
		case o := <-reply:
			return o, o.err
		default:
			return outcome{view: e.View()}, ErrStopped
		}
	}
}

func (e *Engine) handleRequest(category domain.Category, reply chan<- outcome) {
	if !category.Valid() {
		reply <- outcome{view: e.view(), err: fmt.Errorf("request challenge: %w: %q", ErrUnknownCategory, category)}
		return
	}
	if e.state != StateIdle && e.state != StateClosed {
		reply <- outcome{view: e.view(), err: ErrChallengeActive}
		return
	}
	e.category = category
	e.lastErr = nil
	e.waiter = reply
	e.state = StateAwaitingChallenge
	e.next()
}

// next presents the retry-queue head or asks the source for a fresh
// challenge. The queue head stays queued until it is resolved.
func (e *Engine) next() {
	if head, ok := e.queue.Head(); ok {
		e.logger.Debug("Presenting missed challenge", "identity", head.Identity(), "queue_len", e.queue.Len())
		e.present(head)
		return
	}

	e.notify()
	epoch, ctx, category := e.epoch, e.ioCtx, e.category
	go func() {
		c, err := e.source.Next(ctx, category)
		e.post(func() { e.fetchDone(epoch, c, err) })
	}()
}

func (e *Engine) fetchDone(epoch uint64, c domain.Challenge, err error) {
	if epoch != e.epoch {
		return
	}
	if err == nil && c.IsZero() {
		err = ErrNotFound
	}
	if err != nil {
		err = fmt.Errorf("fetch %s challenge: %w", e.category, err)
		e.logger.Warn("Challenge fetch failed", "category", e.category, "error", err)
		e.state = StateIdle
		e.lastErr = err
		e.notify()
		e.reply(outcome{view: e.view(), err: err})
		return
	}
	e.present(c)
}

func (e *Engine) present(c domain.Challenge) {
	e.state = StatePresented
	e.active = c
	e.result = nil
	e.levelUp = false
	e.notify()
	e.reply(outcome{view: e.view()})
}

func (e *Engine) handleSubmit(answer string, reply chan<- outcome) {
	if e.state != StatePresented || e.busy || strings.TrimSpace(answer) == "" {
		reply <- outcome{view: e.view()}
		return
	}
	e.busy = true
	e.state = StateVerifying
	e.lastErr = nil
	e.waiter = reply
	e.notify()

	epoch, ctx, challenge := e.epoch, e.ioCtx, e.active
	go func() {
		res, err := e.verifier.Check(ctx, challenge, answer)
		e.post(func() { e.verifyDone(epoch, challenge, res, err) })
	}()
}

func (e *Engine) verifyDone(epoch uint64, c domain.Challenge, res domain.ChallengeResult, err error) {
	if epoch != e.epoch {
		return
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrVerification, err)
		e.logger.Warn("Answer verification failed", "identity", c.Identity(), "error", err)
		e.state = StatePresented
		e.busy = false
		e.lastErr = err
		e.notify()
		e.reply(outcome{view: e.view(), err: err})
		return
	}

	id := c.Identity()
	if res.Correct {
		e.queue.Remove(id)
		e.attempts.Clear(id)
		if e.dirty {
			res = e.progress.Rebase(res)
		}
		e.levelUp = res.NewLevel > e.progress.Level
		e.progress.Apply(res)
		e.persist(epoch, res)
		return
	}

	if n := e.attempts.Miss(id); n < MaxAttempts {
		e.queue.Push(c)
		e.logger.Debug("Challenge missed, queued for retry", "identity", id, "attempts", n, "queue_len", e.queue.Len())
		e.resolve(StateResolvedIncorrectRetry, res, e.timing.Retry, nil)
		return
	}
	e.queue.Remove(id)
	e.attempts.Clear(id)
	e.logger.Debug("Challenge revealed after final miss", "identity", id)
	e.resolve(StateResolvedIncorrectFinal, res, e.timing.Reveal, nil)
}

// persist writes the merged mirror and resolves once the store answers.
// On failure the mirror is kept and flagged dirty; the next successful
// write carries absolute totals and clears the flag.
func (e *Engine) persist(epoch uint64, res domain.ChallengeResult) {
	ctx, update := e.ioCtx, e.progress.Update()
	go func() {
		err := e.store.WriteProgress(ctx, update)
		e.post(func() { e.persistDone(epoch, res, err) })
	}()
}

func (e *Engine) persistDone(epoch uint64, res domain.ChallengeResult, err error) {
	if epoch != e.epoch {
		return
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPersist, err)
		e.logger.Error("Progress write failed, keeping local progress", "level", e.progress.Level, "xp", e.progress.XP, "error", err)
		e.dirty = true
	} else {
		e.dirty = false
		now := e.clock.Now()
		e.progress.LastSave = &now
	}
	e.resolve(StateResolvedCorrect, res, e.timing.Correct, err)
}

func (e *Engine) resolve(state State, res domain.ChallengeResult, delay time.Duration, err error) {
	e.state = state
	e.result = &res
	e.lastErr = err
	e.schedule(delay)
	e.notify()
	e.reply(outcome{
		view: e.view(),
		sub:  Submission{Accepted: true, Resolution: state, Result: res},
		err:  err,
	})
}

func (e *Engine) schedule(delay time.Duration) {
	e.stopTimer()
	e.timerToken++
	token, epoch := e.timerToken, e.epoch
	e.timer = e.clock.AfterFunc(delay, func() {
		e.post(func() {
			if token != e.timerToken || epoch != e.epoch || e.timer == nil {
				return
			}
			e.timer = nil
			e.afterResolution()
		})
	})
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerToken++
}

func (e *Engine) afterResolution() {
	resolved := e.state
	e.result = nil
	e.levelUp = false
	e.busy = false

	switch resolved {
	case StateResolvedIncorrectRetry:
		e.state = StatePresented
		e.notify()
	case StateResolvedCorrect, StateResolvedIncorrectFinal:
		e.active = domain.Challenge{}
		e.state = StateAwaitingChallenge
		e.next()
	}
}

func (e *Engine) handleClose(reply chan<- outcome) {
	e.epoch++
	e.ioCancel()
	e.ioCtx, e.ioCancel = context.WithCancel(context.Background())
	e.stopTimer()

	if e.waiter != nil {
		e.reply(outcome{view: e.view(), err: ErrClosed})
	}

	e.queue.Reset()
	e.attempts = attemptCounter{}
	e.busy = false
	e.result = nil
	e.levelUp = false
	e.active = domain.Challenge{}
	e.lastErr = nil
	e.state = StateClosed
	e.notify()
	reply <- outcome{view: e.view()}
}

// reply answers the caller waiting on the current operation, if any.
func (e *Engine) reply(o outcome) {
	if e.waiter == nil {
		return
	}
	e.waiter <- o
	e.waiter = nil
}

func (e *Engine) notify() {
	v := e.view()
	e.latest.Store(&v)
	if e.onChange != nil {
		e.onChange(v)
	}
}

func (e *Engine) view() View {
	v := View{
		State:         e.state,
		Category:      e.category,
		QueueLen:      e.queue.Len(),
		LevelUp:       e.levelUp,
		Progress:      e.progress.Clone(),
		ProgressDirty: e.dirty,
		Busy:          e.busy,
	}
	if !e.active.IsZero() {
		c := e.active
		v.Challenge = &c
		v.Attempts = e.attempts.Get(c.Identity())
		v.Retrying = e.queue.Contains(c.Identity())
	}
	if e.result != nil {
		r := *e.result
		r.UnlockedAreas = domain.NormalizeAreas(r.UnlockedAreas)
		v.Result = &r
		if e.state == StateResolvedIncorrectFinal {
			v.Reveal = r.CorrectAnswer
		}
	}
	if e.lastErr != nil {
		v.Error = e.lastErr.Error()
	}
	return v
}
