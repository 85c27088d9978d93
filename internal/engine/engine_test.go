package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ashureev/mindcraft-labs/internal/domain"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward and fires every timer that came due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()
	for _, f := range due {
		f()
	}
}

func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type scriptedSource struct {
	mu         sync.Mutex
	challenges []domain.Challenge
	calls      int
	err        error
}

func (s *scriptedSource) Next(_ context.Context, _ domain.Category) (domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return domain.Challenge{}, s.err
	}
	if len(s.challenges) == 0 {
		return domain.Challenge{}, ErrNotFound
	}
	c := s.challenges[0]
	s.challenges = s.challenges[1:]
	return c, nil
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// keyVerifier grades against an answer key and keeps running totals.
type keyVerifier struct {
	mu      sync.Mutex
	answers map[string]string
	xp      int
	coins   int
	calls   int
	err     error
	gate    chan struct{}
	entered chan struct{}
}

func newKeyVerifier(answers map[string]string) *keyVerifier {
	return &keyVerifier{answers: answers, coins: 100}
}

func (v *keyVerifier) Check(ctx context.Context, c domain.Challenge, answer string) (domain.ChallengeResult, error) {
	v.mu.Lock()
	gate, entered := v.gate, v.entered
	v.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.ChallengeResult{}, ctx.Err()
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.err != nil {
		return domain.ChallengeResult{}, v.err
	}
	want := v.answers[c.Identity()]
	res := domain.ChallengeResult{CorrectAnswer: want}
	if strings.EqualFold(strings.TrimSpace(answer), want) {
		v.xp += 60
		v.coins += 5
		res.Correct = true
		res.EarnedXP = 60
		res.EarnedCoins = 5
	}
	res.NewXP = v.xp
	res.NewCoins = v.coins
	res.NewLevel = domain.LevelForXP(v.xp)
	res.UnlockedAreas = domain.UnlockedAreasFor(v.xp, []int{1})
	return res, nil
}

func (v *keyVerifier) callCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

func (v *keyVerifier) setErr(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.err = err
}

type memProgress struct {
	mu     sync.Mutex
	writes []domain.ProgressUpdate
	err    error
}

func (m *memProgress) ReadProgress(context.Context) (domain.ProgressSnapshot, error) {
	return domain.NewPlayerProgress(), nil
}

func (m *memProgress) WriteProgress(_ context.Context, update domain.ProgressUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, update)
	return nil
}

func (m *memProgress) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.writes)
}

func (m *memProgress) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

type harness struct {
	engine   *Engine
	clock    *fakeClock
	source   *scriptedSource
	verifier *keyVerifier
	store    *memProgress
}

func newHarness(t *testing.T, challenges ...domain.Challenge) *harness {
	t.Helper()
	answers := map[string]string{}
	for _, c := range challenges {
		switch c.Kind() {
		case domain.CategoryMath:
			answers[c.Identity()] = mathAnswers[c.Identity()]
		case domain.CategoryReading:
			answers[c.Identity()] = c.Word()
		}
	}
	h := &harness{
		clock:    newFakeClock(),
		source:   &scriptedSource{challenges: challenges},
		verifier: newKeyVerifier(answers),
		store:    &memProgress{},
	}
	h.engine = New(Config{
		Source:   h.source,
		Verifier: h.verifier,
		Progress: h.store,
		Clock:    h.clock,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(h.engine.Shutdown)
	return h
}

var mathAnswers = map[string]string{
	"2+2": "4",
	"3+5": "8",
	"9-4": "5",
}

// bookkeeping reads the private retry state on the loop goroutine.
func (e *Engine) bookkeeping(t *testing.T) ([]string, map[string]int) {
	t.Helper()
	done := make(chan struct{})
	var queue []string
	attempts := map[string]int{}
	if !e.post(func() {
		queue = e.queue.Identities()
		for k, v := range e.attempts {
			attempts[k] = v
		}
		close(done)
	}) {
		t.Fatal("engine stopped")
	}
	<-done
	return queue, attempts
}

func waitForState(t *testing.T, e *Engine, want State) View {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v := e.View()
		if v.State == want {
			return v
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, last state %s", want, e.View().State)
	return View{}
}

func requestMath(t *testing.T, h *harness) View {
	t.Helper()
	v, err := h.engine.RequestNextChallenge(context.Background(), domain.CategoryMath)
	if err != nil {
		t.Fatalf("RequestNextChallenge failed: %v", err)
	}
	if v.State != StatePresented {
		t.Fatalf("expected presented, got %s", v.State)
	}
	return v
}

func submit(t *testing.T, h *harness, answer string) Submission {
	t.Helper()
	sub, err := h.engine.SubmitAnswer(context.Background(), answer)
	if err != nil {
		t.Fatalf("SubmitAnswer(%q) failed: %v", answer, err)
	}
	if !sub.Accepted {
		t.Fatalf("SubmitAnswer(%q) was not accepted", answer)
	}
	return sub
}

func TestCorrectAnswerUpdatesProgress(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", "Count on your fingers"), domain.NewMath("3+5", ""))

	v := requestMath(t, h)
	if v.Challenge == nil || v.Challenge.Identity() != "2+2" {
		t.Fatalf("expected 2+2 to be presented, got %+v", v.Challenge)
	}

	sub := submit(t, h, "4")
	if sub.Resolution != StateResolvedCorrect || !sub.Result.Correct {
		t.Fatalf("expected correct resolution, got %+v", sub)
	}

	queue, attempts := h.engine.bookkeeping(t)
	if len(queue) != 0 || len(attempts) != 0 {
		t.Fatalf("expected untouched bookkeeping, got queue=%v attempts=%v", queue, attempts)
	}
	if h.store.writeCount() != 1 {
		t.Fatalf("expected exactly one progress write, got %d", h.store.writeCount())
	}

	v = h.engine.View()
	if v.Progress.XP != 60 || v.Progress.Coins != 105 || v.Progress.Level != 2 {
		t.Fatalf("unexpected progress mirror: %+v", v.Progress)
	}
	if !v.LevelUp {
		t.Fatal("expected level up flag")
	}
	if v.Progress.LastSave == nil {
		t.Fatal("expected last save to be stamped")
	}

	h.clock.Advance(2 * time.Second)
	v = waitForState(t, h.engine, StatePresented)
	if v.Challenge.Identity() != "3+5" {
		t.Fatalf("expected auto-advance to 3+5, got %s", v.Challenge.Identity())
	}
	if v.Busy {
		t.Fatal("expected busy guard released after advance")
	}
}

func TestWrongThenCorrectClearsRetryState(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""), domain.NewMath("3+5", ""))
	requestMath(t, h)

	sub := submit(t, h, "5")
	if sub.Resolution != StateResolvedIncorrectRetry {
		t.Fatalf("expected retry resolution, got %s", sub.Resolution)
	}
	queue, attempts := h.engine.bookkeeping(t)
	if !slices.Equal(queue, []string{"2+2"}) {
		t.Fatalf("expected queue [2+2], got %v", queue)
	}
	if attempts["2+2"] != 1 {
		t.Fatalf("expected one attempt, got %d", attempts["2+2"])
	}
	if h.store.writeCount() != 0 {
		t.Fatalf("expected no progress write on a miss, got %d", h.store.writeCount())
	}

	h.clock.Advance(2 * time.Second)
	v := waitForState(t, h.engine, StatePresented)
	if v.Challenge.Identity() != "2+2" || !v.Retrying || v.Attempts != 1 || v.Result != nil {
		t.Fatalf("expected the same challenge back for retry, got %+v", v)
	}
	if h.source.callCount() != 1 {
		t.Fatalf("expected no new fetch for a retry, got %d calls", h.source.callCount())
	}

	submit(t, h, "4")
	queue, attempts = h.engine.bookkeeping(t)
	if len(queue) != 0 {
		t.Fatalf("expected empty queue, got %v", queue)
	}
	if _, ok := attempts["2+2"]; ok {
		t.Fatal("expected attempt counter to be deleted")
	}
}

func TestTwoWrongAnswersRevealWord(t *testing.T) {
	h := newHarness(t, domain.NewReading("cat", "A pet that meows"), domain.NewReading("dog", "A pet that barks"))
	if _, err := h.engine.RequestNextChallenge(context.Background(), domain.CategoryReading); err != nil {
		t.Fatalf("RequestNextChallenge failed: %v", err)
	}

	submit(t, h, "dog")
	h.clock.Advance(2 * time.Second)
	waitForState(t, h.engine, StatePresented)

	sub := submit(t, h, "bird")
	if sub.Resolution != StateResolvedIncorrectFinal {
		t.Fatalf("expected final resolution, got %s", sub.Resolution)
	}
	if sub.Result.CorrectAnswer != "cat" {
		t.Fatalf("expected reveal of cat, got %q", sub.Result.CorrectAnswer)
	}
	v := h.engine.View()
	if v.Reveal != "cat" {
		t.Fatalf("expected view reveal cat, got %q", v.Reveal)
	}
	queue, attempts := h.engine.bookkeeping(t)
	if len(queue) != 0 || len(attempts) != 0 {
		t.Fatalf("expected cleared bookkeeping, got queue=%v attempts=%v", queue, attempts)
	}

	// The reveal holds longer than the retry delay.
	h.clock.Advance(2 * time.Second)
	if got := h.engine.View().State; got != StateResolvedIncorrectFinal {
		t.Fatalf("expected reveal to still be showing, got %s", got)
	}
	h.clock.Advance(time.Second)
	v = waitForState(t, h.engine, StatePresented)
	if v.Challenge.Identity() != "dog" {
		t.Fatalf("expected next word dog, got %s", v.Challenge.Identity())
	}
}

func TestSubmitWhileVerifyingIsNoop(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))
	requestMath(t, h)

	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	h.verifier.mu.Lock()
	h.verifier.gate = gate
	h.verifier.entered = entered
	h.verifier.mu.Unlock()

	first := make(chan Submission, 1)
	go func() {
		sub, _ := h.engine.SubmitAnswer(context.Background(), "5")
		first <- sub
	}()
	<-entered

	sub, err := h.engine.SubmitAnswer(context.Background(), "4")
	if err != nil {
		t.Fatalf("expected no error for ignored submit, got %v", err)
	}
	if sub.Accepted {
		t.Fatal("expected second submission to be ignored")
	}

	close(gate)
	if got := <-first; got.Resolution != StateResolvedIncorrectRetry {
		t.Fatalf("expected first submission to resolve as retry, got %s", got.Resolution)
	}
	if h.verifier.callCount() != 1 {
		t.Fatalf("expected one verifier call, got %d", h.verifier.callCount())
	}

	// The busy guard holds through the result delay.
	sub, _ = h.engine.SubmitAnswer(context.Background(), "4")
	if sub.Accepted {
		t.Fatal("expected submission during result delay to be ignored")
	}
	_, attempts := h.engine.bookkeeping(t)
	if attempts["2+2"] != 1 {
		t.Fatalf("expected attempts to stay at 1, got %d", attempts["2+2"])
	}
}

func TestBlankAnswerIgnored(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))
	requestMath(t, h)

	sub, err := h.engine.SubmitAnswer(context.Background(), "   ")
	if err != nil || sub.Accepted {
		t.Fatalf("expected blank answer to be ignored, got %+v err=%v", sub, err)
	}
	if h.verifier.callCount() != 0 {
		t.Fatal("expected verifier not to be called")
	}
}

func TestCloseMidRetryCancelsTimer(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""), domain.NewMath("3+5", ""))
	requestMath(t, h)
	submit(t, h, "5")

	queue, attempts := h.engine.bookkeeping(t)
	if len(queue) != 1 || attempts["2+2"] != 1 {
		t.Fatalf("expected one queued item and one counter, got queue=%v attempts=%v", queue, attempts)
	}
	if h.clock.pending() != 1 {
		t.Fatalf("expected one pending transition, got %d", h.clock.pending())
	}

	if err := h.engine.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	queue, attempts = h.engine.bookkeeping(t)
	if len(queue) != 0 || len(attempts) != 0 {
		t.Fatalf("expected cleared bookkeeping, got queue=%v attempts=%v", queue, attempts)
	}
	if h.clock.pending() != 0 {
		t.Fatalf("expected pending transition to be cancelled, got %d", h.clock.pending())
	}

	h.clock.Advance(10 * time.Second)
	h.engine.bookkeeping(t) // flush the loop
	v := h.engine.View()
	if v.State != StateClosed || v.Busy || v.Challenge != nil {
		t.Fatalf("expected closed engine to stay closed, got %+v", v)
	}

	// Reopening starts fresh.
	v = requestMath(t, h)
	if v.Challenge.Identity() != "3+5" {
		t.Fatalf("expected fresh challenge after reopen, got %s", v.Challenge.Identity())
	}
}

func TestCloseDuringVerificationDropsVerdict(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))
	requestMath(t, h)

	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	h.verifier.mu.Lock()
	h.verifier.gate = gate
	h.verifier.entered = entered
	h.verifier.mu.Unlock()

	errs := make(chan error, 1)
	go func() {
		_, err := h.engine.SubmitAnswer(context.Background(), "4")
		errs <- err
	}()
	<-entered

	if err := h.engine.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := <-errs; !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed for the cut-off submission, got %v", err)
	}
	close(gate)

	h.engine.bookkeeping(t)
	if h.store.writeCount() != 0 {
		t.Fatalf("expected no progress write after close, got %d", h.store.writeCount())
	}
	if got := h.engine.View().State; got != StateClosed {
		t.Fatalf("expected closed, got %s", got)
	}
}

func TestVerificationFailureLeavesBookkeeping(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))
	requestMath(t, h)
	submit(t, h, "5")
	h.clock.Advance(2 * time.Second)
	waitForState(t, h.engine, StatePresented)

	h.verifier.setErr(errors.New("connection reset"))
	sub, err := h.engine.SubmitAnswer(context.Background(), "7")
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("expected ErrVerification, got %v", err)
	}
	if sub.Accepted {
		t.Fatal("expected failed submission not to resolve")
	}

	v := h.engine.View()
	if v.State != StatePresented || v.Busy {
		t.Fatalf("expected presented and not busy, got %+v", v)
	}
	queue, attempts := h.engine.bookkeeping(t)
	if len(queue) != 1 || attempts["2+2"] != 1 {
		t.Fatalf("expected bookkeeping unchanged, got queue=%v attempts=%v", queue, attempts)
	}

	h.verifier.setErr(nil)
	if sub := submit(t, h, "4"); sub.Resolution != StateResolvedCorrect {
		t.Fatalf("expected user retry to succeed, got %s", sub.Resolution)
	}
}

func TestPersistFailureKeepsLocalProgress(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""), domain.NewMath("3+5", ""))
	requestMath(t, h)

	h.store.setErr(errors.New("disk full"))
	sub, err := h.engine.SubmitAnswer(context.Background(), "4")
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	if !sub.Accepted || sub.Resolution != StateResolvedCorrect {
		t.Fatalf("expected correct resolution despite write failure, got %+v", sub)
	}
	v := h.engine.View()
	if !v.ProgressDirty || v.Progress.XP != 60 {
		t.Fatalf("expected dirty optimistic mirror, got %+v", v)
	}

	h.clock.Advance(2 * time.Second)
	waitForState(t, h.engine, StatePresented)

	h.store.setErr(nil)
	submit(t, h, "8")
	v = h.engine.View()
	if v.ProgressDirty {
		t.Fatal("expected dirty flag cleared by the next successful write")
	}
	if h.store.writeCount() != 1 {
		t.Fatalf("expected one successful write, got %d", h.store.writeCount())
	}
	if h.store.writes[0].XP != 120 {
		t.Fatalf("expected absolute totals in write, got %+v", h.store.writes[0])
	}
}

func TestUnknownCategoryKeepsIdle(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))

	_, err := h.engine.RequestNextChallenge(context.Background(), domain.Category("chess"))
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if got := h.engine.View().State; got != StateIdle {
		t.Fatalf("expected idle, got %s", got)
	}
	if h.source.callCount() != 0 {
		t.Fatal("expected source not to be called")
	}
}

func TestRequestWhileActiveIsRejected(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""), domain.NewMath("3+5", ""))
	requestMath(t, h)

	v, err := h.engine.RequestNextChallenge(context.Background(), domain.CategoryMath)
	if !errors.Is(err, ErrChallengeActive) {
		t.Fatalf("expected ErrChallengeActive, got %v", err)
	}
	if v.Challenge.Identity() != "2+2" {
		t.Fatalf("expected active challenge unchanged, got %s", v.Challenge.Identity())
	}
}

func TestFetchFailureReturnsToIdle(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.RequestNextChallenge(context.Background(), domain.CategoryMath)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	v := h.engine.View()
	if v.State != StateIdle || v.Error == "" {
		t.Fatalf("expected idle with error, got %+v", v)
	}
}

func TestAutoAdvanceFetchFailureIsPublished(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))
	requestMath(t, h)
	submit(t, h, "4")

	h.clock.Advance(2 * time.Second)
	v := waitForState(t, h.engine, StateIdle)
	if !strings.Contains(v.Error, ErrNotFound.Error()) {
		t.Fatalf("expected fetch error in view, got %q", v.Error)
	}
}

func TestRetryInvariantsHoldAcrossSession(t *testing.T) {
	h := newHarness(t,
		domain.NewMath("2+2", ""),
		domain.NewMath("3+5", ""),
		domain.NewMath("9-4", ""),
	)
	requestMath(t, h)

	answers := []string{"1", "4", "0", "0"}
	for _, answer := range answers {
		sub := submit(t, h, answer)

		queue, attempts := h.engine.bookkeeping(t)
		seen := map[string]bool{}
		for _, id := range queue {
			if seen[id] {
				t.Fatalf("duplicate identity %q in queue %v", id, queue)
			}
			seen[id] = true
		}
		for id, n := range attempts {
			if n < 0 || n > MaxAttempts {
				t.Fatalf("attempts[%q]=%d out of range", id, n)
			}
		}

		switch sub.Resolution {
		case StateResolvedIncorrectRetry:
			h.clock.Advance(2 * time.Second)
		case StateResolvedCorrect:
			h.clock.Advance(2 * time.Second)
		case StateResolvedIncorrectFinal:
			h.clock.Advance(3 * time.Second)
		}
		waitForState(t, h.engine, StatePresented)
	}

	v := h.engine.View()
	if v.Challenge.Identity() != "9-4" {
		t.Fatalf("expected to reach 9-4, got %s", v.Challenge.Identity())
	}
	if h.store.writeCount() != 1 {
		t.Fatalf("expected one write for one correct answer, got %d", h.store.writeCount())
	}
}

func TestShutdownFailsPendingSubmission(t *testing.T) {
	h := newHarness(t, domain.NewMath("2+2", ""))
	requestMath(t, h)

	gate := make(chan struct{})
	entered := make(chan struct{}, 1)
	h.verifier.mu.Lock()
	h.verifier.gate = gate
	h.verifier.entered = entered
	h.verifier.mu.Unlock()

	errs := make(chan error, 1)
	go func() {
		_, err := h.engine.SubmitAnswer(context.Background(), "4")
		errs <- err
	}()
	<-entered

	h.engine.Shutdown()
	if err := <-errs; !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if _, err := h.engine.SubmitAnswer(context.Background(), "4"); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after shutdown, got %v", err)
	}
	close(gate)
}
