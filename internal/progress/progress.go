// Package progress drives the staged status displays shown while a resume is analysed or
// internships are matched.
package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Phase is the state of a Runner.
type Phase int

const (
	Idle Phase = iota
	Running
	Completed
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Step is one stage of a flow.
type Step struct {
	Status   string        `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Event is a transition reported to the observer. Index is only meaningful while Running.
type Event struct {
	Phase Phase `json:"phase"`
	Index int   `json:"index"`
	Step  Step  `json:"step"`
}

var (
	ErrCancelled      = errors.New("progress cancelled")
	ErrAlreadyStarted = errors.New("progress already started")
)

// Clock waits out step durations.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Runner walks a fixed list of steps once.
type Runner struct {
	steps []Step
	clock Clock

	mu       sync.Mutex
	phase    Phase
	index    int
	cancel   chan struct{}
	stopOnce sync.Once
}

// NewRunner returns an idle runner. A nil clock uses real timers.
func NewRunner(steps []Step, clock Clock) *Runner {
	if clock == nil {
		clock = realClock{}
	}
	return &Runner{
		steps:  steps,
		clock:  clock,
		index:  -1,
		cancel: make(chan struct{}),
	}
}

// State returns the current phase and the index of the running step.
func (r *Runner) State() (Phase, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase, r.index
}

// Cancel stops the runner. No step starts after Cancel returns and the next event is Cancelled;
// a step event already being delivered to the observer still completes. Cancelling a finished
// runner has no effect. Cancel does not wait for the observer, so it is safe to call from it.
func (r *Runner) Cancel() {
	r.mu.Lock()
	if r.phase == Idle || r.phase == Running {
		r.phase = Cancelled
	}
	r.mu.Unlock()
	r.stopOnce.Do(func() { close(r.cancel) })
}

// Run reports each step to observe, waits its duration, and finishes with a Completed or
// Cancelled event. It returns ErrCancelled, or the context error, when stopped early.
func (r *Runner) Run(ctx context.Context, observe func(Event)) error {
	if observe == nil {
		observe = func(Event) {}
	}
	r.mu.Lock()
	switch r.phase {
	case Cancelled:
		r.mu.Unlock()
		return ErrCancelled
	case Running, Completed:
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.phase = Running
	r.mu.Unlock()

	for i, step := range r.steps {
		if !r.advance(i) {
			return r.stop(ctx, observe)
		}
		observe(Event{Phase: Running, Index: i, Step: step})

		select {
		case <-r.clock.After(step.Duration):
		case <-r.cancel:
			return r.stop(ctx, observe)
		case <-ctx.Done():
			r.Cancel()
			return r.stop(ctx, observe)
		}
	}

	r.mu.Lock()
	if r.phase != Running {
		r.mu.Unlock()
		return r.stop(ctx, observe)
	}
	r.phase = Completed
	r.mu.Unlock()
	observe(Event{Phase: Completed, Index: len(r.steps)})
	return nil
}

func (r *Runner) advance(i int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != Running {
		return false
	}
	r.index = i
	return true
}

func (r *Runner) stop(ctx context.Context, observe func(Event)) error {
	_, index := r.State()
	observe(Event{Phase: Cancelled, Index: index})
	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrCancelled
}

// Total is the sum of all step durations.
func Total(steps []Step) time.Duration {
	var d time.Duration
	for _, s := range steps {
		d += s.Duration
	}
	return d
}
