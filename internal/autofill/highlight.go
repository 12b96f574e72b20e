package autofill

import (
	"sync"
	"time"
)

// DefaultHighlightDuration is how long a filled control stays marked.
const DefaultHighlightDuration = 1200 * time.Millisecond

// Target is anything whose controls can carry a transient visual marker.
type Target interface {
	SetHighlight(id string, on bool)
}

// Highlighter marks a control that auto-fill touched.
type Highlighter interface {
	Highlight(t Target, id string)
}

// TimedHighlighter turns the marker on and schedules it off after Duration.
type TimedHighlighter struct {
	Duration time.Duration

	mu     sync.Mutex
	timers map[timerKey]*time.Timer
}

type timerKey struct {
	target Target
	id     string
}

func NewTimedHighlighter(d time.Duration) *TimedHighlighter {
	if d <= 0 {
		d = DefaultHighlightDuration
	}
	return &TimedHighlighter{Duration: d, timers: make(map[timerKey]*time.Timer)}
}

// Highlight restarts the revert timer when the same control is touched again.
func (h *TimedHighlighter) Highlight(t Target, id string) {
	t.SetHighlight(id, true)

	key := timerKey{target: t, id: id}
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.timers[key]; ok {
		prev.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(h.Duration, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.timers[key] != timer {
			return
		}
		delete(h.timers, key)
		t.SetHighlight(id, false)
	})
	h.timers[key] = timer
}

// Pending reports how many reverts are still scheduled.
func (h *TimedHighlighter) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timers)
}

// Stop cancels pending reverts and clears their markers immediately.
func (h *TimedHighlighter) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for key, timer := range h.timers {
		timer.Stop()
		key.target.SetHighlight(key.id, false)
		delete(h.timers, key)
	}
}

// NoHighlight discards markers. Used by headless callers such as the worker.
type NoHighlight struct{}

func (NoHighlight) Highlight(Target, string) {}
