package consensus

import (
	"sync"
	"time"
)

// Timer schedules a single cancelable callback. Scheduling again replaces the
// pending callback. A denied callback may already be in flight; callers guard
// against stale state by re-checking round status at the top of the step.
type Timer interface {
	InvokeAfterDelay(fn func())
	Deny()
}

type delayTimer struct {
	delay time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func NewTimer(delay time.Duration) Timer {
	return &delayTimer{
		delay: delay,
	}
}

func (t *delayTimer) InvokeAfterDelay(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, fn)
}

func (t *delayTimer) Deny() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
