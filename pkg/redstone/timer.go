package redstone

import (
	"github.com/redstonemc/redstone/internal/script"
)

// Timer represents a scheduled callback. Callbacks run on the
// dispatch thread, between event handlers.
type Timer struct {
	id      int64
	sched   *script.Scheduler
	stopped bool
}

// Stop cancels the timer
func (t *Timer) Stop() {
	if t == nil || t.stopped {
		return
	}
	t.stopped = true
	t.sched.Cancel(t.id)
}

// IsStopped returns true if the timer has been stopped
func (t *Timer) IsStopped() bool {
	return t == nil || t.stopped
}

// Post runs a callback on the dispatch thread at the next scheduler
// drain, before the next tick handler.
func (c *Context) Post(fn func()) {
	if fn == nil {
		return
	}
	c.env.Bridge.Scheduler().Post(fn)
}

// After runs a callback once, after a delay in ticks.
func (c *Context) After(delayTicks int64, fn func()) *Timer {
	if fn == nil {
		return nil
	}
	s := c.env.Bridge.Scheduler()
	return &Timer{id: s.After(delayTicks, fn), sched: s}
}

// Every runs a callback repeatedly, every interval ticks, until the
// timer is stopped.
func (c *Context) Every(intervalTicks int64, fn func()) *Timer {
	if fn == nil {
		return nil
	}
	s := c.env.Bridge.Scheduler()
	return &Timer{id: s.Every(intervalTicks, fn), sched: s}
}
