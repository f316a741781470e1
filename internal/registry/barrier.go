package registry

import (
	"sync"
	"time"
)

// Barrier is the one-shot open/closed gate between "scripts are still
// queueing registrations" and "the drain may run". The script side
// closes it exactly once; the engine side waits behind it with a
// bounded timeout so a script that never signals cannot hang startup.
type Barrier struct {
	once sync.Once
	ch   chan struct{}
}

// NewBarrier returns an open barrier.
func NewBarrier() *Barrier {
	return &Barrier{ch: make(chan struct{})}
}

// Signal closes the barrier. Later calls are no-ops.
func (b *Barrier) Signal() {
	b.once.Do(func() { close(b.ch) })
}

// Signaled reports whether the barrier has been closed.
func (b *Barrier) Signaled() bool {
	select {
	case <-b.ch:
		return true
	default:
		return false
	}
}

// Wait blocks until the barrier closes or the timeout elapses. It
// returns true when the signal arrived in time. A false return is not
// fatal: the caller proceeds with whatever was queued and logs the
// shortfall.
func (b *Barrier) Wait(timeout time.Duration) bool {
	select {
	case <-b.ch:
		return true
	case <-time.After(timeout):
		return false
	}
}
