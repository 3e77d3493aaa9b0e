// Package render coalesces transcript mutations into at most one callback
// invocation per refresh interval.
package render

import (
	"sync"
	"time"

	"github.com/SethBurkart123/runstream"
)

// DefaultInterval approximates one display refresh at 60Hz.
const DefaultInterval = 16 * time.Millisecond

// Interface compliance check.
var _ runstream.Scheduler = (*Scheduler)(nil)

// Scheduler delivers the most recent snapshot to a callback, coalescing
// bursts: mutations scheduled within one interval collapse into a single
// delivery carrying only the latest state. Intermediate snapshots are not
// guaranteed to be delivered.
type Scheduler struct {
	interval time.Duration
	onUpdate func([]runstream.ContentBlock)

	mu      sync.Mutex
	timer   *time.Timer
	latest  []runstream.ContentBlock
	pending bool
	stopped bool
}

// New creates a Scheduler delivering to onUpdate. A non-positive interval
// falls back to DefaultInterval.
func New(interval time.Duration, onUpdate func([]runstream.ContentBlock)) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, onUpdate: onUpdate}
}

// Schedule records blocks as the latest snapshot and arms a delivery if
// none is pending. It never blocks and never invokes the callback
// synchronously.
func (s *Scheduler) Schedule(blocks []runstream.ContentBlock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.latest = blocks
	if s.pending {
		return
	}
	s.pending = true
	s.timer = time.AfterFunc(s.interval, s.fire)
}

// Flush delivers the pending snapshot synchronously, cancelling the armed
// timer. No-op when nothing is pending.
func (s *Scheduler) Flush() {
	s.deliver(true)
}

// Stop cancels any pending delivery without invoking the callback.
// Subsequent Schedule calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Scheduler) fire() {
	s.deliver(false)
}

// deliver hands the latest snapshot to the callback outside the lock.
// The pending flag guarantees at most one delivery per armed timer, even
// when Flush races the timer goroutine.
func (s *Scheduler) deliver(cancelTimer bool) {
	s.mu.Lock()
	if s.stopped || !s.pending {
		s.mu.Unlock()
		return
	}
	if cancelTimer && s.timer != nil {
		s.timer.Stop()
	}
	blocks := s.latest
	s.pending = false
	s.mu.Unlock()

	s.onUpdate(blocks)
}
