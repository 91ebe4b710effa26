package game

import (
	"sort"
	"time"
)

// Scheduler runs fn once after d has elapsed. The returned cancel func
// prevents a pending fn from running; calling it after fn ran is a no-op.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// Clock is a manual Scheduler. Time only moves when Advance is called, so a
// simulation driven by fixed ticks stays deterministic.
type Clock struct {
	now     time.Duration
	seq     uint64
	pending []*clockTimer
}

type clockTimer struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// NewClock returns a Clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the simulated time since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// After schedules fn to run once the clock has advanced by d.
func (c *Clock) After(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &clockTimer{at: c.now + d, seq: c.seq, fn: fn}
	c.pending = append(c.pending, t)
	return func() { t.cancelled = true }
}

// Advance moves the clock forward by d, running every timer that falls due in
// order of due time (ties in scheduling order). Timers scheduled by a running
// callback fire in the same call if they fall due before the new time.
func (c *Clock) Advance(d time.Duration) {
	target := c.now + d
	for {
		t := c.popDue(target)
		if t == nil {
			break
		}
		c.now = t.at
		t.fn()
	}
	c.now = target
}

// Pending returns how many timers are armed and not cancelled.
func (c *Clock) Pending() int {
	n := 0
	for _, t := range c.pending {
		if !t.cancelled {
			n++
		}
	}
	return n
}

func (c *Clock) popDue(target time.Duration) *clockTimer {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	c.pending = live
	if len(c.pending) == 0 {
		return nil
	}
	sort.Slice(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	t := c.pending[0]
	if t.at > target {
		return nil
	}
	c.pending = c.pending[1:]
	return t
}

// timerSlot holds at most one pending callback for a logical timer. Arming a
// slot cancels whatever it held, and a generation counter turns any fire that
// races a cancel into a no-op.
type timerSlot struct {
	name   string
	sched  Scheduler
	gen    uint64
	cancel func()
}

func newTimerSlot(name string, sched Scheduler) *timerSlot {
	return &timerSlot{name: name, sched: sched}
}

// Arm replaces any pending callback with fn, due after d.
func (s *timerSlot) Arm(d time.Duration, fn func()) {
	s.Cancel()
	gen := s.gen
	s.cancel = s.sched.After(d, func() {
		if gen != s.gen {
			return
		}
		s.cancel = nil
		s.gen++
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (s *timerSlot) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// Armed reports whether a callback is pending.
func (s *timerSlot) Armed() bool {
	return s.cancel != nil
}
