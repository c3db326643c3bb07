package gate

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler runs delayed callbacks while holding the owner's lock, so a
// callback is sequenced with every other event of the owner. All methods
// must be called with that lock held.
type Scheduler struct {
	clock  clockwork.Clock
	lock   sync.Locker
	tasks  map[*Task]struct{}
	closed bool
}

// Task is one scheduled callback.
type Task struct {
	timer clockwork.Timer
	done  bool
}

func NewScheduler(clock clockwork.Clock, lock sync.Locker) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		clock: clock,
		lock:  lock,
		tasks: make(map[*Task]struct{}),
	}
}

// After schedules fn to run once d has elapsed. It returns nil once the
// scheduler is closed.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	if s.closed {
		return nil
	}
	t := &Task{}
	s.tasks[t] = struct{}{}
	t.timer = s.clock.AfterFunc(d, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		if t.done || s.closed {
			return
		}
		t.done = true
		delete(s.tasks, t)
		fn()
	})
	return t
}

// Cancel stops t and reports whether it was still pending.
func (s *Scheduler) Cancel(t *Task) bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	delete(s.tasks, t)
	t.timer.Stop()
	return true
}

// Pending returns the number of scheduled callbacks that have not run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

func (s *Scheduler) Now() time.Time {
	return s.clock.Now()
}

// Close cancels every pending callback; later After calls are no-ops.
func (s *Scheduler) Close() {
	s.closed = true
	for t := range s.tasks {
		s.Cancel(t)
	}
}
