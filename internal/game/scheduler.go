package game

import (
	"sort"
	"time"
)

type scheduledTask struct {
	due time.Duration
	seq int
	fn  func()
}

// Scheduler runs deferred tasks against a simulated clock. Tasks fire from
// RunDue in due order; tasks due at the same instant fire in the order they
// were scheduled.
type Scheduler struct {
	now   time.Duration
	seq   int
	tasks []scheduledTask
}

// Now returns the simulated time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Advance moves the clock forward by d without running anything.
func (s *Scheduler) Advance(d time.Duration) { s.now += d }

// Schedule queues fn to run delay after the current time.
func (s *Scheduler) Schedule(delay time.Duration, fn func()) {
	s.seq++
	s.tasks = append(s.tasks, scheduledTask{due: s.now + delay, seq: s.seq, fn: fn})
}

// ScheduleBatch queues n tasks at 0, interval, 2·interval, … from now. fn
// receives the index of the task within the batch.
func (s *Scheduler) ScheduleBatch(n int, interval time.Duration, fn func(i int)) {
	for i := 0; i < n; i++ {
		i := i
		s.Schedule(time.Duration(i)*interval, func() { fn(i) })
	}
}

// RunDue runs every task whose due time has been reached and returns how
// many ran. Tasks scheduled by a running task wait for the next call.
func (s *Scheduler) RunDue() int {
	if len(s.tasks) == 0 {
		return 0
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].seq < s.tasks[j].seq
	})
	n := 0
	for n < len(s.tasks) && s.tasks[n].due <= s.now {
		n++
	}
	due := s.tasks[:n:n]
	s.tasks = append([]scheduledTask(nil), s.tasks[n:]...)
	for _, t := range due {
		t.fn()
	}
	return n
}

// Cancel drops every pending task and returns how many were dropped. Tasks
// that already ran are unaffected.
func (s *Scheduler) Cancel() int {
	n := len(s.tasks)
	s.tasks = nil
	return n
}

// Pending returns the number of tasks still waiting.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// DueTimes returns the due times of pending tasks relative to now, in
// scheduling order.
func (s *Scheduler) DueTimes() []time.Duration {
	out := make([]time.Duration, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.due - s.now
	}
	return out
}
