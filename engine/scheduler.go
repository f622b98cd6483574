package engine

import (
	"container/heap"
	"time"
)

// TimerID identifies a pending deferred action
type TimerID uint64

type deferred struct {
	id     TimerID
	fireAt time.Duration
	fn     func()
	index  int
}

type deferredHeap []*deferred

func (h deferredHeap) Len() int {
	return len(h)
}

func (h deferredHeap) Less(i, j int) bool {
	if h[i].fireAt != h[j].fireAt {
		return h[i].fireAt < h[j].fireAt
	}
	return h[i].id < h[j].id
}

func (h deferredHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *deferredHeap) Push(x any) {
	d := x.(*deferred)
	d.index = len(*h)
	*h = append(*h, d)
}

func (h *deferredHeap) Pop() any {
	old := *h
	n := len(old)
	d := old[n-1]
	old[n-1] = nil
	d.index = -1
	*h = old[:n-1]
	return d
}

// Scheduler runs one-shot actions once game time passes their deadline
// Actions fire in deadline order; equal deadlines fire in scheduling order
type Scheduler struct {
	now     time.Duration
	nextID  TimerID
	pending deferredHeap
	byID    map[TimerID]*deferred
}

// NewScheduler creates an empty scheduler at game time zero
func NewScheduler() *Scheduler {
	return &Scheduler{
		byID: make(map[TimerID]*deferred),
	}
}

// After schedules fn to run delay after the current game time
// A non-positive delay runs fn on the next Poll
func (s *Scheduler) After(delay time.Duration, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	d := &deferred{
		id:     s.nextID,
		fireAt: s.now + delay,
		fn:     fn,
	}
	heap.Push(&s.pending, d)
	s.byID[d.id] = d
	return d.id
}

// Cancel removes a pending action; returns false if it already ran or never existed
func (s *Scheduler) Cancel(id TimerID) bool {
	d, ok := s.byID[id]
	if !ok {
		return false
	}
	heap.Remove(&s.pending, d.index)
	delete(s.byID, id)
	return true
}

// Poll advances game time to now and runs every action that is due
// Actions scheduled from inside a callback with zero delay wait for the next Poll
func (s *Scheduler) Poll(now time.Duration) int {
	if now > s.now {
		s.now = now
	}
	ran := 0
	limit := s.nextID
	for len(s.pending) > 0 {
		next := s.pending[0]
		if next.fireAt > s.now || next.id > limit {
			break
		}
		heap.Pop(&s.pending)
		delete(s.byID, next.id)
		next.fn()
		ran++
	}
	return ran
}

// Pending returns the number of actions waiting to fire
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// Now returns the game time of the last Poll
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Reset drops all pending actions and rewinds game time
func (s *Scheduler) Reset() {
	clear(s.pending)
	s.pending = s.pending[:0]
	clear(s.byID)
	s.now = 0
}
