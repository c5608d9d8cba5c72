package mocks

import (
	"sync"
	"time"

	"github.com/asapbuyco-source/Katika-sub000/internal/dependencies/scheduler"
)

// ManualScheduler queues tasks and fires them only when the test says so
type ManualScheduler struct {
	mu     sync.Mutex
	nextID int
	tasks  map[int]*manualTask
	order  []int
}

type manualTask struct {
	delay time.Duration
	fn    func()
}

// NewManualScheduler creates an empty ManualScheduler
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[int]*manualTask)}
}

// After queues fn without running it
func (s *ManualScheduler) After(d time.Duration, fn func()) scheduler.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.tasks[id] = &manualTask{delay: d, fn: fn}
	s.order = append(s.order, id)

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.tasks[id]; !ok {
			return false
		}
		delete(s.tasks, id)
		return true
	}
}

// Pending returns the number of queued tasks
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// FireNext runs the oldest queued task and reports whether one ran
func (s *ManualScheduler) FireNext() bool {
	s.mu.Lock()
	var fn func()
	for len(s.order) > 0 {
		id := s.order[0]
		s.order = s.order[1:]
		if t, ok := s.tasks[id]; ok {
			fn = t.fn
			delete(s.tasks, id)
			break
		}
	}
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// FireAll runs queued tasks, including any scheduled while firing, until none remain
func (s *ManualScheduler) FireAll() {
	for s.FireNext() {
	}
}
