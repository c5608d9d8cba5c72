package scheduler

import (
	"sync"
	"time"
)

// CancelFunc cancels a pending task. It reports whether the task was still
// pending; a task that already fired (or was already canceled) returns false.
type CancelFunc func() bool

// Scheduler provides delayed task execution that can be mocked for testing.
// Callbacks fire on their own goroutine; they must re-check any state they
// depend on, since the world may have moved on between scheduling and firing.
type Scheduler interface {
	// After runs fn once after d elapses, unless canceled first.
	After(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler implements Scheduler with real timers
type TimerScheduler struct{}

// New creates a new TimerScheduler
func New() *TimerScheduler {
	return &TimerScheduler{}
}

// After runs fn once after d elapses, unless canceled first
func (s *TimerScheduler) After(d time.Duration, fn func()) CancelFunc {
	var mu sync.Mutex
	done := false

	t := time.AfterFunc(d, func() {
		mu.Lock()
		if done {
			mu.Unlock()
			return
		}
		done = true
		mu.Unlock()
		fn()
	})

	return func() bool {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return false
		}
		done = true
		t.Stop()
		return true
	}
}
