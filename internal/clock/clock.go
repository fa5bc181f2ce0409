// Package clock provides wall time and the periodic tick source that drives
// the timer engine.
package clock

import (
	"sync"
	"time"
)

// Clock abstracts wall time to keep session timestamps deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Func adapts a function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// Scheduler runs a callback periodically until cancelled.
// Start replaces any previous schedule. After Cancel returns, the callback
// of the cancelled schedule is never invoked again.
type Scheduler interface {
	Start(interval time.Duration, fn func())
	Cancel()
}

// TickerScheduler implements Scheduler with a time.Ticker goroutine per
// schedule. A generation counter guards ticks that were already in flight
// when Cancel ran.
type TickerScheduler struct {
	mu   sync.Mutex
	gen  uint64
	stop chan struct{}
}

// NewTickerScheduler creates an idle scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Start begins calling fn every interval.
func (s *TickerScheduler) Start(interval time.Duration, fn func()) {
	if interval <= 0 {
		interval = time.Second
	}

	s.mu.Lock()
	s.cancelLocked()
	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go s.run(interval, gen, stop, fn)
}

// Cancel stops the current schedule, if any.
func (s *TickerScheduler) Cancel() {
	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
}

func (s *TickerScheduler) cancelLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.gen++
}

func (s *TickerScheduler) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *TickerScheduler) run(interval time.Duration, gen uint64, stop chan struct{}, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.current(gen) {
				return
			}
			fn()
		}
	}
}

// ManualScheduler is a Scheduler driven by explicit Fire calls. It lets
// tests advance the engine one tick at a time.
type ManualScheduler struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	starts   int
	cancels  int
}

// NewManualScheduler creates an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Start(interval time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	m.interval = interval
	m.starts++
}

func (m *ManualScheduler) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = nil
	m.cancels++
}

// Fire invokes the scheduled callback once. It reports false when nothing
// is scheduled.
func (m *ManualScheduler) Fire() bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// FireN calls Fire n times and returns how many fired.
func (m *ManualScheduler) FireN(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		if !m.Fire() {
			break
		}
		fired++
	}
	return fired
}

// Callback returns the scheduled callback without invoking it, so tests can
// hold on to a tick that was queued before a cancellation.
func (m *ManualScheduler) Callback() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn
}

// Running reports whether a callback is scheduled.
func (m *ManualScheduler) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

// Interval returns the interval of the last Start.
func (m *ManualScheduler) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}

// Starts returns how many times Start was called.
func (m *ManualScheduler) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Cancels returns how many times Cancel was called.
func (m *ManualScheduler) Cancels() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancels
}
