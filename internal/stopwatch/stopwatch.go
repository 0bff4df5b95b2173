// Package stopwatch accumulates worked seconds per task. All running tasks
// advance on the same 1-second tick; each task keeps its own counter and
// running flag, so any number may run concurrently.
package stopwatch

import (
	"sync"
	"time"
)

type counter struct {
	running bool
	seconds int64
}

type Tracker struct {
	mu       sync.Mutex
	counters map[string]*counter
	done     chan struct{}
	once     sync.Once
}

func NewTracker() *Tracker {
	return &Tracker{
		counters: make(map[string]*counter),
		done:     make(chan struct{}),
	}
}

// Run drives all running counters forward once per second until Close is
// called. Intended to be started once as a goroutine at server startup.
func (t *Tracker) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.tick()
		case <-t.done:
			return
		}
	}
}

func (t *Tracker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.counters {
		if c.running {
			c.seconds++
		}
	}
}

// Start flips a task's running flag on. On first touch the counter is seeded
// from the minutes already persisted on the task, so elapsed time survives a
// restart up to minute granularity; seconds past the last persist are lost.
func (t *Tracker) Start(taskID string, persistedMinutes int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.counters[taskID]
	if !ok {
		c = &counter{seconds: int64(persistedMinutes) * 60}
		t.counters[taskID] = c
	}
	c.running = true
}

// Stop flips the running flag off and reports the accumulated whole minutes.
// The sub-minute remainder stays in the counter for a later Start.
func (t *Tracker) Stop(taskID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.counters[taskID]
	if !ok {
		return 0
	}
	c.running = false
	return int(c.seconds / 60)
}

// Settle stops the counter and reports its whole minutes, seeding from the
// persisted minutes when the task has never been tracked in this process.
// Used by Hold and Complete so a settle without a prior Start still persists
// the value the task already carried.
func (t *Tracker) Settle(taskID string, persistedMinutes int) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.counters[taskID]
	if !ok {
		c = &counter{seconds: int64(persistedMinutes) * 60}
		t.counters[taskID] = c
	}
	c.running = false
	return int(c.seconds / 60)
}

// Elapsed reports the accumulated seconds without stopping the counter.
func (t *Tracker) Elapsed(taskID string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.counters[taskID]
	if !ok {
		return 0
	}
	return c.seconds
}

// Running reports whether the task's counter is currently advancing.
func (t *Tracker) Running(taskID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.counters[taskID]
	return ok && c.running
}

// Close stops the tick loop. Counters keep their values.
func (t *Tracker) Close() {
	t.once.Do(func() { close(t.done) })
}
