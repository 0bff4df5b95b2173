package stopwatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func advance(t *Tracker, seconds int) {
	for i := 0; i < seconds; i++ {
		t.tick()
	}
}

func TestTracker_AccumulatesWholeMinutes(t *testing.T) {
	tracker := NewTracker()

	tracker.Start("task-1", 0)
	advance(tracker, 125)

	minutes := tracker.Stop("task-1")

	assert.Equal(t, 2, minutes)
	assert.False(t, tracker.Running("task-1"))
}

func TestTracker_SeedsFromPersistedMinutes(t *testing.T) {
	tracker := NewTracker()

	// A task with 5 persisted minutes resumes at 300 seconds.
	tracker.Start("task-1", 5)
	assert.EqualValues(t, 300, tracker.Elapsed("task-1"))

	advance(tracker, 60)
	assert.Equal(t, 6, tracker.Stop("task-1"))
}

func TestTracker_SeedOnlyAppliesOnFirstTouch(t *testing.T) {
	tracker := NewTracker()

	tracker.Start("task-1", 1)
	advance(tracker, 30)
	tracker.Stop("task-1")

	// Restarting must not re-seed; the 30-second remainder is retained.
	tracker.Start("task-1", 99)
	assert.EqualValues(t, 90, tracker.Elapsed("task-1"))
}

func TestTracker_StoppedCounterDoesNotAdvance(t *testing.T) {
	tracker := NewTracker()

	tracker.Start("task-1", 0)
	advance(tracker, 10)
	tracker.Stop("task-1")

	advance(tracker, 50)
	assert.EqualValues(t, 10, tracker.Elapsed("task-1"))
}

func TestTracker_IndependentConcurrentCounters(t *testing.T) {
	tracker := NewTracker()

	tracker.Start("task-1", 0)
	advance(tracker, 30)

	tracker.Start("task-2", 0)
	advance(tracker, 45)

	assert.EqualValues(t, 75, tracker.Elapsed("task-1"))
	assert.EqualValues(t, 45, tracker.Elapsed("task-2"))

	tracker.Stop("task-1")
	advance(tracker, 60)

	assert.EqualValues(t, 75, tracker.Elapsed("task-1"))
	assert.EqualValues(t, 105, tracker.Elapsed("task-2"))
}

func TestTracker_SettleWithoutStartKeepsPersistedMinutes(t *testing.T) {
	tracker := NewTracker()

	// No Start in this process: settle must report the value already on the
	// task instead of zeroing it.
	assert.Equal(t, 7, tracker.Settle("task-1", 7))
}

func TestTracker_SettleAfterRunning(t *testing.T) {
	tracker := NewTracker()

	tracker.Start("task-1", 0)
	advance(tracker, 125)

	assert.Equal(t, 2, tracker.Settle("task-1", 0))
	assert.False(t, tracker.Running("task-1"))
}

func TestTracker_StopUnknownTask(t *testing.T) {
	tracker := NewTracker()
	assert.Equal(t, 0, tracker.Stop("missing"))
	assert.EqualValues(t, 0, tracker.Elapsed("missing"))
}
