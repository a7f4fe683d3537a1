package dedup_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/phrazzld/scry-feed/internal/dedup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T, capacity, maxViewers int) *dedup.Tracker {
	t.Helper()
	tracker, err := dedup.New(capacity, maxViewers)
	require.NoError(t, err)
	return tracker
}

func TestTracker_FilterAndRecord(t *testing.T) {
	t.Parallel()

	tracker := newTracker(t, 10, 10)

	unique, dups := tracker.Filter("v1", []string{"A", "B"})
	assert.Equal(t, []string{"A", "B"}, unique)
	assert.Zero(t, dups)

	t.Run("filter is read-only", func(t *testing.T) {
		assert.Zero(t, tracker.Seen("v1"))
	})

	tracker.Record("v1", []string{"A"})

	unique, dups = tracker.Filter("v1", []string{"  a ", "B", "b", "C"})
	assert.Equal(t, []string{"B", "C"}, unique, "normalized repeats of seen and in-batch items are dropped")
	assert.Equal(t, 2, dups)

	t.Run("all duplicates", func(t *testing.T) {
		unique, dups := tracker.Filter("v1", []string{"A", "A"})
		assert.Empty(t, unique)
		assert.Equal(t, 2, dups)
	})

	t.Run("viewers are isolated", func(t *testing.T) {
		unique, dups := tracker.Filter("v2", []string{"A"})
		assert.Equal(t, []string{"A"}, unique)
		assert.Zero(t, dups)
	})

	t.Run("record ignores repeats", func(t *testing.T) {
		tracker.Record("v1", []string{"A", "a", "D"})
		assert.Equal(t, 2, tracker.Seen("v1"))
	})
}

func TestTracker_CapacityEviction(t *testing.T) {
	t.Parallel()

	tracker := newTracker(t, 3, 10)
	tracker.Record("v", []string{"1", "2", "3"})
	tracker.Record("v", []string{"4"})

	assert.Equal(t, 3, tracker.Seen("v"))

	unique, _ := tracker.Filter("v", []string{"1", "2", "3", "4"})
	assert.Equal(t, []string{"1"}, unique, "oldest fingerprint is evicted first")

	tracker.Record("v", []string{"5", "6"})
	unique, _ = tracker.Filter("v", []string{"1", "2", "3", "4", "5", "6"})
	assert.Equal(t, []string{"1", "2", "3"}, unique)
}

func TestTracker_RecordedKeepsCountingWhenFull(t *testing.T) {
	t.Parallel()

	tracker := newTracker(t, 2, 10)
	assert.Zero(t, tracker.Recorded("v"))

	for i := 0; i < 10; i++ {
		tracker.Record("v", []string{fmt.Sprintf("a-%d", i), fmt.Sprintf("b-%d", i)})
	}
	tracker.Record("v", nil)
	tracker.Record("v", []string{"b-9"})

	assert.Equal(t, 2, tracker.Seen("v"))
	assert.Equal(t, uint64(11), tracker.Recorded("v"), "empty records are ignored, repeats still count")

	tracker.Forget("v")
	assert.Zero(t, tracker.Recorded("v"))
}

func TestTracker_ViewerEviction(t *testing.T) {
	t.Parallel()

	// One viewer per shard at most.
	tracker := newTracker(t, 5, 1)
	for i := 0; i < 100; i++ {
		tracker.Record(fmt.Sprintf("viewer-%d", i), []string{"x"})
	}

	assert.LessOrEqual(t, tracker.Viewers(), 16)

	tracker.Forget("viewer-99")
	assert.Zero(t, tracker.Seen("viewer-99"))
}

func TestTracker_ConcurrentRecord(t *testing.T) {
	t.Parallel()

	tracker := newTracker(t, 1000, 100)

	var wg sync.WaitGroup
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			batch := make([]string, 0, 10)
			for i := 0; i < 10; i++ {
				batch = append(batch, fmt.Sprintf("snippet-%d-%d", g, i))
			}
			tracker.Record("shared", batch)
			tracker.Filter("shared", batch)
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 200, tracker.Seen("shared"), "no lost updates")
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	tracker := newTracker(t, 0, 0)
	tracker.Record("v", []string{"a"})
	assert.Equal(t, 1, tracker.Seen("v"))
}
