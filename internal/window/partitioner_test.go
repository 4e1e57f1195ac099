package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorai/classifier/internal/core"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func eventAt(offset time.Duration) core.Event {
	return core.Event{
		ExamID:    "exam-1",
		Type:      core.EventMouseMove,
		CreatedAt: base.Add(offset),
	}
}

func TestTumblingEmptyInput(t *testing.T) {
	assert.Nil(t, Tumbling(nil, 30*time.Second))
	assert.Nil(t, Tumbling([]core.Event{}, 30*time.Second))
}

func TestTumblingCoversAllEventsWithoutOverlap(t *testing.T) {
	// 90s of events, including a boundary hit and an empty middle window.
	events := []core.Event{
		eventAt(0),
		eventAt(10 * time.Second),
		eventAt(29 * time.Second),
		eventAt(65 * time.Second),
		eventAt(90 * time.Second),
	}
	windows := Tumbling(events, 30*time.Second)
	require.Len(t, windows, 3)

	// Windows tile the range with no gaps or overlaps; empty windows are
	// skipped but boundaries stay aligned to the stream's min timestamp.
	assert.Equal(t, base, windows[0].Start)
	assert.Equal(t, base.Add(30*time.Second), windows[0].End)
	assert.Equal(t, base.Add(60*time.Second), windows[1].Start)
	assert.Equal(t, base.Add(90*time.Second), windows[2].Start)

	total := 0
	seen := make(map[time.Time]bool)
	for _, w := range windows {
		for _, e := range w.Events {
			assert.True(t, !e.CreatedAt.Before(w.Start))
			assert.True(t, e.CreatedAt.Before(w.End))
			assert.False(t, seen[e.CreatedAt], "event assigned twice")
			seen[e.CreatedAt] = true
			total++
		}
	}
	assert.Equal(t, len(events), total)
}

func TestTumblingSortsUnorderedInput(t *testing.T) {
	events := []core.Event{
		eventAt(40 * time.Second),
		eventAt(0),
		eventAt(20 * time.Second),
	}
	windows := Tumbling(events, 30*time.Second)
	require.Len(t, windows, 2)
	assert.Len(t, windows[0].Events, 2)
	assert.Len(t, windows[1].Events, 1)
	assert.Equal(t, base, windows[0].Events[0].CreatedAt)
}

func TestTumblingPartialFinalWindow(t *testing.T) {
	events := []core.Event{
		eventAt(0),
		eventAt(35 * time.Second),
	}
	windows := Tumbling(events, 30*time.Second)
	require.Len(t, windows, 2)
	assert.Len(t, windows[1].Events, 1)
}

func TestTumblingSingleEvent(t *testing.T) {
	windows := Tumbling([]core.Event{eventAt(0)}, 30*time.Second)
	require.Len(t, windows, 1)
	assert.Len(t, windows[0].Events, 1)
}

func TestFixedIntervalSelectsHalfOpenRange(t *testing.T) {
	events := []core.Event{
		eventAt(0),
		eventAt(10 * time.Second),
		eventAt(30 * time.Second), // == end, excluded
	}
	w := FixedInterval(events, "exam-1", base, base.Add(30*time.Second))

	assert.Len(t, w.Events, 2)
	assert.Equal(t, base, w.Start)
}

func TestFixedIntervalForwardsEmptyWindow(t *testing.T) {
	events := []core.Event{eventAt(2 * time.Hour)}
	w := FixedInterval(events, "exam-1", base, base.Add(30*time.Second))

	assert.Empty(t, w.Events)
	assert.Equal(t, "exam-1", w.ExamID)
	assert.Equal(t, base.Add(30*time.Second), w.End)
}
