// Package window partitions an exam's event stream into time windows.
//
// Tumbling produces the contiguous fixed-size windows used by the batch
// feature-dataset pass; FixedInterval cuts a single arbitrary interval for
// the rolling scoring path.
package window

import (
	"sort"
	"time"

	"github.com/proctorai/classifier/internal/core"
)

// SortEvents returns a copy of events ordered by CreatedAt. Upstream storage
// ordering is not trusted.
func SortEvents(events []core.Event) []core.Event {
	sorted := make([]core.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// Tumbling splits events into successive non-overlapping windows of size
// windowSize starting at the earliest timestamp. Windows with zero events are
// skipped; a final partial window shorter than windowSize is kept when
// non-empty. An empty event set yields zero windows.
func Tumbling(events []core.Event, windowSize time.Duration) []core.Window {
	if len(events) == 0 {
		return nil
	}

	sorted := SortEvents(events)
	examID := sorted[0].ExamID

	var windows []core.Window
	idx := 0
	start := sorted[0].CreatedAt
	for idx < len(sorted) {
		end := start.Add(windowSize)

		var inWindow []core.Event
		for idx < len(sorted) && sorted[idx].CreatedAt.Before(end) {
			inWindow = append(inWindow, sorted[idx])
			idx++
		}

		if len(inWindow) > 0 {
			windows = append(windows, core.Window{
				ExamID: examID,
				Start:  start,
				End:    end,
				Events: inWindow,
			})
		}
		start = end
	}
	return windows
}

// FixedInterval selects events with start <= ts < end into a single window.
// Unlike Tumbling, an empty selection is not skipped: the window is forwarded
// so that extractors emit their full default vectors and every requested
// sub-interval produces exactly one score record.
func FixedInterval(events []core.Event, examID string, start, end time.Time) core.Window {
	sorted := SortEvents(events)

	var inWindow []core.Event
	for _, e := range sorted {
		if e.CreatedAt.Before(start) {
			continue
		}
		if !e.CreatedAt.Before(end) {
			break
		}
		inWindow = append(inWindow, e)
	}

	return core.Window{
		ExamID: examID,
		Start:  start,
		End:    end,
		Events: inWindow,
	}
}
