package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proctorai/classifier/internal/core"
)

func stateEvent(offset time.Duration, state string) core.Event {
	return core.Event{
		ExamID:    "exam-1",
		Type:      core.EventWindowStateChange,
		Data:      map[string]interface{}{"state": state},
		CreatedAt: t0.Add(offset),
	}
}

func tabEvent(offset time.Duration) core.Event {
	return core.Event{
		ExamID:    "exam-1",
		Type:      core.EventTabSwitch,
		Data:      map[string]interface{}{},
		CreatedAt: t0.Add(offset),
	}
}

func resizeEvent(offset time.Duration, ratio interface{}) core.Event {
	data := map[string]interface{}{}
	if ratio != nil {
		data["ratio"] = ratio
	}
	return core.Event{
		ExamID:    "exam-1",
		Type:      core.EventWindowResize,
		Data:      data,
		CreatedAt: t0.Add(offset),
	}
}

func TestWindowStateEmptyWindowDefaults(t *testing.T) {
	fv := NewWindowStateExtractor().Extract(testWindow())

	assert.Equal(t, WindowStateDefaults(), fv)
	assertComplete(t, fv, WindowStateDefaults())
}

func TestWindowStateBlurPairing(t *testing.T) {
	// First blur pairs with the focus 3s later; the second blur has no later
	// focus and is excluded.
	w := testWindow(
		stateEvent(0, "blurred"),
		stateEvent(3*time.Second, "focused"),
		stateEvent(10*time.Second, "blurred"),
		tabEvent(30*time.Second),
	)
	fv := NewWindowStateExtractor().Extract(w)

	assert.Equal(t, 2.0, fv["blur_count"])
	assert.Equal(t, 3.0, fv["total_blur_duration"])
	assert.Equal(t, 3.0, fv["avg_blur_duration"])
}

func TestWindowStateNoFocusNoDuration(t *testing.T) {
	w := testWindow(
		stateEvent(0, "blurred"),
		stateEvent(5*time.Second, "blurred"),
		tabEvent(10*time.Second),
	)
	fv := NewWindowStateExtractor().Extract(w)

	assert.Equal(t, 2.0, fv["blur_count"])
	assert.Equal(t, 0.0, fv["total_blur_duration"])
	assert.Equal(t, 0.0, fv["avg_blur_duration"])
}

func TestWindowStateRapidSwitches(t *testing.T) {
	// Merged switch timeline: 0s, 3s, 10s, 11s. Only the 10s→11s gap is
	// within the 2s threshold.
	w := testWindow(
		stateEvent(0, "blurred"),
		stateEvent(3*time.Second, "focused"),
		stateEvent(10*time.Second, "blurred"),
		tabEvent(11*time.Second),
	)
	fv := NewWindowStateExtractor().Extract(w)

	assert.Equal(t, 1.0, fv["rapid_switch_count"])
	assert.Equal(t, 1.0, fv["tab_switch_count"])
}

func TestWindowStateSuspiciousResizes(t *testing.T) {
	w := testWindow(
		resizeEvent(0, 0.5),            // suspicious
		resizeEvent(1*time.Second, 0.9),  // fine
		resizeEvent(2*time.Second, "abc"), // malformed: not suspicious
		resizeEvent(3*time.Second, nil),   // missing: not suspicious
		resizeEvent(4*time.Second, "0.3"), // string number: suspicious
	)
	fv := NewWindowStateExtractor().Extract(w)

	assert.Equal(t, 5.0, fv["window_resize_count"])
	assert.Equal(t, 2.0, fv["suspicious_resize_count"])
}

func TestWindowStateFrequenciesPerMinute(t *testing.T) {
	// 30s of observed span with one tab switch and one blur.
	w := testWindow(
		stateEvent(0, "blurred"),
		tabEvent(15*time.Second),
		resizeEvent(30*time.Second, 1.0),
	)
	fv := NewWindowStateExtractor().Extract(w)

	assert.Equal(t, 2.0, fv["tab_switch_frequency"])
	assert.Equal(t, 2.0, fv["window_switch_frequency"])
	assert.Equal(t, 2.0, fv["resize_frequency"])
}

func TestWindowStateZeroSpanDefaults(t *testing.T) {
	w := testWindow(stateEvent(0, "blurred"))
	fv := NewWindowStateExtractor().Extract(w)

	assert.Equal(t, WindowStateDefaults(), fv)
}
