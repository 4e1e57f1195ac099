package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/proctorai/classifier/internal/core"
)

func keyEvent(offset time.Duration, key string) core.Event {
	return core.Event{
		ExamID:    "exam-1",
		Type:      core.EventKeyPress,
		Data:      map[string]interface{}{"key_type": key},
		CreatedAt: t0.Add(offset),
	}
}

func clipboardEvent(offset time.Duration, action, selection string) core.Event {
	return core.Event{
		ExamID:    "exam-1",
		Type:      core.EventClipboard,
		Data:      map[string]interface{}{"action": action, "selection": selection},
		CreatedAt: t0.Add(offset),
	}
}

func TestKeystrokeEmptyWindowDefaults(t *testing.T) {
	fv := NewKeystrokeExtractor().Extract(testWindow())

	assert.Equal(t, KeystrokeDefaults(), fv)
	assertComplete(t, fv, KeystrokeDefaults())
}

func TestKeystrokeBackspaceBursts(t *testing.T) {
	// 6 key presses, 3 of them Backspace each within 1s of the preceding
	// key event.
	w := testWindow(
		keyEvent(0, "a"),
		keyEvent(500*time.Millisecond, "Backspace"),
		keyEvent(1*time.Second, "b"),
		keyEvent(1400*time.Millisecond, "Backspace"),
		keyEvent(2*time.Second, "Backspace"),
		keyEvent(4*time.Second, "c"),
	)
	fv := NewKeystrokeExtractor().Extract(w)

	assert.Equal(t, 6.0, fv["key_press_count"])
	assert.Equal(t, 3.0, fv["backspace_count"])
	assert.Equal(t, 0.5, fv["backspace_ratio"])
	assert.Equal(t, 3.0, fv["backspace_burst_count"])
	assert.Equal(t, 0.0, fv["rapid_key_count"])
	assert.Equal(t, 1.5, fv["key_press_rate"]) // 6 presses over 4s
}

func TestKeystrokeShortcutAndPerKeyCounts(t *testing.T) {
	w := testWindow(
		keyEvent(0, "Control"),
		keyEvent(1*time.Second, "Alt"),
		keyEvent(2*time.Second, "Tab"),
		keyEvent(3*time.Second, "a"),
	)
	fv := NewKeystrokeExtractor().Extract(w)

	assert.Equal(t, 1.0, fv["control_key_count"])
	assert.Equal(t, 1.0, fv["alt_key_count"])
	assert.Equal(t, 1.0, fv["tab_key_count"])
	assert.Equal(t, 0.0, fv["meta_key_count"])
	assert.Equal(t, 0.0, fv["shift_key_count"])
	assert.Equal(t, 3.0, fv["shortcut_key_count"])
	assert.Equal(t, 0.75, fv["shortcut_key_ratio"])
}

func TestKeystrokeRapidTyping(t *testing.T) {
	w := testWindow(
		keyEvent(0, "a"),
		keyEvent(50*time.Millisecond, "b"),
		keyEvent(100*time.Millisecond, "c"),
		keyEvent(2*time.Second, "d"),
	)
	fv := NewKeystrokeExtractor().Extract(w)

	assert.Equal(t, 2.0, fv["rapid_key_count"])
	assert.Equal(t, 0.5, fv["rapid_key_ratio"])
}

func TestKeystrokeClipboardGroup(t *testing.T) {
	// One minute of activity with three clipboard operations.
	w := testWindow(
		clipboardEvent(0, "copy", "hello"),
		clipboardEvent(20*time.Second, "paste", "hello world"),
		clipboardEvent(40*time.Second, "cut", "abc"),
		keyEvent(60*time.Second, "a"),
	)
	fv := NewKeystrokeExtractor().Extract(w)

	assert.Equal(t, 3.0, fv["clipboard_operation_count"])
	assert.Equal(t, 3.0, fv["clipboard_operation_rate"]) // 3*60/60s
	assert.Equal(t, 1.0, fv["copy_count"])
	assert.Equal(t, 1.0, fv["cut_count"])
	assert.Equal(t, 1.0, fv["paste_count"])
	// (5 + 11 + 3) / 3
	assert.Equal(t, 6.3333, fv["avg_clipboard_length"])
}

func TestKeystrokeGroupsDefaultIndependently(t *testing.T) {
	// Key events but no clipboard events: the clipboard group is all zeros
	// while key features are computed.
	w := testWindow(
		keyEvent(0, "a"),
		keyEvent(2*time.Second, "b"),
	)
	fv := NewKeystrokeExtractor().Extract(w)

	assert.Equal(t, 2.0, fv["key_press_count"])
	assert.Equal(t, 0.0, fv["clipboard_operation_count"])
	assert.Equal(t, 0.0, fv["avg_clipboard_length"])
	assertComplete(t, fv, KeystrokeDefaults())
}

func TestKeystrokeZeroSpanDefaults(t *testing.T) {
	// A single event gives a zero observed span: rates are undefined, so the
	// whole channel falls back to defaults.
	w := testWindow(keyEvent(0, "a"))
	fv := NewKeystrokeExtractor().Extract(w)

	assert.Equal(t, KeystrokeDefaults(), fv)
}
