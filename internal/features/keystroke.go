package features

import (
	"github.com/proctorai/classifier/internal/core"
)

// keyDefaults and clipboardDefaults are the canonical zero vectors for the
// two keystroke sub-channels. Each group defaults independently: a window can
// carry key events with no clipboard activity or the reverse.
var keyDefaults = core.FeatureVector{
	"key_press_rate":        0,
	"key_press_count":       0,
	"shortcut_key_ratio":    0,
	"shortcut_key_count":    0,
	"alt_key_count":         0,
	"tab_key_count":         0,
	"meta_key_count":        0,
	"control_key_count":     0,
	"shift_key_count":       0,
	"backspace_ratio":       0,
	"backspace_count":       0,
	"backspace_burst_count": 0,
	"rapid_key_ratio":       0,
	"rapid_key_count":       0,
}

var clipboardDefaults = core.FeatureVector{
	"clipboard_operation_rate":  0,
	"clipboard_operation_count": 0,
	"copy_count":                0,
	"cut_count":                 0,
	"paste_count":               0,
	"avg_clipboard_length":      0,
}

// KeystrokeDefaults returns the full keystroke-channel default vector.
func KeystrokeDefaults() core.FeatureVector {
	return clone(keyDefaults).Merge(clipboardDefaults)
}

// KeystrokeExtractor derives features from key_press and clipboard events.
type KeystrokeExtractor struct {
	// ShortcutKeys are the key labels counted as shortcut/system keys.
	ShortcutKeys map[string]bool
	// RapidKeyThreshold is the max gap, in seconds, between consecutive key
	// presses to count as rapid typing.
	RapidKeyThreshold float64
	// BackspaceBurstThreshold is the max gap, in seconds, from the previous
	// key press for a backspace/delete to count toward a burst.
	BackspaceBurstThreshold float64
}

// NewKeystrokeExtractor builds an extractor with the production thresholds.
func NewKeystrokeExtractor() *KeystrokeExtractor {
	return &KeystrokeExtractor{
		ShortcutKeys: map[string]bool{
			"Control": true, "Alt": true, "Tab": true, "Meta": true, "Shift": true,
		},
		RapidKeyThreshold:       0.1,
		BackspaceBurstThreshold: 1.0,
	}
}

func isBackspace(key string) bool {
	return key == "Backspace" || key == "Delete"
}

// Extract computes the keystroke feature vector for one window.
//
// Rates use the window's observed event span (all channels) as the time
// basis; a zero span short-circuits to the full default vector.
func (x *KeystrokeExtractor) Extract(w core.Window) core.FeatureVector {
	total := spanSeconds(w.Events)
	if total == 0 {
		return KeystrokeDefaults()
	}

	fv := make(core.FeatureVector, len(keyDefaults)+len(clipboardDefaults))

	keyEvents := w.FilterType(core.EventKeyPress)
	if len(keyEvents) > 0 {
		n := float64(len(keyEvents))
		fv["key_press_count"] = core.Round4(n)
		fv["key_press_rate"] = core.Round4(n / total)

		perKey := map[string]string{
			"Alt": "alt_key_count", "Tab": "tab_key_count", "Meta": "meta_key_count",
			"Control": "control_key_count", "Shift": "shift_key_count",
		}
		for _, name := range perKey {
			fv[name] = 0
		}

		var shortcutCount, backspaceCount, burstCount, rapidCount float64
		for i, e := range keyEvents {
			key := payloadString(e.Data, "key_type")
			if name, ok := perKey[key]; ok {
				fv[name]++
			}
			if x.ShortcutKeys[key] {
				shortcutCount++
			}
			if isBackspace(key) {
				backspaceCount++
			}
			if i > 0 {
				gap := e.CreatedAt.Sub(keyEvents[i-1].CreatedAt).Seconds()
				if isBackspace(key) && gap <= x.BackspaceBurstThreshold {
					burstCount++
				}
				if gap <= x.RapidKeyThreshold {
					rapidCount++
				}
			}
		}

		fv["shortcut_key_count"] = core.Round4(shortcutCount)
		fv["shortcut_key_ratio"] = core.Round4(shortcutCount / n)
		fv["backspace_count"] = core.Round4(backspaceCount)
		fv["backspace_ratio"] = core.Round4(backspaceCount / n)
		fv["backspace_burst_count"] = core.Round4(burstCount)
		fv["rapid_key_count"] = core.Round4(rapidCount)
		fv["rapid_key_ratio"] = core.Round4(rapidCount / n)
	} else {
		for k, v := range keyDefaults {
			fv[k] = v
		}
	}

	clipEvents := w.FilterType(core.EventClipboard)
	if len(clipEvents) > 0 {
		n := float64(len(clipEvents))
		fv["clipboard_operation_count"] = core.Round4(n)
		fv["clipboard_operation_rate"] = core.Round4(n * 60 / total)

		var copies, cuts, pastes, lengthSum float64
		for _, e := range clipEvents {
			switch payloadString(e.Data, "action") {
			case "copy":
				copies++
			case "cut":
				cuts++
			case "paste":
				pastes++
			}
			lengthSum += float64(len([]rune(payloadString(e.Data, "selection"))))
		}
		fv["copy_count"] = copies
		fv["cut_count"] = cuts
		fv["paste_count"] = pastes
		fv["avg_clipboard_length"] = core.Round4(lengthSum / n)
	} else {
		for k, v := range clipboardDefaults {
			fv[k] = v
		}
	}

	return fv
}
