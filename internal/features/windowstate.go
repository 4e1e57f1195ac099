package features

import (
	"sort"
	"time"

	"github.com/proctorai/classifier/internal/core"
)

// windowStateDefaults is the canonical zero vector for the window-focus
// channel.
var windowStateDefaults = core.FeatureVector{
	"blur_count":              0,
	"tab_switch_count":        0,
	"window_resize_count":     0,
	"rapid_switch_count":      0,
	"total_blur_duration":     0,
	"avg_blur_duration":       0,
	"suspicious_resize_count": 0,
	"tab_switch_frequency":    0,
	"window_switch_frequency": 0,
	"resize_frequency":        0,
}

// WindowStateDefaults returns the window-focus channel's default vector.
func WindowStateDefaults() core.FeatureVector { return clone(windowStateDefaults) }

// WindowStateExtractor derives focus/visibility features from
// window_state_change, tab_switch and window_resize events.
type WindowStateExtractor struct {
	// RapidSwitchThreshold is the max gap, in seconds, between consecutive
	// switches (state changes or tab switches) to count as rapid.
	RapidSwitchThreshold float64
	// SuspiciousResizeThreshold is the screen-coverage ratio below which a
	// resize counts as suspicious.
	SuspiciousResizeThreshold float64
}

// NewWindowStateExtractor builds an extractor with the production thresholds.
func NewWindowStateExtractor() *WindowStateExtractor {
	return &WindowStateExtractor{
		RapidSwitchThreshold:      2.0,
		SuspiciousResizeThreshold: 0.8,
	}
}

// Extract computes the window-focus feature vector for one window.
//
// Blur duration pairs each "blurred" state change with the next
// chronologically later "focused" one; unmatched blurs are excluded. A
// malformed resize ratio is treated as not suspicious rather than rejected.
func (x *WindowStateExtractor) Extract(w core.Window) core.FeatureVector {
	total := spanSeconds(w.Events)
	if total == 0 {
		return WindowStateDefaults()
	}

	fv := WindowStateDefaults()

	stateChanges := w.FilterType(core.EventWindowStateChange)
	var blurTimes, focusTimes []time.Time
	for _, e := range stateChanges {
		switch payloadString(e.Data, "state") {
		case "blurred":
			blurTimes = append(blurTimes, e.CreatedAt)
		case "focused":
			focusTimes = append(focusTimes, e.CreatedAt)
		}
	}
	fv["blur_count"] = core.Round4(float64(len(blurTimes)))

	if len(blurTimes) > 0 && len(focusTimes) > 0 {
		var durations []float64
		for _, blur := range blurTimes {
			for _, focus := range focusTimes {
				if focus.After(blur) {
					durations = append(durations, focus.Sub(blur).Seconds())
					break
				}
			}
		}
		if len(durations) > 0 {
			sum := 0.0
			for _, d := range durations {
				sum += d
			}
			fv["total_blur_duration"] = core.Round4(sum)
			fv["avg_blur_duration"] = core.Round4(sum / float64(len(durations)))
		}
	}

	tabSwitches := w.FilterType(core.EventTabSwitch)
	fv["tab_switch_count"] = core.Round4(float64(len(tabSwitches)))

	resizes := w.FilterType(core.EventWindowResize)
	fv["window_resize_count"] = core.Round4(float64(len(resizes)))
	suspicious := 0.0
	for _, e := range resizes {
		if ratio, ok := payloadFloat(e.Data, "ratio"); ok && ratio < x.SuspiciousResizeThreshold {
			suspicious++
		}
	}
	fv["suspicious_resize_count"] = core.Round4(suspicious)

	// Rapid switching looks at the merged state-change and tab-switch
	// timeline regardless of direction.
	switchTimes := make([]time.Time, 0, len(stateChanges)+len(tabSwitches))
	for _, e := range stateChanges {
		switchTimes = append(switchTimes, e.CreatedAt)
	}
	for _, e := range tabSwitches {
		switchTimes = append(switchTimes, e.CreatedAt)
	}
	sort.Slice(switchTimes, func(i, j int) bool { return switchTimes[i].Before(switchTimes[j]) })
	rapid := 0.0
	for i := 1; i < len(switchTimes); i++ {
		if switchTimes[i].Sub(switchTimes[i-1]).Seconds() <= x.RapidSwitchThreshold {
			rapid++
		}
	}
	fv["rapid_switch_count"] = core.Round4(rapid)

	minutes := total / 60
	fv["tab_switch_frequency"] = core.Round4(fv["tab_switch_count"] / minutes)
	fv["window_switch_frequency"] = core.Round4(fv["blur_count"] / minutes)
	fv["resize_frequency"] = core.Round4(fv["window_resize_count"] / minutes)

	return fv
}
