// Package scoring turns a window's merged feature vector into per-channel
// risk scores, a weighted total and a discrete risk level.
//
// Every function here is pure and deterministic: same vector in, same scores
// out, no hidden state. The weights and normalization ranges are the fixed
// product heuristics; they carry no claim of statistical calibration.
package scoring

import (
	"math"
	"time"

	"github.com/proctorai/classifier/internal/core"
)

// Normalize clamps value into [0,1] against the [min,max] range: below min
// maps to 0, above max to 1, and everything between interpolates linearly.
func Normalize(value, min, max float64) float64 {
	if value < min {
		return 0
	}
	if value > max {
		return 1
	}
	return core.Round4((value - min) / (max - min))
}

// MouseScore computes the pointer-channel risk score in [0,100].
//
// Edge time dominates: any combined edge time above 1 saturates the edge
// term. The inputs are per-window binary flags, so the "than 1 second"
// threshold only trips when both flags are set; the literal formula is kept
// deliberately (see DESIGN.md).
func MouseScore(fv core.FeatureVector) float64 {
	edgeTime := fv.Get("top_edge_time") + fv.Get("bottom_edge_time")
	edgeScore := core.Round4(edgeTime)
	if edgeTime > 1.0 {
		edgeScore = 1.0
	}

	movementVariance := Normalize(fv.Get("std_norm_x")+fv.Get("std_norm_y"), 0, 1.0)
	idleTime := Normalize(fv.Get("idle_percentage"), 0, 100)

	score := core.Round4(70*edgeScore + 20*movementVariance + 10*idleTime)
	return math.Min(100, score)
}

// KeyboardScore computes the keystroke-channel risk score in [0,100],
// weighted toward shortcut/system keys and clipboard activity.
func KeyboardScore(fv core.FeatureVector) float64 {
	suspiciousKeys := fv.Get("alt_key_count") +
		fv.Get("tab_key_count") +
		fv.Get("control_key_count") +
		fv.Get("meta_key_count") +
		fv.Get("shift_key_count")

	shortcutScore := Normalize(suspiciousKeys, 0, 5)
	clipboardRate := Normalize(fv.Get("clipboard_operation_rate"), 0, 5)
	rapidTyping := Normalize(fv.Get("rapid_key_ratio"), 0, 0.7)
	backspaceUsage := Normalize(fv.Get("backspace_ratio"), 0, 0.3)

	score := core.Round4(40*shortcutScore + 35*clipboardRate + 15*rapidTyping + 10*backspaceUsage)
	return math.Min(100, score)
}

// WindowScore computes the window-focus risk score in [0,100], weighted
// toward blur duration and rapid switching.
func WindowScore(fv core.FeatureVector) float64 {
	blurDuration := Normalize(fv.Get("total_blur_duration"), 0, 10)
	rapidSwitches := Normalize(fv.Get("rapid_switch_count"), 0, 3)
	tabSwitches := Normalize(fv.Get("tab_switch_count"), 0, 5)
	suspiciousResizes := Normalize(fv.Get("suspicious_resize_count"), 0, 2)

	score := core.Round4(35*blurDuration + 35*rapidSwitches + 20*tabSwitches + 10*suspiciousResizes)
	return math.Min(100, score)
}

// TotalScore combines the three category scores into the weighted total: the
// window channel carries half the weight, mouse and keyboard a quarter each.
func TotalScore(mouse, keyboard, window float64) float64 {
	return core.Round4(0.25*mouse + 0.25*keyboard + 0.50*window)
}

// Level maps a total score onto the discrete risk classification.
func Level(total float64) core.RiskLevel {
	total = core.Round4(total)
	switch {
	case total <= 25:
		return core.RiskLow
	case total <= 60:
		return core.RiskMedium
	default:
		return core.RiskHigh
	}
}

// Score derives the full ScoreRecord for one window's merged feature vector.
// Missing keys read as the channel zero-default; degenerate input never
// panics.
func Score(fv core.FeatureVector, start, end time.Time) core.ScoreRecord {
	mouse := MouseScore(fv)
	keyboard := KeyboardScore(fv)
	window := WindowScore(fv)
	total := TotalScore(mouse, keyboard, window)

	return core.ScoreRecord{
		WindowStart:    start,
		WindowEnd:      end,
		MouseScore:     core.Round4(mouse),
		KeyboardScore:  core.Round4(keyboard),
		WindowScore:    core.Round4(window),
		TotalRiskScore: total,
		RiskLevel:      Level(total),
	}
}
