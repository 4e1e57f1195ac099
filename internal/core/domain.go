package core

import (
	"math"
	"time"
)

// EventType identifies the interaction channel an event was captured on.
type EventType string

const (
	EventMouseMove         EventType = "mouse_move"
	EventKeyPress          EventType = "key_press"
	EventClipboard         EventType = "clipboard"
	EventWindowStateChange EventType = "window_state_change"
	EventTabSwitch         EventType = "tab_switch"
	EventWindowResize      EventType = "window_resize"
)

// Event is a single user-interaction record captured during an exam session.
// Events are produced upstream and immutable here; the engine only reads them.
// Submission order is not guaranteed, so consumers sort by CreatedAt before
// computing time diffs.
type Event struct {
	ExamID       string                 `json:"exam_id"`
	Type         EventType              `json:"type"`
	Data         map[string]interface{} `json:"data"`
	WindowWidth  float64                `json:"window_width,omitempty"`
	WindowHeight float64                `json:"window_height,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Window is a contiguous time slice of one exam's event stream.
// Events are sorted by CreatedAt and satisfy Start <= ts < End.
type Window struct {
	ExamID string
	Start  time.Time
	End    time.Time
	Events []Event
}

// Span returns the time covered by the window's actual events, in seconds.
// This is the duration basis for all rate features: it is zero for windows
// with fewer than two events.
func (w Window) Span() float64 {
	if len(w.Events) < 2 {
		return 0
	}
	return w.Events[len(w.Events)-1].CreatedAt.Sub(w.Events[0].CreatedAt).Seconds()
}

// FilterType returns the window's events of a single channel, preserving order.
func (w Window) FilterType(t EventType) []Event {
	var out []Event
	for _, e := range w.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// FeatureVector maps feature names to finite values rounded to 4 decimals.
// Every extractor emits its complete key set on every window, including empty
// ones; a feature is never absent, NaN, or infinite.
type FeatureVector map[string]float64

// Get reads a feature, treating a missing key as the channel's zero default.
func (fv FeatureVector) Get(name string) float64 {
	return fv[name]
}

// Merge overlays other's keys onto a copy of fv.
func (fv FeatureVector) Merge(other FeatureVector) FeatureVector {
	out := make(FeatureVector, len(fv)+len(other))
	for k, v := range fv {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// RiskLevel is the discrete classification derived from the total score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ScoreRecord is the scored output for one window. It is a pure function of
// the window's merged FeatureVector; all scores lie in [0,100].
type ScoreRecord struct {
	WindowStart    time.Time `json:"interval_start"`
	WindowEnd      time.Time `json:"interval_end"`
	MouseScore     float64   `json:"mouse_score"`
	KeyboardScore  float64   `json:"keyboard_score"`
	WindowScore    float64   `json:"window_score"`
	TotalRiskScore float64   `json:"risk_score"`
	RiskLevel      RiskLevel `json:"risk_level"`
}

// Round4 rounds to 4 decimal places, the precision every feature and score
// is reported at.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
