// Package features derives fixed-shape numeric feature vectors from the
// events of one window, one extractor per interaction channel.
//
// Every extractor is a stateless strategy configured at construction and
// sharing the single-method Extractor capability. The central invariant: the
// complete key set of a channel is present on every output, with documented
// defaults when the window carries no matching events, so downstream scoring
// never sees a missing, NaN, or infinite value.
package features

import (
	"strconv"

	"github.com/proctorai/classifier/internal/core"
)

// Extractor computes one channel's feature vector for a window.
type Extractor interface {
	Extract(w core.Window) core.FeatureVector
}

// spanSeconds is the observed duration of an event slice: the gap between its
// first and last timestamp. Zero for fewer than two events.
func spanSeconds(events []core.Event) float64 {
	if len(events) < 2 {
		return 0
	}
	return events[len(events)-1].CreatedAt.Sub(events[0].CreatedAt).Seconds()
}

// payloadString reads a string field from an event payload. Malformed or
// missing fields yield the empty string, the conservative default.
func payloadString(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	s, _ := data[key].(string)
	return s
}

// payloadFloat reads a numeric field from an event payload. Supabase returns
// JSON numbers as float64 but collectors have been seen submitting strings,
// so both shapes are accepted. ok is false for anything unparsable.
func payloadFloat(data map[string]interface{}, key string) (float64, bool) {
	if data == nil {
		return 0, false
	}
	switch v := data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// clone returns a fresh copy of a default vector so callers can never mutate
// the canonical definition.
func clone(defaults core.FeatureVector) core.FeatureVector {
	out := make(core.FeatureVector, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	return out
}
