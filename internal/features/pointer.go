package features

import (
	"math"

	"github.com/proctorai/classifier/internal/core"
)

// pointerDefaults is the canonical zero-event vector for the pointer channel:
// center of screen and fully idle, the neutral non-suspicious state.
var pointerDefaults = core.FeatureVector{
	"avg_norm_x":       0.5,
	"avg_norm_y":       0.5,
	"std_norm_x":       0,
	"std_norm_y":       0,
	"top_edge_time":    0,
	"bottom_edge_time": 0,
	"idle_percentage":  1.0,
}

// PointerDefaults returns the pointer channel's default vector.
func PointerDefaults() core.FeatureVector { return clone(pointerDefaults) }

// PointerExtractor derives pointer-movement features from mouse_move events.
type PointerExtractor struct {
	// EdgeThreshold is the fraction of viewport height treated as the
	// top/bottom margin.
	EdgeThreshold float64
	// IdleThreshold is the inter-event gap, in seconds, beyond which the
	// pointer is considered idle.
	IdleThreshold float64
}

// NewPointerExtractor builds an extractor with the production thresholds.
func NewPointerExtractor() *PointerExtractor {
	return &PointerExtractor{EdgeThreshold: 0.05, IdleThreshold: 2.0}
}

// Extract computes the pointer feature vector for one window.
//
// Coordinates are normalized by each event's own recorded viewport size, not
// by the window's min/max, so values stay in [0,1] under normal conditions.
// The edge-time features are per-window binary flags on the mean normalized y
// position; the names suggest a time fraction but the product formula below
// is the deployed one.
func (x *PointerExtractor) Extract(w core.Window) core.FeatureVector {
	events := w.FilterType(core.EventMouseMove)
	if len(events) == 0 {
		return PointerDefaults()
	}

	normX := make([]float64, 0, len(events))
	normY := make([]float64, 0, len(events))
	for _, e := range events {
		nx, ny := 0.5, 0.5 // neutral when the viewport size is malformed
		px, okX := payloadFloat(e.Data, "x")
		py, okY := payloadFloat(e.Data, "y")
		if okX && e.WindowWidth > 0 {
			nx = px / e.WindowWidth
		}
		if okY && e.WindowHeight > 0 {
			ny = py / e.WindowHeight
		}
		normX = append(normX, nx)
		normY = append(normY, ny)
	}

	avgY := mean(normY)
	fv := core.FeatureVector{
		"avg_norm_x": core.Round4(mean(normX)),
		"avg_norm_y": core.Round4(avgY),
		"std_norm_x": core.Round4(stddev(normX)),
		"std_norm_y": core.Round4(stddev(normY)),
	}

	fv["top_edge_time"] = 0
	if avgY <= x.EdgeThreshold {
		fv["top_edge_time"] = 1.0
	}
	fv["bottom_edge_time"] = 0
	if avgY >= 1-x.EdgeThreshold {
		fv["bottom_edge_time"] = 1.0
	}

	total := spanSeconds(events)
	if total > 0 {
		idle := 0.0
		for i := 1; i < len(events); i++ {
			gap := events[i].CreatedAt.Sub(events[i-1].CreatedAt).Seconds()
			if gap > x.IdleThreshold {
				idle += gap
			}
		}
		fv["idle_percentage"] = core.Round4(idle / total)
	} else {
		fv["idle_percentage"] = 1.0
	}

	return fv
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stddev is the population standard deviation; zero under two samples.
func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	sum := 0.0
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)))
}
