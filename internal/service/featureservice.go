package service

import (
	"context"
	"fmt"
	"time"

	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/monitoring"
	"github.com/proctorai/classifier/internal/window"
)

// FeaturesRequest describes a features-only extraction over the live window.
type FeaturesRequest struct {
	ExamID          string `json:"exam_id"`
	IntervalSeconds int    `json:"interval_seconds"`
	// FallbackLimit is the N most recent events substituted when the live
	// window is empty.
	FallbackLimit int `json:"fallback_limit"`
}

// IntervalFeatures carries the per-channel vectors for one interval.
type IntervalFeatures struct {
	IntervalStart    time.Time          `json:"interval_start"`
	IntervalEnd      time.Time          `json:"interval_end"`
	MouseFeatures    core.FeatureVector `json:"mouse_features"`
	KeyboardFeatures core.FeatureVector `json:"keyboard_features"`
	WindowFeatures   core.FeatureVector `json:"window_features"`
	EventCount       int                `json:"event_count"`
}

// FeaturesResult is the outcome of a features-only request.
type FeaturesResult struct {
	ExamID             string             `json:"exam_id"`
	IntervalsProcessed int                `json:"intervals_processed"`
	Features           []IntervalFeatures `json:"features"`
	UsedFallback       bool               `json:"used_fallback"`
}

// FeatureService computes raw feature vectors over the live window with the
// recent-events fallback policy.
type FeatureService struct {
	store      EventStore
	extractors Extractors
	metrics    *monitoring.Metrics

	Now func() time.Time
}

// NewFeatureService wires the features path. metrics may be nil.
func NewFeatureService(store EventStore, extractors Extractors, metrics *monitoring.Metrics) *FeatureService {
	return &FeatureService{store: store, extractors: extractors, metrics: metrics, Now: time.Now}
}

// Extract computes one interval of features over [now-interval, now]. When
// the live window holds no events the most recent FallbackLimit events stand
// in and the effective range is recomputed from their actual timestamps; the
// result is flagged fallback-derived. No events in either query is ErrNoData.
func (s *FeatureService) Extract(ctx context.Context, req FeaturesRequest) (*FeaturesResult, error) {
	now := s.Now().UTC()
	start := now.Add(-time.Duration(req.IntervalSeconds) * time.Second)

	events, err := s.store.FetchEventsInRange(ctx, req.ExamID, start, now)
	if err != nil {
		return nil, fmt.Errorf("event fetch failed: %w", err)
	}

	usedFallback := false
	if len(events) == 0 {
		usedFallback = true
		events, err = s.store.FetchRecentEvents(ctx, req.ExamID, req.FallbackLimit)
		if err != nil {
			return nil, fmt.Errorf("fallback fetch failed: %w", err)
		}
		if len(events) == 0 {
			return nil, ErrNoData
		}
		if s.metrics != nil {
			s.metrics.FallbackUses.WithLabelValues(req.ExamID).Inc()
		}
	}

	sorted := window.SortEvents(events)
	if usedFallback {
		// Fallback data dictates its own effective range.
		start = sorted[0].CreatedAt
		now = sorted[len(sorted)-1].CreatedAt
	}

	w := core.Window{ExamID: req.ExamID, Start: start, End: now, Events: sorted}
	interval := IntervalFeatures{
		IntervalStart:    start,
		IntervalEnd:      now,
		MouseFeatures:    s.extractors.Pointer.Extract(w),
		KeyboardFeatures: s.extractors.Keystroke.Extract(w),
		WindowFeatures:   s.extractors.WindowState.Extract(w),
		EventCount:       len(sorted),
	}

	return &FeaturesResult{
		ExamID:             req.ExamID,
		IntervalsProcessed: 1,
		Features:           []IntervalFeatures{interval},
		UsedFallback:       usedFallback,
	}, nil
}
