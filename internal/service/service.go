// Package service orchestrates the extraction/scoring pipeline over the
// rolling live window and the full-history batch pass.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/proctorai/classifier/internal/config"
	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/database"
	"github.com/proctorai/classifier/internal/features"
	"github.com/proctorai/classifier/internal/scoring"
)

// ErrNoData means the event source returned nothing for both the live window
// and the fallback query; fatal for the request.
var ErrNoData = errors.New("no events found for exam")

// ErrAllIntervalsFailed means every sub-interval of a scoring request failed.
var ErrAllIntervalsFailed = errors.New("failed to process any intervals")

// EventStore is the event-source contract. The Supabase client satisfies it;
// tests substitute fakes.
type EventStore interface {
	FetchEventsInRange(ctx context.Context, examID string, start, end time.Time) ([]core.Event, error)
	FetchRecentEvents(ctx context.Context, examID string, limit int) ([]core.Event, error)
	FetchAllEvents(ctx context.Context, examID string) ([]core.Event, error)
}

// ScoreSink is the score write-back contract. At-least-once delivery is the
// sink's concern, not the engine's.
type ScoreSink interface {
	WriteIntervalScores(ctx context.Context, examID string, rec core.ScoreRecord) error
}

// ScorePublisher receives every successfully computed score record, e.g. the
// live-stream event bus. May be nil.
type ScorePublisher interface {
	Publish(examID string, rec core.ScoreRecord)
}

// Extractors bundles the three channel strategies. The zero value is not
// usable; construct with NewExtractors.
type Extractors struct {
	Pointer     features.Extractor
	Keystroke   features.Extractor
	WindowState features.Extractor
}

// NewExtractors returns the production extractor set.
func NewExtractors() Extractors {
	return Extractors{
		Pointer:     features.NewPointerExtractor(),
		Keystroke:   features.NewKeystrokeExtractor(),
		WindowState: features.NewWindowStateExtractor(),
	}
}

// NewExtractorsFromConfig builds the extractor set with configured
// thresholds.
func NewExtractorsFromConfig(cfg config.ExtractorsConfig) Extractors {
	shortcuts := make(map[string]bool, len(cfg.ShortcutKeys))
	for _, k := range cfg.ShortcutKeys {
		shortcuts[k] = true
	}
	return Extractors{
		Pointer: &features.PointerExtractor{
			EdgeThreshold: cfg.EdgeThreshold,
			IdleThreshold: cfg.IdleThresholdSeconds,
		},
		Keystroke: &features.KeystrokeExtractor{
			ShortcutKeys:            shortcuts,
			RapidKeyThreshold:       cfg.RapidKeySeconds,
			BackspaceBurstThreshold: cfg.BackspaceBurstSeconds,
		},
		WindowState: &features.WindowStateExtractor{
			RapidSwitchThreshold:      cfg.RapidSwitchSeconds,
			SuspiciousResizeThreshold: cfg.SuspiciousResizeThreshold,
		},
	}
}

// ExtractAll runs the three extractors over one window and merges the result
// into the full feature vector.
func (x Extractors) ExtractAll(w core.Window) core.FeatureVector {
	fv := x.Pointer.Extract(w)
	fv = fv.Merge(x.Keystroke.Extract(w))
	fv = fv.Merge(x.WindowState.Extract(w))
	return fv
}

// ScoreWindow extracts and scores a single window.
func (x Extractors) ScoreWindow(w core.Window) (core.FeatureVector, core.ScoreRecord) {
	fv := x.ExtractAll(w)
	return fv, scoring.Score(fv, w.Start, w.End)
}

// subIntervals cuts [start, end) into consecutive intervals of the given
// length, the last one clipped to end.
func subIntervals(start, end time.Time, interval time.Duration) [][2]time.Time {
	var out [][2]time.Time
	for t := start; t.Before(end); t = t.Add(interval) {
		ivEnd := t.Add(interval)
		if ivEnd.After(end) {
			ivEnd = end
		}
		out = append(out, [2]time.Time{t, ivEnd})
	}
	return out
}

// DatasetRow is one window's merged features and scores in the batch pass.
// Rows double as the generic dataset an offline anomaly detector consumes
// through its fit/predict contract.
type DatasetRow struct {
	ExamID      string
	WindowStart time.Time
	Features    core.FeatureVector
	Record      core.ScoreRecord
}

var _ EventStore = (*database.SupabaseClient)(nil)
var _ ScoreSink = (*database.SupabaseClient)(nil)
