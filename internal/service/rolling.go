package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/monitoring"
	"github.com/proctorai/classifier/internal/window"
)

// ScoringRequest describes one rolling risk-score computation.
type ScoringRequest struct {
	ExamID            string `json:"exam_id"`
	IntervalSeconds   int    `json:"interval_seconds"`
	WindowSizeSeconds int    `json:"window_size_seconds"`
}

// IntervalFailure records one sub-interval that could not be processed.
type IntervalFailure struct {
	Start time.Time `json:"interval_start"`
	End   time.Time `json:"interval_end"`
	Err   string    `json:"error"`
}

// ScoringResult is the outcome of a rolling scoring request.
type ScoringResult struct {
	ExamID             string             `json:"exam_id"`
	IntervalsProcessed int                `json:"intervals_processed"`
	RiskScores         []core.ScoreRecord `json:"risk_scores"`
	Failures           []IntervalFailure  `json:"-"`
}

// ScoringService is the rolling interval controller: it steps a lookback
// window through consecutive sub-intervals, scoring each and writing scores
// back, tolerating individual interval failures.
type ScoringService struct {
	store      EventStore
	sink       ScoreSink
	extractors Extractors
	publisher  ScorePublisher
	metrics    *monitoring.Metrics

	// Now is swappable for tests.
	Now func() time.Time
}

// NewScoringService wires the controller. publisher and metrics may be nil.
func NewScoringService(store EventStore, sink ScoreSink, extractors Extractors, publisher ScorePublisher, metrics *monitoring.Metrics) *ScoringService {
	return &ScoringService{
		store:      store,
		sink:       sink,
		extractors: extractors,
		publisher:  publisher,
		metrics:    metrics,
		Now:        time.Now,
	}
}

// Calculate scores the lookback window [now-window_size, now] in sub-interval
// steps. The per-interval work is a fold accumulating successes and failures:
// one bad interval is recorded and skipped, never aborts the request. Zero
// events in the lookback is ErrNoData; zero successful intervals is
// ErrAllIntervalsFailed.
func (s *ScoringService) Calculate(ctx context.Context, req ScoringRequest) (*ScoringResult, error) {
	now := s.Now().UTC()
	windowStart := now.Add(-time.Duration(req.WindowSizeSeconds) * time.Second)

	events, err := s.store.FetchEventsInRange(ctx, req.ExamID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("event fetch failed: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoData
	}
	sorted := window.SortEvents(events)

	result := &ScoringResult{ExamID: req.ExamID}
	interval := time.Duration(req.IntervalSeconds) * time.Second

	for _, iv := range subIntervals(windowStart, now, interval) {
		rec, err := s.scoreInterval(ctx, req.ExamID, sorted, iv[0], iv[1])
		if err != nil {
			log.Printf("error processing interval %s to %s: %v", iv[0].Format(time.RFC3339), iv[1].Format(time.RFC3339), err)
			result.Failures = append(result.Failures, IntervalFailure{Start: iv[0], End: iv[1], Err: err.Error()})
			if s.metrics != nil {
				s.metrics.IntervalsFailed.WithLabelValues(req.ExamID).Inc()
			}
			continue
		}
		result.RiskScores = append(result.RiskScores, rec)
	}

	result.IntervalsProcessed = len(result.RiskScores)
	if result.IntervalsProcessed == 0 {
		return nil, ErrAllIntervalsFailed
	}
	return result, nil
}

// scoreInterval extracts, scores, persists and publishes one sub-interval.
// A sink write failure fails the whole interval.
func (s *ScoringService) scoreInterval(ctx context.Context, examID string, sorted []core.Event, start, end time.Time) (core.ScoreRecord, error) {
	w := window.FixedInterval(sorted, examID, start, end)
	_, rec := s.extractors.ScoreWindow(w)

	if s.sink != nil {
		if err := s.sink.WriteIntervalScores(ctx, examID, rec); err != nil {
			return core.ScoreRecord{}, err
		}
	}

	if s.metrics != nil {
		s.metrics.IntervalsProcessed.WithLabelValues(examID).Inc()
		s.metrics.RiskScore.WithLabelValues(examID).Observe(rec.TotalRiskScore)
	}
	if s.publisher != nil {
		s.publisher.Publish(examID, rec)
	}
	return rec, nil
}
