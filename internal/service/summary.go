package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/proctorai/classifier/internal/cache"
	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/database"
)

// ScoredRowSource supplies previously scored rows for aggregation.
type ScoredRowSource interface {
	FetchScoredRows(ctx context.Context, examID string) ([]database.ScoredRow, error)
}

// LevelSummary aggregates the scored intervals of one risk level.
type LevelSummary struct {
	RiskLevel        string  `json:"risk_level"`
	IntervalCount    int     `json:"interval_count"`
	AvgRiskScore     float64 `json:"avg_risk_score"`
	MaxRiskScore     float64 `json:"max_risk_score"`
	AvgMouseScore    float64 `json:"avg_mouse_score"`
	AvgKeyboardScore float64 `json:"avg_keyboard_score"`
	AvgWindowScore   float64 `json:"avg_window_score"`
}

// RiskSummary is the per-exam rollup of previously written scores.
type RiskSummary struct {
	ExamID      string         `json:"exam_id"`
	RiskSummary []LevelSummary `json:"risk_summary"`
}

// SummaryService aggregates written-back scores per exam, fronted by the
// optional Redis cache.
type SummaryService struct {
	source ScoredRowSource
	cache  *cache.ScoreCache
}

// NewSummaryService wires the summary path. cache may be nil.
func NewSummaryService(source ScoredRowSource, c *cache.ScoreCache) *SummaryService {
	return &SummaryService{source: source, cache: c}
}

// Summary returns the risk rollup for an exam, preferring the cache when one
// is configured. No scored rows is ErrNoData.
func (s *SummaryService) Summary(ctx context.Context, examID string) (*RiskSummary, error) {
	key := "risk_summary:" + examID
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached RiskSummary
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	rows, err := s.source.FetchScoredRows(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("scored rows fetch failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	summary := &RiskSummary{ExamID: examID, RiskSummary: Aggregate(rows)}
	if raw, err := json.Marshal(summary); err == nil {
		s.cache.Set(ctx, key, raw, cache.SummaryTTL)
	}
	return summary, nil
}

// Aggregate groups scored rows by risk level in low/medium/high order.
func Aggregate(rows []database.ScoredRow) []LevelSummary {
	byLevel := make(map[string][]database.ScoredRow)
	for _, r := range rows {
		byLevel[r.RiskLevel] = append(byLevel[r.RiskLevel], r)
	}

	var out []LevelSummary
	for _, level := range []core.RiskLevel{core.RiskLow, core.RiskMedium, core.RiskHigh} {
		group := byLevel[string(level)]
		if len(group) == 0 {
			continue
		}

		var sumRisk, maxRisk, sumMouse, sumKeyboard, sumWindow float64
		for _, r := range group {
			sumRisk += r.RiskScore
			if r.RiskScore > maxRisk {
				maxRisk = r.RiskScore
			}
			sumMouse += r.MouseScore
			sumKeyboard += r.KeyboardScore
			sumWindow += r.WindowScore
		}

		n := float64(len(group))
		out = append(out, LevelSummary{
			RiskLevel:        string(level),
			IntervalCount:    len(group),
			AvgRiskScore:     core.Round4(sumRisk / n),
			MaxRiskScore:     core.Round4(maxRisk),
			AvgMouseScore:    core.Round4(sumMouse / n),
			AvgKeyboardScore: core.Round4(sumKeyboard / n),
			AvgWindowScore:   core.Round4(sumWindow / n),
		})
	}
	return out
}
