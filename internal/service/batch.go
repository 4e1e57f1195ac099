package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/window"
)

// BatchService runs the full-history tumbling pass that turns every exam's
// event stream into a feature dataset with risk scores attached.
type BatchService struct {
	store      EventStore
	extractors Extractors
}

// NewBatchService wires the batch pass.
func NewBatchService(store EventStore, extractors Extractors) *BatchService {
	return &BatchService{store: store, extractors: extractors}
}

// BuildDataset fetches the full event history (optionally one exam) and
// produces one row per non-empty tumbling window. Windows never cross exam
// boundaries; exams with an empty id are skipped.
func (s *BatchService) BuildDataset(ctx context.Context, examID string, windowSize time.Duration) ([]DatasetRow, error) {
	events, err := s.store.FetchAllEvents(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("event fetch failed: %w", err)
	}
	if len(events) == 0 {
		return nil, ErrNoData
	}

	byExam := make(map[string][]core.Event)
	for _, e := range events {
		if e.ExamID == "" {
			continue
		}
		byExam[e.ExamID] = append(byExam[e.ExamID], e)
	}

	examIDs := make([]string, 0, len(byExam))
	for id := range byExam {
		examIDs = append(examIDs, id)
	}
	sort.Strings(examIDs)

	var rows []DatasetRow
	for _, id := range examIDs {
		for _, w := range window.Tumbling(byExam[id], windowSize) {
			fv, rec := s.extractors.ScoreWindow(w)
			rows = append(rows, DatasetRow{
				ExamID:      id,
				WindowStart: w.Start,
				Features:    fv,
				Record:      rec,
			})
		}
	}
	return rows, nil
}

// scoreColumns lead the CSV so reviewers see the verdicts first.
var scoreColumns = []string{"mouse_score", "keyboard_score", "window_score", "total_risk_score", "risk_level"}

// WriteCSV renders dataset rows with score columns first, then exam metadata,
// then the feature columns in sorted order.
func WriteCSV(rows []DatasetRow, out io.Writer) error {
	if len(rows) == 0 {
		return fmt.Errorf("empty dataset")
	}

	featureNames := make([]string, 0, len(rows[0].Features))
	for name := range rows[0].Features {
		featureNames = append(featureNames, name)
	}
	sort.Strings(featureNames)

	w := csv.NewWriter(out)
	header := append([]string{}, scoreColumns...)
	header = append(header, "exam_id", "window_start")
	header = append(header, featureNames...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		rec := []string{
			formatFloat(row.Record.MouseScore),
			formatFloat(row.Record.KeyboardScore),
			formatFloat(row.Record.WindowScore),
			formatFloat(row.Record.TotalRiskScore),
			string(row.Record.RiskLevel),
			row.ExamID,
			row.WindowStart.Format(time.RFC3339),
		}
		for _, name := range featureNames {
			rec = append(rec, formatFloat(row.Features[name]))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// LevelDistribution counts dataset rows per risk level.
func LevelDistribution(rows []DatasetRow) map[core.RiskLevel]int {
	dist := make(map[core.RiskLevel]int)
	for _, row := range rows {
		dist[row.Record.RiskLevel]++
	}
	return dist
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
