// Package database is the Supabase-backed event source and score sink.
//
// All proctoring events live in the proctoring_logs table; risk scores are
// written back onto the same rows per interval. The engine itself never
// blocks on I/O; everything network-shaped lives behind this package.
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/supabase-community/postgrest-go"
	supabase "github.com/supabase-community/supabase-go"

	"github.com/proctorai/classifier/internal/core"
)

const eventsTable = "proctoring_logs"

// SupabaseClient wraps the Supabase Go client with the proctoring queries.
type SupabaseClient struct {
	client *supabase.Client
}

// NewSupabaseClient creates a client from SUPABASE_URL / SUPABASE_SERVICE_KEY.
func NewSupabaseClient() (*SupabaseClient, error) {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_KEY")

	if url == "" || key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY must be set")
	}

	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &SupabaseClient{client: client}, nil
}

// ProctoringLog mirrors a proctoring_logs row. Timestamps stay strings on the
// wire to match the Supabase format; score columns are pointers because rows
// start unscored.
type ProctoringLog struct {
	ID            int64                  `json:"id,omitempty"`
	ExamID        string                 `json:"exam_id"`
	Type          string                 `json:"type"`
	Data          map[string]interface{} `json:"data"`
	WindowWidth   float64                `json:"window_width,omitempty"`
	WindowHeight  float64                `json:"window_height,omitempty"`
	CreatedAt     string                 `json:"created_at"`
	RiskScore     *float64               `json:"risk_score,omitempty"`
	RiskLevel     *string                `json:"risk_level,omitempty"`
	MouseScore    *float64               `json:"mouse_score,omitempty"`
	KeyboardScore *float64               `json:"keyboard_score,omitempty"`
	WindowScore   *float64               `json:"window_score,omitempty"`
}

// Event converts a row into the canonical domain event, normalizing the
// timestamp to UTC.
func (p ProctoringLog) Event() (core.Event, error) {
	ts, err := time.Parse(time.RFC3339Nano, p.CreatedAt)
	if err != nil {
		return core.Event{}, fmt.Errorf("unparsable created_at %q: %w", p.CreatedAt, err)
	}
	return core.Event{
		ExamID:       p.ExamID,
		Type:         core.EventType(p.Type),
		Data:         p.Data,
		WindowWidth:  p.WindowWidth,
		WindowHeight: p.WindowHeight,
		CreatedAt:    ts.UTC(),
	}, nil
}

func rowsToEvents(rows []ProctoringLog) ([]core.Event, error) {
	events := make([]core.Event, 0, len(rows))
	for _, r := range rows {
		e, err := r.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// FetchEventsInRange retrieves an exam's events with start <= created_at <=
// end, ordered ascending.
func (sc *SupabaseClient) FetchEventsInRange(ctx context.Context, examID string, start, end time.Time) ([]core.Event, error) {
	var rows []ProctoringLog
	_, err := sc.client.From(eventsTable).
		Select("*", "", false).
		Eq("exam_id", examID).
		Gte("created_at", start.UTC().Format(time.RFC3339Nano)).
		Lte("created_at", end.UTC().Format(time.RFC3339Nano)).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return rowsToEvents(rows)
}

// FetchAllEvents retrieves every event, optionally filtered by exam. Used by
// the batch feature-dataset pass.
func (sc *SupabaseClient) FetchAllEvents(ctx context.Context, examID string) ([]core.Event, error) {
	query := sc.client.From(eventsTable).Select("*", "", false)
	if examID != "" {
		query = query.Eq("exam_id", examID)
	}

	var rows []ProctoringLog
	_, err := query.
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	return rowsToEvents(rows)
}

// FetchRecentEvents retrieves the exam's most recent limit events. Rows come
// back newest first; callers re-sort before windowing anyway.
func (sc *SupabaseClient) FetchRecentEvents(ctx context.Context, examID string, limit int) ([]core.Event, error) {
	var rows []ProctoringLog
	_, err := sc.client.From(eventsTable).
		Select("*", "", false).
		Eq("exam_id", examID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(limit, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent events: %w", err)
	}
	return rowsToEvents(rows)
}

// WriteIntervalScores persists a score record onto every exam row inside
// [start, end).
func (sc *SupabaseClient) WriteIntervalScores(ctx context.Context, examID string, rec core.ScoreRecord) error {
	update := map[string]interface{}{
		"risk_score":     rec.TotalRiskScore,
		"risk_level":     string(rec.RiskLevel),
		"mouse_score":    rec.MouseScore,
		"keyboard_score": rec.KeyboardScore,
		"window_score":   rec.WindowScore,
	}

	var result []map[string]interface{}
	_, err := sc.client.From(eventsTable).
		Update(update, "", "").
		Eq("exam_id", examID).
		Gte("created_at", rec.WindowStart.UTC().Format(time.RFC3339Nano)).
		Lt("created_at", rec.WindowEnd.UTC().Format(time.RFC3339Nano)).
		ExecuteTo(&result)
	if err != nil {
		return fmt.Errorf("failed to write interval scores: %w", err)
	}
	return nil
}

// InsertEvents writes raw proctoring events, used by the session simulator
// and test seeding.
func (sc *SupabaseClient) InsertEvents(ctx context.Context, rows []ProctoringLog) error {
	_, _, err := sc.client.From(eventsTable).Insert(rows, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to insert events: %w", err)
	}
	return nil
}

// ScoredRow is the projection used by the risk summary aggregation.
type ScoredRow struct {
	RiskLevel     string  `json:"risk_level"`
	RiskScore     float64 `json:"risk_score"`
	MouseScore    float64 `json:"mouse_score"`
	KeyboardScore float64 `json:"keyboard_score"`
	WindowScore   float64 `json:"window_score"`
}

// FetchScoredRows retrieves every scored row for an exam.
func (sc *SupabaseClient) FetchScoredRows(ctx context.Context, examID string) ([]ScoredRow, error) {
	var rows []ScoredRow
	_, err := sc.client.From(eventsTable).
		Select("risk_level, risk_score, mouse_score, keyboard_score, window_score", "", false).
		Eq("exam_id", examID).
		Not("risk_score", "is", "null").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scored rows: %w", err)
	}
	return rows, nil
}
