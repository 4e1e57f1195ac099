package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorai/classifier/internal/config"
	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/database"
	"github.com/proctorai/classifier/internal/events"
	"github.com/proctorai/classifier/internal/service"
)

type stubStore struct {
	rangeEvents []core.Event
	scoredRows  []database.ScoredRow
}

func (s *stubStore) FetchEventsInRange(ctx context.Context, examID string, start, end time.Time) ([]core.Event, error) {
	return s.rangeEvents, nil
}

func (s *stubStore) FetchRecentEvents(ctx context.Context, examID string, limit int) ([]core.Event, error) {
	return nil, nil
}

func (s *stubStore) FetchAllEvents(ctx context.Context, examID string) ([]core.Event, error) {
	return s.rangeEvents, nil
}

func (s *stubStore) WriteIntervalScores(ctx context.Context, examID string, rec core.ScoreRecord) error {
	return nil
}

func (s *stubStore) FetchScoredRows(ctx context.Context, examID string) ([]database.ScoredRow, error) {
	return s.scoredRows, nil
}

func newTestServer(store *stubStore) *Server {
	extractors := service.NewExtractors()
	scoring := service.NewScoringService(store, store, extractors, nil, nil)
	features := service.NewFeatureService(store, extractors, nil)
	summary := service.NewSummaryService(store, nil)
	return NewServer(config.Default(), scoring, features, summary, events.NewScoreBus(), nil)
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubStore{}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestCalculateEndpoint(t *testing.T) {
	store := &stubStore{rangeEvents: []core.Event{
		{ExamID: "exam-1", Type: core.EventTabSwitch, CreatedAt: time.Now().UTC().Add(-5 * time.Minute)},
		{ExamID: "exam-1", Type: core.EventTabSwitch, CreatedAt: time.Now().UTC().Add(-4 * time.Minute)},
	}}
	srv := httptest.NewServer(newTestServer(store).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scoring/calculate", "application/json",
		strings.NewReader(`{"exam_id":"exam-1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.ScoringResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "exam-1", result.ExamID)
	assert.Equal(t, 3, result.IntervalsProcessed) // 900s lookback / 300s default interval
}

func TestCalculateEndpointNoData(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubStore{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scoring/calculate", "application/json",
		strings.NewReader(`{"exam_id":"exam-1"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCalculateEndpointRequiresExamID(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubStore{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scoring/calculate", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFeaturesExtractEndpointFallbackFlag(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubStore{}).Router())
	defer srv.Close()

	// Nothing live and nothing recent: NoData surfaces as 404.
	resp, err := http.Post(srv.URL+"/features/extract", "application/json",
		strings.NewReader(`{"exam_id":"exam-1","interval_seconds":300,"fallback_limit":50}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummaryEndpoint(t *testing.T) {
	store := &stubStore{scoredRows: []database.ScoredRow{
		{RiskLevel: "medium", RiskScore: 40, MouseScore: 10, KeyboardScore: 30, WindowScore: 55},
	}}
	srv := httptest.NewServer(newTestServer(store).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/scoring/summary/exam-1")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary service.RiskSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	require.Len(t, summary.RiskSummary, 1)
	assert.Equal(t, "medium", summary.RiskSummary[0].RiskLevel)
}

func TestFeaturesTestEndpoint(t *testing.T) {
	srv := httptest.NewServer(newTestServer(&stubStore{}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/features/test")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
