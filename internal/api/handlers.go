package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/proctorai/classifier/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

// serviceError maps the engine's error taxonomy onto HTTP statuses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoData):
		writeError(w, http.StatusNotFound, "No events found for this exam")
	case errors.Is(err, service.ErrAllIntervalsFailed):
		writeError(w, http.StatusInternalServerError, "Failed to process any intervals successfully")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) observe(endpoint string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	subscribers := 0
	if s.bus != nil {
		subscribers = s.bus.SubscriberCount()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "healthy",
		"service":            "risk-classifier",
		"stream_subscribers": subscribers,
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	defer s.observe("scoring_calculate", time.Now())

	req := service.ScoringRequest{
		IntervalSeconds:   s.cfg.Rolling.IntervalSeconds,
		WindowSizeSeconds: s.cfg.Rolling.WindowSizeSeconds,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ExamID == "" {
		writeError(w, http.StatusBadRequest, "exam_id is required")
		return
	}
	if req.IntervalSeconds <= 0 || req.WindowSizeSeconds <= 0 {
		writeError(w, http.StatusBadRequest, "interval_seconds and window_size_seconds must be positive")
		return
	}

	result, err := s.scoring.Calculate(r.Context(), req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	defer s.observe("scoring_summary", time.Now())

	examID := mux.Vars(r)["exam_id"]
	summary, err := s.summary.Summary(r.Context(), examID)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			writeError(w, http.StatusNotFound, "No risk scores found for this exam")
			return
		}
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleExtractFeatures(w http.ResponseWriter, r *http.Request) {
	defer s.observe("features_extract", time.Now())

	req := service.FeaturesRequest{
		IntervalSeconds: s.cfg.Rolling.IntervalSeconds,
		FallbackLimit:   s.cfg.Rolling.FallbackLimit,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ExamID == "" {
		writeError(w, http.StatusBadRequest, "exam_id is required")
		return
	}
	if req.IntervalSeconds <= 0 || req.FallbackLimit <= 0 {
		writeError(w, http.StatusBadRequest, "interval_seconds and fallback_limit must be positive")
		return
	}

	result, err := s.features.Extract(r.Context(), req)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFeaturesTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Features router is working",
	})
}
