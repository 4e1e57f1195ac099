// Package api is the thin request/response surface over the scoring engine:
// routing, validation and transport only, no algorithmic content.
package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/proctorai/classifier/internal/config"
	"github.com/proctorai/classifier/internal/events"
	"github.com/proctorai/classifier/internal/monitoring"
	"github.com/proctorai/classifier/internal/service"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	cfg      *config.Config
	scoring  *service.ScoringService
	features *service.FeatureService
	summary  *service.SummaryService
	bus      *events.ScoreBus
	metrics  *monitoring.Metrics
}

// NewServer wires the handler dependencies. bus may be nil when the live
// stream is disabled.
func NewServer(cfg *config.Config, scoring *service.ScoringService, features *service.FeatureService, summary *service.SummaryService, bus *events.ScoreBus, metrics *monitoring.Metrics) *Server {
	return &Server{
		cfg:      cfg,
		scoring:  scoring,
		features: features,
		summary:  summary,
		bus:      bus,
		metrics:  metrics,
	}
}

// Router builds the mux router with all routes and middleware.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/scoring/calculate", s.handleCalculate).Methods("POST")
	router.HandleFunc("/scoring/summary/{exam_id}", s.handleSummary).Methods("GET")

	router.HandleFunc("/features/extract", s.handleExtractFeatures).Methods("POST")
	router.HandleFunc("/features/test", s.handleFeaturesTest).Methods("GET")

	if s.cfg.Monitoring.EnableLiveStream && s.bus != nil {
		router.HandleFunc("/ws/scores", s.handleScoreStream)
	}

	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)

	return router
}
