package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/proctorai/classifier/internal/api"
	"github.com/proctorai/classifier/internal/cache"
	"github.com/proctorai/classifier/internal/config"
	"github.com/proctorai/classifier/internal/database"
	"github.com/proctorai/classifier/internal/events"
	"github.com/proctorai/classifier/internal/monitoring"
	"github.com/proctorai/classifier/internal/service"
)

func main() {
	// .env is optional; deployed environments inject real env vars.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}

	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	// Redis is optional: without it, summaries read straight from Supabase.
	var scoreCache *cache.ScoreCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		scoreCache, err = cache.NewScoreCache(addr, os.Getenv("REDIS_PASSWORD"), db)
		if err != nil {
			log.Printf("Redis unavailable, running without score cache: %v", err)
			scoreCache = nil
		}
	}
	defer scoreCache.Close()

	metrics := monitoring.NewMetrics()
	bus := events.NewScoreBus()
	extractors := service.NewExtractorsFromConfig(cfg.Extractors)

	scoringService := service.NewScoringService(supabaseClient, supabaseClient, extractors, bus, metrics)
	featureService := service.NewFeatureService(supabaseClient, extractors, metrics)
	summaryService := service.NewSummaryService(supabaseClient, scoreCache)

	server := api.NewServer(cfg, scoringService, featureService, summaryService, bus, metrics)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Risk classifier API starting on port %s", port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
