// Command extract runs the full-history batch pass: it fetches every
// proctoring event (optionally one exam), cuts tumbling windows per exam,
// extracts and scores each window and writes the feature dataset as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/proctorai/classifier/internal/config"
	"github.com/proctorai/classifier/internal/core"
	"github.com/proctorai/classifier/internal/database"
	"github.com/proctorai/classifier/internal/service"
)

func main() {
	examID := flag.String("exam", "", "restrict the pass to one exam id")
	windowSize := flag.Int("window", 30, "tumbling window size in seconds")
	output := flag.String("out", "extracted_features.csv", "output CSV path")
	configPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	batch := service.NewBatchService(client, service.NewExtractorsFromConfig(cfg.Extractors))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Fetching events from database...")
	rows, err := batch.BuildDataset(ctx, *examID, time.Duration(*windowSize)*time.Second)
	if err != nil {
		log.Fatalf("Batch extraction failed: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	if err := service.WriteCSV(rows, f); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}

	log.Printf("Features saved to %s", *output)
	log.Printf("Total windows processed: %d", len(rows))

	printStats(rows)
}

func printStats(rows []service.DatasetRow) {
	dist := service.LevelDistribution(rows)
	fmt.Println("\nRisk level distribution:")
	for _, level := range []core.RiskLevel{core.RiskLow, core.RiskMedium, core.RiskHigh} {
		fmt.Printf("  %-6s %d\n", level, dist[level])
	}

	perExam := make(map[string]int)
	for _, row := range rows {
		perExam[row.ExamID]++
	}
	examIDs := make([]string, 0, len(perExam))
	for id := range perExam {
		examIDs = append(examIDs, id)
	}
	sort.Strings(examIDs)

	fmt.Println("\nExams processed:")
	for _, id := range examIDs {
		var sum, max float64
		for _, row := range rows {
			if row.ExamID != id {
				continue
			}
			sum += row.Record.TotalRiskScore
			if row.Record.TotalRiskScore > max {
				max = row.Record.TotalRiskScore
			}
		}
		n := perExam[id]
		fmt.Printf("  %s windows=%d avg_risk=%.4f max_risk=%.4f\n",
			id, n, sum/float64(n), max)
	}
}
