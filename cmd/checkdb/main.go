// Connectivity check for the Supabase backend: verifies credentials and that
// proctoring_logs is reachable and readable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/proctorai/classifier/internal/database"
)

func main() {
	examID := flag.String("exam", "", "exam id to probe (optional)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	fmt.Println("SUPABASE_URL:", os.Getenv("SUPABASE_URL"))

	client, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}
	fmt.Println("✅ Supabase client created successfully!")

	ctx := context.Background()

	events, err := client.FetchAllEvents(ctx, *examID)
	if err != nil {
		log.Fatalf("Failed to read proctoring_logs: %v", err)
	}
	fmt.Printf("✅ proctoring_logs readable: %d events\n", len(events))

	if *examID != "" {
		if len(events) == 0 {
			fmt.Printf("⚠️  No events for exam %s\n", *examID)
			return
		}
		first, last := events[0].CreatedAt, events[len(events)-1].CreatedAt
		fmt.Printf("Exam %s spans %s to %s\n", *examID, first.Format("2006-01-02 15:04:05"), last.Format("2006-01-02 15:04:05"))

		scored, err := client.FetchScoredRows(ctx, *examID)
		if err != nil {
			log.Fatalf("Failed to read scored rows: %v", err)
		}
		fmt.Printf("✅ %d of %d events carry risk scores\n", len(scored), len(events))
	}
}
