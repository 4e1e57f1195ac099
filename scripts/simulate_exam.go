// Seeds a synthetic exam session into proctoring_logs and optionally asks the
// running API to score it. Useful for local end-to-end checks against a real
// Supabase project.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/proctorai/classifier/internal/database"
)

func main() {
	examID := flag.String("exam", "", "exam id to seed (default: random)")
	minutes := flag.Int("minutes", 15, "length of the simulated session")
	suspicious := flag.Bool("suspicious", false, "generate cheating-shaped behavior")
	apiURL := flag.String("api", "", "if set, POST /scoring/calculate here after seeding")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if *examID == "" {
		*examID = "sim-" + uuid.NewString()[:8]
	}

	client, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Failed to create Supabase client: %v", err)
	}

	rows := buildSession(*examID, *minutes, *suspicious)
	fmt.Printf("Seeding %d events for exam %s (%d min, suspicious=%v)\n",
		len(rows), *examID, *minutes, *suspicious)

	if err := client.InsertEvents(context.Background(), rows); err != nil {
		log.Fatalf("Failed to insert events: %v", err)
	}
	fmt.Println("✅ Events inserted.")

	if *apiURL != "" {
		score(*apiURL, *examID)
	}
}

// buildSession generates one session's events, newest last. Honest sessions
// are mostly steady typing and mouse movement; suspicious ones add edge
// hovering, shortcut bursts, clipboard activity and tab switching.
func buildSession(examID string, minutes int, suspicious bool) []database.ProctoringLog {
	var rows []database.ProctoringLog
	start := time.Now().UTC().Add(-time.Duration(minutes) * time.Minute)
	end := time.Now().UTC()

	emit := func(ts time.Time, typ string, data map[string]interface{}) {
		rows = append(rows, database.ProctoringLog{
			ExamID:       examID,
			Type:         typ,
			Data:         data,
			WindowWidth:  1920,
			WindowHeight: 1080,
			CreatedAt:    ts.Format(time.RFC3339Nano),
		})
	}

	for ts := start; ts.Before(end); ts = ts.Add(time.Duration(1500+rand.Intn(2000)) * time.Millisecond) {
		switch rand.Intn(10) {
		case 0, 1, 2, 3:
			x, y := 400+rand.Float64()*1100, 300+rand.Float64()*500
			if suspicious && rand.Intn(3) == 0 {
				y = 1060 + rand.Float64()*20 // hovering at the bottom edge
			}
			emit(ts, "mouse_move", map[string]interface{}{"x": x, "y": y})
		case 4, 5, 6:
			key := string(rune('a' + rand.Intn(26)))
			if suspicious && rand.Intn(4) == 0 {
				key = "Control"
			}
			emit(ts, "key_press", map[string]interface{}{"key_type": key})
		case 7:
			if suspicious {
				emit(ts, "clipboard", map[string]interface{}{
					"action":    "paste",
					"selection": "lorem ipsum dolor sit amet",
				})
			} else {
				emit(ts, "key_press", map[string]interface{}{"key_type": "Backspace"})
			}
		case 8:
			if suspicious {
				emit(ts, "tab_switch", map[string]interface{}{})
			}
		case 9:
			if suspicious && rand.Intn(2) == 0 {
				emit(ts, "window_state_change", map[string]interface{}{"state": "blurred"})
				emit(ts.Add(4*time.Second), "window_state_change", map[string]interface{}{"state": "focused"})
			}
		}
	}
	return rows
}

func score(apiURL, examID string) {
	body, _ := json.Marshal(map[string]interface{}{"exam_id": examID})
	resp, err := http.Post(apiURL+"/scoring/calculate", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to call scoring API: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	fmt.Printf("\nScoring response (%d):\n%s\n", resp.StatusCode, raw)
}
