// Resets every application for one job back to pending so the screening
// pipeline can be re-run from scratch. Usage:
//
//	go run scripts/reset_status.go <job-id>
package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"evalyn/hr-agent/internal/config"
	"evalyn/hr-agent/internal/models"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: go run scripts/reset_status.go <job-id>")
	}

	jobID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("❌ Invalid job ID %q: %v", os.Args[1], err)
	}

	cfg := config.Load()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	var job models.Job
	if err := db.Where("id = ?", jobID).First(&job).Error; err != nil {
		log.Fatalf("❌ Job %s not found: %v", jobID, err)
	}

	log.Printf("🔄 Resetting applications for %q (%s)", job.Title, jobID)

	result := db.Model(&models.Application{}).
		Where("job_id = ?", jobID).
		Updates(map[string]interface{}{
			"status":                 models.StatusPending,
			"ai_score":               0,
			"ai_summary":             "",
			"ai_strengths":           "",
			"ai_weaknesses":          "",
			"skills_matched":         "",
			"screening_completed_at": nil,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		log.Fatalf("❌ Failed to reset applications: %v", result.Error)
	}

	log.Printf("✅ Reset %d applications to pending", result.RowsAffected)
}
