package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
)

// ScreenerService drives one screening run for a job: extract → score →
// rank → transition statuses.
//
// Selection policy: inside the top slice, candidates at or above the minimum
// score become shortlisted; the rest of the slice is parked in "screening"
// for manual review. Everything outside the slice is rejected.
type ScreenerService interface {
	Screen(ctx context.Context, jobID uuid.UUID, topN int) ([]models.ScoredApplication, error)
}

type screenerService struct {
	jobRepo      repositories.JobRepository
	appRepo      repositories.ApplicationRepository
	extractor    ExtractorService
	scorer       ScorerService
	defaultTopN  int
	minimumScore float64
}

func NewScreenerService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	extractor ExtractorService,
	scorer ScorerService,
	defaultTopN int,
	minimumScore float64,
) ScreenerService {
	return &screenerService{
		jobRepo:      jobRepo,
		appRepo:      appRepo,
		extractor:    extractor,
		scorer:       scorer,
		defaultTopN:  defaultTopN,
		minimumScore: minimumScore,
	}
}

func (s *screenerService) Screen(ctx context.Context, jobID uuid.UUID, topN int) ([]models.ScoredApplication, error) {
	if topN <= 0 {
		topN = s.defaultTopN
	}

	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	apps, err := s.appRepo.FindPendingByJob(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending applications: %w", err)
	}
	if len(apps) == 0 {
		// Nothing pending is success, not an error. Re-running a finished
		// screening lands here, which is what makes retries safe.
		return []models.ScoredApplication{}, nil
	}

	log.Printf("🔄 Starting AI screening for %d applications (job %s)", len(apps), job.Title)

	scored := make([]models.ScoredApplication, 0, len(apps))
	for i := range apps {
		app := &apps[i]
		log.Printf("  [%d/%d] Analyzing %s...", i+1, len(apps), app.FullName)

		var cvText string
		if ref := app.ResumeRef(); ref != "" {
			cvText = s.extractor.ExtractText(ref)
		}

		annotation := s.scorer.Score(ctx, cvText, job)
		scored = append(scored, models.ScoredApplication{
			Application: app,
			Annotation:  annotation,
		})

		log.Printf("     Score: %.0f%%", annotation.Score)
	}

	// Stable sort keeps submission order between equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Annotation.Score > scored[j].Annotation.Score
	})

	if topN > len(scored) {
		topN = len(scored)
	}
	topSlice := scored[:topN]

	var shortlisted, inReview, rejected []uuid.UUID
	for _, sa := range topSlice {
		if sa.Annotation.Score >= s.minimumScore {
			shortlisted = append(shortlisted, sa.Application.ID)
			sa.Application.Status = string(models.StatusShortlisted)
		} else {
			inReview = append(inReview, sa.Application.ID)
			sa.Application.Status = string(models.StatusScreening)
		}
	}
	for _, sa := range scored[topN:] {
		rejected = append(rejected, sa.Application.ID)
		sa.Application.Status = string(models.StatusRejected)
	}

	if err := s.appRepo.UpdateStatusBatch(shortlisted, models.StatusShortlisted); err != nil {
		return nil, fmt.Errorf("failed to shortlist candidates: %w", err)
	}
	if err := s.appRepo.UpdateStatusBatch(inReview, models.StatusScreening); err != nil {
		return nil, fmt.Errorf("failed to park below-threshold candidates: %w", err)
	}
	if err := s.appRepo.UpdateStatusBatch(rejected, models.StatusRejected); err != nil {
		return nil, fmt.Errorf("failed to reject candidates: %w", err)
	}

	// AI columns are annotations, not authoritative state: persistence
	// failures are logged and the run keeps going.
	for _, sa := range scored {
		if err := s.appRepo.SaveScreeningResult(sa.Application.ID, sa.Annotation); err != nil {
			log.Printf("⚠️  Could not persist screening result for %s: %v", sa.Application.ID, err)
		}
	}

	log.Printf("✅ Screening complete: %d shortlisted, %d in review, %d rejected",
		len(shortlisted), len(inReview), len(rejected))

	return topSlice, nil
}
