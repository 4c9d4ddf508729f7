package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
)

type WorkflowParams struct {
	SSEName          string
	SSEEmail         string
	InterviewStartAt *time.Time
}

// WorkflowService runs the whole pipeline as one call: screen → notify the
// shortlist → schedule Round 2 interviews.
type WorkflowService interface {
	Run(ctx context.Context, jobID uuid.UUID, p WorkflowParams) (*models.WorkflowResult, error)
}

type workflowService struct {
	jobRepo   repositories.JobRepository
	appRepo   repositories.ApplicationRepository
	screener  ScreenerService
	mailer    EmailService
	scheduler SchedulerService

	interviewDuration int
	interviewGap      int
	defaultSSEName    string
	defaultSSEEmail   string

	now func() time.Time
}

func NewWorkflowService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	screener ScreenerService,
	mailer EmailService,
	scheduler SchedulerService,
	interviewDuration, interviewGap int,
	defaultSSEName, defaultSSEEmail string,
) WorkflowService {
	return &workflowService{
		jobRepo:           jobRepo,
		appRepo:           appRepo,
		screener:          screener,
		mailer:            mailer,
		scheduler:         scheduler,
		interviewDuration: interviewDuration,
		interviewGap:      interviewGap,
		defaultSSEName:    defaultSSEName,
		defaultSSEEmail:   defaultSSEEmail,
		now:               time.Now,
	}
}

func (w *workflowService) Run(ctx context.Context, jobID uuid.UUID, p WorkflowParams) (*models.WorkflowResult, error) {
	job, err := w.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	sseName := p.SSEName
	if sseName == "" {
		sseName = w.defaultSSEName
	}
	sseEmail := p.SSEEmail
	if sseEmail == "" {
		sseEmail = w.defaultSSEEmail
	}
	startAt := NextBusinessMorning(w.now())
	if p.InterviewStartAt != nil {
		startAt = *p.InterviewStartAt
	}

	result := &models.WorkflowResult{
		JobID:     jobID.String(),
		StartedAt: w.now(),
	}

	// Step 1: screen
	log.Printf("🤖 [Step 1] AI screening for %s", job.Title)
	topCandidates, err := w.screener.Screen(ctx, jobID, 0)
	if err != nil {
		result.Steps = append(result.Steps, models.WorkflowStep{
			Step: 1, Action: "AI Screening", Status: "failed", Detail: err.Error(),
		})
		result.Message = "Workflow aborted during screening"
		return result, nil
	}
	result.Steps = append(result.Steps, models.WorkflowStep{
		Step: 1, Action: "AI Screening", Status: "completed", Count: len(topCandidates),
	})

	shortlisted, err := w.appRepo.FindByJobInStatuses(jobID, []models.ApplicationStatus{models.StatusShortlisted})
	if err != nil {
		return nil, fmt.Errorf("failed to load shortlist: %w", err)
	}
	if len(shortlisted) == 0 {
		result.Message = "No candidates met the minimum score threshold"
		done := w.now()
		result.CompletedAt = &done
		return result, nil
	}

	// Step 2: notify. The whole shortlist advances to round1_passed after
	// the sends are attempted, whether or not each individual email landed.
	// Failed sends are visible in the step counts for manual follow-up.
	log.Printf("📧 [Step 2] Notifying %d shortlisted candidates", len(shortlisted))
	emails := w.mailer.SendBulkShortlistNotifications(shortlisted, job)

	ids := make([]uuid.UUID, len(shortlisted))
	for i := range shortlisted {
		ids[i] = shortlisted[i].ID
	}
	if err := w.appRepo.UpdateStatusBatch(ids, models.StatusRound1Passed); err != nil {
		return nil, fmt.Errorf("failed to advance shortlist: %w", err)
	}
	result.Steps = append(result.Steps, models.WorkflowStep{
		Step: 2, Action: "Send Shortlist Emails", Status: "completed",
		Count:  emails.Success,
		Detail: fmt.Sprintf("%d sent, %d failed", emails.Success, emails.Failed),
	})

	// Step 3: schedule
	log.Printf("📅 [Step 3] Scheduling Round 2 interviews with %s", sseName)
	interviews, err := w.scheduler.ScheduleBulk(ctx, jobID, BulkScheduleParams{
		InterviewerName:  sseName,
		InterviewerEmail: sseEmail,
		StartAt:          startAt,
		DurationMinutes:  w.interviewDuration,
		GapMinutes:       w.interviewGap,
	})
	if err != nil {
		result.Steps = append(result.Steps, models.WorkflowStep{
			Step: 3, Action: "Schedule Interviews", Status: "failed", Detail: err.Error(),
		})
		result.Message = "Workflow aborted during scheduling"
		return result, nil
	}
	result.Steps = append(result.Steps, models.WorkflowStep{
		Step: 3, Action: "Schedule Interviews", Status: "completed", Count: len(interviews),
	})

	done := w.now()
	result.CompletedAt = &done
	result.Message = fmt.Sprintf("Successfully processed %d candidates", len(shortlisted))

	log.Printf("✅ HR automation workflow completed: %d shortlisted, %d emails sent, %d interviews",
		len(shortlisted), emails.Success, len(interviews))

	return result, nil
}

// NextBusinessMorning returns 09:00 on the next weekday after t.
func NextBusinessMorning(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	return time.Date(next.Year(), next.Month(), next.Day(), 9, 0, 0, 0, next.Location())
}
