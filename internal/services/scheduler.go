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

type SingleScheduleParams struct {
	ApplicationID    uuid.UUID
	Round            string
	InterviewerName  string
	InterviewerEmail string
	ScheduledAt      time.Time
	DurationMinutes  int
	MeetingLink      string
	Location         string
}

type BulkScheduleParams struct {
	InterviewerName  string
	InterviewerEmail string
	StartAt          time.Time
	DurationMinutes  int
	GapMinutes       int
	MeetingLinkBase  string
}

// SchedulerService books Round 2 interview slots. Bulk scheduling places
// candidates on a single linear timeline: slot i starts at
// start + i*(duration+gap), so slots never overlap by construction. There is
// no conflict check against the interviewer's pre-existing interviews.
type SchedulerService interface {
	ScheduleSingle(ctx context.Context, p SingleScheduleParams) (*models.Interview, error)
	ScheduleBulk(ctx context.Context, jobID uuid.UUID, p BulkScheduleParams) ([]models.Interview, error)
	Reschedule(ctx context.Context, interviewID uuid.UUID, newTime time.Time, newLink string) (*models.Interview, error)
	Complete(ctx context.Context, interviewID uuid.UUID, feedback string, rating int, passed bool) (*models.Interview, error)
}

type schedulerService struct {
	jobRepo       repositories.JobRepository
	appRepo       repositories.ApplicationRepository
	interviewRepo repositories.InterviewRepository
	mailer        EmailService
}

func NewSchedulerService(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	interviewRepo repositories.InterviewRepository,
	mailer EmailService,
) SchedulerService {
	return &schedulerService{
		jobRepo:       jobRepo,
		appRepo:       appRepo,
		interviewRepo: interviewRepo,
		mailer:        mailer,
	}
}

func (s *schedulerService) ScheduleSingle(ctx context.Context, p SingleScheduleParams) (*models.Interview, error) {
	app, err := s.appRepo.FindByID(p.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}

	round := p.Round
	if round == "" {
		round = string(models.Round2)
	}

	interview := &models.Interview{
		ID:               uuid.New(),
		ApplicationID:    app.ID,
		Round:            round,
		InterviewerName:  p.InterviewerName,
		InterviewerEmail: p.InterviewerEmail,
		ScheduledAt:      p.ScheduledAt,
		DurationMinutes:  p.DurationMinutes,
		MeetingLink:      p.MeetingLink,
		Location:         p.Location,
		Status:           string(models.InterviewScheduled),
	}

	if err := s.interviewRepo.Create(interview); err != nil {
		return nil, err
	}
	if err := s.appRepo.UpdateStatus(app.ID, models.StatusRound2Scheduled); err != nil {
		return nil, err
	}

	s.sendInvitation(app, interview)

	return interview, nil
}

func (s *schedulerService) ScheduleBulk(ctx context.Context, jobID uuid.UUID, p BulkScheduleParams) ([]models.Interview, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	apps, err := s.appRepo.FindByJobInStatuses(jobID, []models.ApplicationStatus{
		models.StatusShortlisted,
		models.StatusRound1Passed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	if len(apps) == 0 {
		return []models.Interview{}, nil
	}

	slot := time.Duration(p.DurationMinutes+p.GapMinutes) * time.Minute

	interviews := make([]models.Interview, 0, len(apps))
	current := p.StartAt
	for i := range apps {
		app := &apps[i]

		interview := models.Interview{
			ID:               uuid.New(),
			ApplicationID:    app.ID,
			Round:            string(models.Round2),
			InterviewerName:  p.InterviewerName,
			InterviewerEmail: p.InterviewerEmail,
			ScheduledAt:      current,
			DurationMinutes:  p.DurationMinutes,
			MeetingLink:      meetingLink(p.MeetingLinkBase, interviewLinkID(app.ID)),
			Status:           string(models.InterviewScheduled),
		}

		if err := s.interviewRepo.Create(&interview); err != nil {
			return nil, err
		}
		if err := s.appRepo.UpdateStatus(app.ID, models.StatusRound2Scheduled); err != nil {
			return nil, err
		}

		if !s.mailer.SendInterviewInvitation(app, &interview, job) {
			log.Printf("⚠️  Invitation email failed for %s", app.Email)
		}

		log.Printf("  📅 Scheduled %s at %s", app.FullName, current.Format(time.RFC3339))

		interviews = append(interviews, interview)
		current = current.Add(slot)
	}

	return interviews, nil
}

func (s *schedulerService) Reschedule(ctx context.Context, interviewID uuid.UUID, newTime time.Time, newLink string) (*models.Interview, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	interview.ScheduledAt = newTime
	if newLink != "" {
		interview.MeetingLink = newLink
	}
	interview.Status = string(models.InterviewRescheduled)

	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, err
	}

	if app, err := s.appRepo.FindByID(interview.ApplicationID); err == nil {
		s.sendInvitation(app, interview)
	}

	return interview, nil
}

func (s *schedulerService) Complete(ctx context.Context, interviewID uuid.UUID, feedback string, rating int, passed bool) (*models.Interview, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	interview.Status = string(models.InterviewCompleted)
	interview.Feedback = feedback
	interview.Rating = &rating

	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, err
	}

	next := models.StatusRejected
	if passed {
		next = models.StatusRound2Completed
	}
	if err := s.appRepo.UpdateStatus(interview.ApplicationID, next); err != nil {
		return nil, err
	}

	return interview, nil
}

func (s *schedulerService) sendInvitation(app *models.Application, interview *models.Interview) {
	job, err := s.jobRepo.FindByID(app.JobID)
	if err != nil {
		log.Printf("⚠️  Could not load job for invitation email: %v", err)
		return
	}
	if !s.mailer.SendInterviewInvitation(app, interview, job) {
		log.Printf("⚠️  Invitation email failed for %s", app.Email)
	}
}

func meetingLink(base, id string) string {
	if base != "" {
		return fmt.Sprintf("%s?candidate=%s", base, id)
	}
	return fmt.Sprintf("https://meet.google.com/hr-%s", id)
}

func interviewLinkID(appID uuid.UUID) string {
	return appID.String()[:8]
}
