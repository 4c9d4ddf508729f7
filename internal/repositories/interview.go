package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"evalyn/hr-agent/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindByJob(jobID uuid.UUID) ([]models.Interview, error)
	FindByInterviewer(email string, from, to time.Time) ([]models.Interview, error)
	Update(interview *models.Interview) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindByJob(jobID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Joins("JOIN applications ON applications.id = interviews.application_id").
		Where("applications.job_id = ?", jobID).
		Order("interviews.scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

func (r *interviewRepository) FindByInterviewer(email string, from, to time.Time) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("interviewer_email = ? AND scheduled_at BETWEEN ? AND ?", email, from, to).
		Where("status IN ?", []models.InterviewStatus{
			models.InterviewScheduled,
			models.InterviewConfirmed,
			models.InterviewRescheduled,
		}).
		Order("scheduled_at ASC").
		Find(&interviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list interviewer schedule: %w", err)
	}
	return interviews, nil
}

func (r *interviewRepository) Update(interview *models.Interview) error {
	interview.UpdatedAt = time.Now()
	if err := r.db.Save(interview).Error; err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	return nil
}
