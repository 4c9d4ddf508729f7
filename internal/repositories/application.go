package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"evalyn/hr-agent/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	FindByJob(jobID uuid.UUID, status string) ([]models.Application, error)
	FindPendingByJob(jobID uuid.UUID) ([]models.Application, error)
	FindByJobInStatuses(jobID uuid.UUID, statuses []models.ApplicationStatus) ([]models.Application, error)
	ExistsByJobAndEmail(jobID uuid.UUID, email string) (bool, error)
	UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error
	UpdateStatusBatch(ids []uuid.UUID, status models.ApplicationStatus) error
	SaveScreeningResult(id uuid.UUID, ann models.ScreeningAnnotation) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	if err := r.db.Create(app).Error; err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindByJob(jobID uuid.UUID, status string) ([]models.Application, error) {
	query := r.db.Where("job_id = ?", jobID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var apps []models.Application
	if err := query.Order("ai_score DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// FindPendingByJob returns pending applications in submission order. The
// screener relies on this ordering for stable tie-breaking.
func (r *applicationRepository) FindPendingByJob(jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("job_id = ? AND status = ?", jobID, models.StatusPending).
		Order("applied_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) FindByJobInStatuses(jobID uuid.UUID, statuses []models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.
		Where("job_id = ? AND status IN ?", jobID, statuses).
		Order("ai_score DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by status: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) ExistsByJobAndEmail(jobID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("job_id = ? AND email = ?", jobID, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}
	return count > 0, nil
}

func (r *applicationRepository) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *applicationRepository) UpdateStatusBatch(ids []uuid.UUID, status models.ApplicationStatus) error {
	if len(ids) == 0 {
		return nil
	}

	err := r.db.Model(&models.Application{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to batch update status: %w", err)
	}
	return nil
}

// SaveScreeningResult persists the AI columns for one application. Callers
// treat this as best-effort: external schemas may not carry these columns.
func (r *applicationRepository) SaveScreeningResult(id uuid.UUID, ann models.ScreeningAnnotation) error {
	skills, err := json.Marshal(ann.SkillsMatched)
	if err != nil {
		skills = []byte("[]")
	}

	now := time.Now()
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_score":               ann.Score,
			"ai_summary":             ann.Summary,
			"ai_strengths":           ann.Strengths,
			"ai_weaknesses":          ann.Weaknesses,
			"skills_matched":         string(skills),
			"screening_completed_at": now,
			"updated_at":             now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to save screening result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return nil
}
