package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPending         ApplicationStatus = "pending"          // just applied
	StatusScreening       ApplicationStatus = "screening"        // in top slice but below threshold
	StatusShortlisted     ApplicationStatus = "shortlisted"      // passed AI screening
	StatusRound1Passed    ApplicationStatus = "round1_passed"    // notified after screening
	StatusRound2Scheduled ApplicationStatus = "round2_scheduled" // interview booked
	StatusRound2Completed ApplicationStatus = "round2_completed" // interview done
	StatusHired           ApplicationStatus = "hired"
	StatusRejected        ApplicationStatus = "rejected"
)

var applicationStatuses = map[ApplicationStatus]bool{
	StatusPending:         true,
	StatusScreening:       true,
	StatusShortlisted:     true,
	StatusRound1Passed:    true,
	StatusRound2Scheduled: true,
	StatusRound2Completed: true,
	StatusHired:           true,
	StatusRejected:        true,
}

// ValidStatus reports whether s is part of the fixed status vocabulary.
func ValidStatus(s string) bool {
	return applicationStatuses[ApplicationStatus(s)]
}

type Application struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_email" json:"job_id"`
	FullName     string    `gorm:"type:varchar(200);not null" json:"full_name"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_applications_job_email" json:"email"`
	Phone        string    `gorm:"type:varchar(50)" json:"phone"`
	LinkedinURL  string    `gorm:"type:varchar(500)" json:"linkedin_url"`
	PortfolioURL string    `gorm:"type:varchar(500)" json:"portfolio_url"`

	// ResumeURL points at blob storage; CVFilePath is the legacy local-disk
	// column still populated when the blob upload fails.
	ResumeURL  string `gorm:"type:varchar(500)" json:"resume_url"`
	CVFilePath string `gorm:"type:varchar(500)" json:"cv_file_path"`
	CVText     string `gorm:"type:text" json:"-"`

	CoverLetter string `gorm:"type:text" json:"cover_letter"`

	// AI screening columns are best-effort annotations. The workflow never
	// depends on them being persisted.
	AIScore       float64 `gorm:"default:0" json:"ai_score"`
	AISummary     string  `gorm:"type:text" json:"ai_summary"`
	AIStrengths   string  `gorm:"type:text" json:"ai_strengths"`
	AIWeaknesses  string  `gorm:"type:text" json:"ai_weaknesses"`
	SkillsMatched string  `gorm:"type:text" json:"skills_matched"`

	Status               string     `gorm:"type:varchar(50);default:'pending';index" json:"status"`
	ScreeningCompletedAt *time.Time `json:"screening_completed_at,omitempty"`

	AppliedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"applied_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Job Job `gorm:"foreignKey:JobID" json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// ResumeRef returns the single résumé reference for this row. Rows written by
// older deployments carry only the local path column, some external rows
// carry the literal string "NULL", so all of that variance is absorbed here
// and nowhere else.
func (a *Application) ResumeRef() string {
	for _, ref := range []string{a.ResumeURL, a.CVFilePath} {
		ref = strings.TrimSpace(ref)
		if ref == "" || strings.EqualFold(ref, "NULL") {
			continue
		}
		return ref
	}
	return ""
}

// ScreeningAnnotation carries the AI-derived fields for one application. It
// lives beside the entity rather than on it so the workflow keeps working
// against storage backends that never persist these values.
type ScreeningAnnotation struct {
	Score         float64  `json:"score"`
	Summary       string   `json:"summary"`
	Strengths     string   `json:"strengths"`
	Weaknesses    string   `json:"weaknesses"`
	SkillsMatched []string `json:"skills_matched"`
}

// ScoredApplication pairs an application with its screening annotation for
// the duration of one screening run.
type ScoredApplication struct {
	Application *Application        `json:"application"`
	Annotation  ScreeningAnnotation `json:"annotation"`
}
