package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title              string     `gorm:"type:varchar(200);not null" json:"title"`
	Department         string     `gorm:"type:varchar(100)" json:"department"`
	Location           string     `gorm:"type:varchar(100)" json:"location"`
	JobType            string     `gorm:"type:varchar(50)" json:"job_type"`
	ExperienceLevel    string     `gorm:"type:varchar(50)" json:"experience_level"`
	MinExperienceYears int        `gorm:"default:0" json:"min_experience_years"`
	MaxExperienceYears int        `gorm:"default:10" json:"max_experience_years"`
	SalaryMin          *float64   `json:"salary_min,omitempty"`
	SalaryMax          *float64   `json:"salary_max,omitempty"`
	Description        string     `gorm:"type:text;not null" json:"description"`
	Requirements       string     `gorm:"type:text;not null" json:"requirements"`
	Responsibilities   string     `gorm:"type:text" json:"responsibilities"`
	Benefits           string     `gorm:"type:text" json:"benefits"`
	IsActive           bool       `gorm:"default:true" json:"is_active"`
	IsPublished        bool       `gorm:"default:false" json:"is_published"`
	Deadline           *time.Time `json:"deadline,omitempty"`
	CreatedAt          time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}

// AcceptingApplications reports whether the job is visible on the careers
// page and open for new candidates.
func (j *Job) AcceptingApplications() bool {
	if !j.IsPublished || !j.IsActive {
		return false
	}
	if j.Deadline != nil && time.Now().After(*j.Deadline) {
		return false
	}
	return true
}
