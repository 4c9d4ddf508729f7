package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewRound string

const (
	Round1 InterviewRound = "round1" // automated screening
	Round2 InterviewRound = "round2" // technical with SSE
	Round3 InterviewRound = "round3" // final/HR round
)

type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "scheduled"
	InterviewConfirmed   InterviewStatus = "confirmed"
	InterviewCompleted   InterviewStatus = "completed"
	InterviewCancelled   InterviewStatus = "cancelled"
	InterviewRescheduled InterviewStatus = "rescheduled"
)

type Interview struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;index" json:"application_id"`

	Round            string `gorm:"type:varchar(20);default:'round2'" json:"round"`
	InterviewerName  string `gorm:"type:varchar(200)" json:"interviewer_name"`
	InterviewerEmail string `gorm:"type:varchar(200)" json:"interviewer_email"`

	ScheduledAt     time.Time `gorm:"not null" json:"scheduled_at"`
	DurationMinutes int       `gorm:"default:60" json:"duration_minutes"`
	MeetingLink     string    `gorm:"type:varchar(500)" json:"meeting_link"`
	Location        string    `gorm:"type:varchar(200)" json:"location"`

	Status string `gorm:"type:varchar(50);default:'scheduled'" json:"status"`

	Notes    string `gorm:"type:text" json:"notes"`
	Feedback string `gorm:"type:text" json:"feedback"`
	Rating   *int   `json:"rating,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Application Application `gorm:"foreignKey:ApplicationID" json:"-"`
}

func (Interview) TableName() string {
	return "interviews"
}
