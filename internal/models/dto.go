package models

import "time"

type JobRequest struct {
	Title              string     `json:"title" validate:"required,max=200"`
	Department         string     `json:"department" validate:"max=100"`
	Location           string     `json:"location" validate:"max=100"`
	JobType            string     `json:"job_type" validate:"max=50"`
	ExperienceLevel    string     `json:"experience_level" validate:"max=50"`
	MinExperienceYears int        `json:"min_experience_years" validate:"min=0"`
	MaxExperienceYears int        `json:"max_experience_years" validate:"min=0"`
	SalaryMin          *float64   `json:"salary_min"`
	SalaryMax          *float64   `json:"salary_max"`
	Description        string     `json:"description" validate:"required"`
	Requirements       string     `json:"requirements" validate:"required"`
	Responsibilities   string     `json:"responsibilities"`
	Benefits           string     `json:"benefits"`
	Deadline           *time.Time `json:"deadline"`
}

type ApplicationRequest struct {
	JobID        string `form:"job_id" validate:"required,uuid"`
	FullName     string `form:"full_name" validate:"required,max=200"`
	Email        string `form:"email" validate:"required,email"`
	Phone        string `form:"phone" validate:"max=50"`
	LinkedinURL  string `form:"linkedin_url" validate:"omitempty,url"`
	PortfolioURL string `form:"portfolio_url" validate:"omitempty,url"`
	CoverLetter  string `form:"cover_letter"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

type ScreeningResultResponse struct {
	JobID         string              `json:"job_id"`
	Screened      int                 `json:"screened"`
	Shortlisted   int                 `json:"shortlisted"`
	TopCandidates []ScreenedCandidate `json:"top_candidates"`
}

type ScreenedCandidate struct {
	ApplicationID string              `json:"application_id"`
	FullName      string              `json:"full_name"`
	Email         string              `json:"email"`
	Status        string              `json:"status"`
	Annotation    ScreeningAnnotation `json:"annotation"`
}

type NotifyResultResponse struct {
	JobID    string `json:"job_id"`
	Notified int    `json:"notified"`
	Failed   int    `json:"failed"`
}

type InterviewRequest struct {
	ApplicationID    string    `json:"application_id" validate:"required,uuid"`
	Round            string    `json:"round"`
	InterviewerName  string    `json:"interviewer_name" validate:"required"`
	InterviewerEmail string    `json:"interviewer_email" validate:"omitempty,email"`
	ScheduledAt      time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes  int       `json:"duration_minutes" validate:"min=0"`
	MeetingLink      string    `json:"meeting_link"`
	Location         string    `json:"location"`
}

type BulkScheduleRequest struct {
	JobID            string     `json:"job_id" validate:"required,uuid"`
	InterviewerName  string     `json:"interviewer_name"`
	InterviewerEmail string     `json:"interviewer_email" validate:"omitempty,email"`
	StartAt          *time.Time `json:"start_at"`
	DurationMinutes  int        `json:"duration_minutes" validate:"min=0"`
	GapMinutes       int        `json:"gap_minutes" validate:"min=0"`
	MeetingLinkBase  string     `json:"meeting_link_base"`
}

type RescheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	MeetingLink string    `json:"meeting_link"`
}

type CompleteInterviewRequest struct {
	Feedback string `json:"feedback" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Passed   bool   `json:"passed"`
}

type WorkflowRequest struct {
	JobID            string     `json:"job_id" validate:"required,uuid"`
	SSEName          string     `json:"sse_name"`
	SSEEmail         string     `json:"sse_email" validate:"omitempty,email"`
	InterviewStartAt *time.Time `json:"interview_start_at"`
}

type WorkflowStep struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Count  int    `json:"count,omitempty"`
}

type WorkflowResult struct {
	JobID       string         `json:"job_id"`
	StartedAt   time.Time      `json:"workflow_started_at"`
	CompletedAt *time.Time     `json:"workflow_completed_at,omitempty"`
	Message     string         `json:"message"`
	Steps       []WorkflowStep `json:"steps"`
}

type SkillGapReport struct {
	ApplicationID string   `json:"application_id"`
	Matched       []string `json:"matched_skills"`
	Missing       []string `json:"missing_skills"`
	MatchPercent  float64  `json:"match_percent"`
	Feedback      string   `json:"feedback"`
}

type BiasReport struct {
	ApplicationID  string  `json:"application_id"`
	OriginalScore  float64 `json:"original_score"`
	BlindScore     float64 `json:"blind_score"`
	Delta          float64 `json:"delta"`
	Severity       string  `json:"severity"`
	Interpretation string  `json:"interpretation"`
}
