package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
)

// In-memory fakes shared by the service tests.

type fakeJobRepo struct {
	jobs map[uuid.UUID]*models.Job
}

func newFakeJobRepo(jobs ...*models.Job) *fakeJobRepo {
	r := &fakeJobRepo{jobs: make(map[uuid.UUID]*models.Job)}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(job *models.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) FindByID(id uuid.UUID) (*models.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, repositories.ErrNotFound)
	}
	return job, nil
}

func (r *fakeJobRepo) FindAll() ([]models.Job, error) {
	out := make([]models.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (r *fakeJobRepo) FindPublished() ([]models.Job, error) {
	var out []models.Job
	for _, j := range r.jobs {
		if j.IsPublished {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(job *models.Job) error {
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) Delete(id uuid.UUID) error {
	if _, ok := r.jobs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) SetPublished(id uuid.UUID, published bool) error {
	job, ok := r.jobs[id]
	if !ok {
		return repositories.ErrNotFound
	}
	job.IsPublished = published
	return nil
}

type fakeAppRepo struct {
	apps        []*models.Application
	savedScores map[uuid.UUID]models.ScreeningAnnotation
}

func newFakeAppRepo(apps ...*models.Application) *fakeAppRepo {
	return &fakeAppRepo{
		apps:        apps,
		savedScores: make(map[uuid.UUID]models.ScreeningAnnotation),
	}
}

func (r *fakeAppRepo) Create(app *models.Application) error {
	r.apps = append(r.apps, app)
	return nil
}

func (r *fakeAppRepo) FindByID(id uuid.UUID) (*models.Application, error) {
	for _, a := range r.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("application %s: %w", id, repositories.ErrNotFound)
}

func (r *fakeAppRepo) FindByJob(jobID uuid.UUID, status string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID && (status == "" || a.Status == status) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppRepo) FindPendingByJob(jobID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID && a.Status == string(models.StatusPending) {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppliedAt.Before(out[j].AppliedAt)
	})
	return out, nil
}

func (r *fakeAppRepo) FindByJobInStatuses(jobID uuid.UUID, statuses []models.ApplicationStatus) ([]models.Application, error) {
	want := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		want[string(s)] = true
	}
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID && want[a.Status] {
			out = append(out, *a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AIScore > out[j].AIScore
	})
	return out, nil
}

func (r *fakeAppRepo) ExistsByJobAndEmail(jobID uuid.UUID, email string) (bool, error) {
	for _, a := range r.apps {
		if a.JobID == jobID && a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppRepo) UpdateStatus(id uuid.UUID, status models.ApplicationStatus) error {
	for _, a := range r.apps {
		if a.ID == id {
			a.Status = string(status)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeAppRepo) UpdateStatusBatch(ids []uuid.UUID, status models.ApplicationStatus) error {
	for _, id := range ids {
		for _, a := range r.apps {
			if a.ID == id {
				a.Status = string(status)
			}
		}
	}
	return nil
}

func (r *fakeAppRepo) SaveScreeningResult(id uuid.UUID, ann models.ScreeningAnnotation) error {
	r.savedScores[id] = ann
	for _, a := range r.apps {
		if a.ID == id {
			a.AIScore = ann.Score
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeAppRepo) statusOf(id uuid.UUID) string {
	for _, a := range r.apps {
		if a.ID == id {
			return a.Status
		}
	}
	return ""
}

type fakeInterviewRepo struct {
	interviews []*models.Interview
}

func (r *fakeInterviewRepo) Create(interview *models.Interview) error {
	r.interviews = append(r.interviews, interview)
	return nil
}

func (r *fakeInterviewRepo) FindByID(id uuid.UUID) (*models.Interview, error) {
	for _, iv := range r.interviews {
		if iv.ID == id {
			return iv, nil
		}
	}
	return nil, fmt.Errorf("interview %s: %w", id, repositories.ErrNotFound)
}

func (r *fakeInterviewRepo) FindByJob(jobID uuid.UUID) ([]models.Interview, error) {
	out := make([]models.Interview, 0, len(r.interviews))
	for _, iv := range r.interviews {
		out = append(out, *iv)
	}
	return out, nil
}

func (r *fakeInterviewRepo) FindByInterviewer(email string, from, to time.Time) ([]models.Interview, error) {
	var out []models.Interview
	for _, iv := range r.interviews {
		if iv.InterviewerEmail == email {
			out = append(out, *iv)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) Update(interview *models.Interview) error {
	for i, iv := range r.interviews {
		if iv.ID == interview.ID {
			r.interviews[i] = interview
			return nil
		}
	}
	return repositories.ErrNotFound
}

// fakeGemini replays canned responses in order; a non-nil error in a slot
// makes that call fail.
type fakeGemini struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (g *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	i := g.calls
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", fmt.Errorf("fakeGemini: no response configured for call %d", i)
}

type fakeExtractor struct {
	texts map[string]string
}

func (e *fakeExtractor) ExtractText(ref string) string {
	return e.texts[ref]
}

// fakeScorer maps a CV text to a fixed score.
type fakeScorer struct {
	scores map[string]float64
	calls  int
}

func (s *fakeScorer) Score(ctx context.Context, cvText string, job *models.Job) models.ScreeningAnnotation {
	s.calls++
	return models.ScreeningAnnotation{
		Score:         s.scores[cvText],
		Summary:       "scored " + cvText,
		SkillsMatched: []string{},
	}
}

// fakeMailer records every send; addresses in fail are reported as failed.
type fakeMailer struct {
	fail        map[string]bool
	shortlisted []string
	invitations []string
	rejections  []string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{fail: make(map[string]bool)}
}

func (m *fakeMailer) SendShortlistNotification(app *models.Application, job *models.Job) bool {
	m.shortlisted = append(m.shortlisted, app.Email)
	return !m.fail[app.Email]
}

func (m *fakeMailer) SendInterviewInvitation(app *models.Application, interview *models.Interview, job *models.Job) bool {
	m.invitations = append(m.invitations, app.Email)
	return !m.fail[app.Email]
}

func (m *fakeMailer) SendRejection(app *models.Application, job *models.Job) bool {
	m.rejections = append(m.rejections, app.Email)
	return !m.fail[app.Email]
}

func (m *fakeMailer) SendBulkShortlistNotifications(apps []models.Application, job *models.Job) BulkEmailResult {
	var result BulkEmailResult
	for i := range apps {
		if m.SendShortlistNotification(&apps[i], job) {
			result.Success++
			result.Emails = append(result.Emails, EmailStatus{Email: apps[i].Email, Status: "sent"})
		} else {
			result.Failed++
			result.Emails = append(result.Emails, EmailStatus{Email: apps[i].Email, Status: "failed"})
		}
	}
	return result
}

func (m *fakeMailer) Configured() bool { return true }

func testJob() *models.Job {
	return &models.Job{
		ID:              uuid.New(),
		Title:           "Backend Engineer",
		Department:      "Engineering",
		Description:     "Build backend services",
		Requirements:    "Go, PostgreSQL, Docker",
		ExperienceLevel: "mid",
		IsActive:        true,
		IsPublished:     true,
	}
}

func testApplication(jobID uuid.UUID, name, email string, appliedAt time.Time) *models.Application {
	return &models.Application{
		ID:        uuid.New(),
		JobID:     jobID,
		FullName:  name,
		Email:     email,
		Status:    string(models.StatusPending),
		AppliedAt: appliedAt,
	}
}
