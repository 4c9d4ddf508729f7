package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
	"evalyn/hr-agent/internal/services"
)

type ApplicationHandler struct {
	jobRepo     repositories.JobRepository
	appRepo     repositories.ApplicationRepository
	blob        services.BlobService
	storage     services.StorageService
	extractor   services.ExtractorService
	screener    services.ScreenerService
	mailer      services.EmailService
	skillGap    services.SkillGapService
	bias        services.BiasService
	maxFileSize int64
}

func NewApplicationHandler(
	jobRepo repositories.JobRepository,
	appRepo repositories.ApplicationRepository,
	blob services.BlobService,
	storage services.StorageService,
	extractor services.ExtractorService,
	screener services.ScreenerService,
	mailer services.EmailService,
	skillGap services.SkillGapService,
	bias services.BiasService,
	maxFileSize int64,
) *ApplicationHandler {
	return &ApplicationHandler{
		jobRepo:     jobRepo,
		appRepo:     appRepo,
		blob:        blob,
		storage:     storage,
		extractor:   extractor,
		screener:    screener,
		mailer:      mailer,
		skillGap:    skillGap,
		bias:        bias,
		maxFileSize: maxFileSize,
	}
}

// HandleApply handles POST /applications/apply, a multipart form with the
// target job_id, the candidate's details and a "resume" file.
func (h *ApplicationHandler) HandleApply(c *fiber.Ctx) error {
	var req models.ApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationError(err),
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job_id format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch job",
		})
	}

	if !job.AcceptingApplications() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This job is not accepting applications",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	exists, err := h.appRepo.ExistsByJobAndEmail(jobID, email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check existing applications",
		})
	}
	if exists {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You have already applied for this position",
		})
	}

	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	ext := strings.ToLower(filepath.Ext(resumeFile.Filename))
	if !services.ValidResumeExtension(ext) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only PDF, DOC and DOCX resumes are accepted",
		})
	}

	if resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	data, err := readMultipartFile(resumeFile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read resume file",
		})
	}

	resumeURL, cvFilePath := h.storeResume(req.FullName, ext, data)
	if resumeURL == "" && cvFilePath == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store resume file",
		})
	}

	app := &models.Application{
		ID:           uuid.New(),
		JobID:        jobID,
		FullName:     req.FullName,
		Email:        email,
		Phone:        req.Phone,
		LinkedinURL:  req.LinkedinURL,
		PortfolioURL: req.PortfolioURL,
		ResumeURL:    resumeURL,
		CVFilePath:   cvFilePath,
		CoverLetter:  req.CoverLetter,
		Status:       string(models.StatusPending),
		AppliedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	app.CVText = h.extractor.ExtractText(app.ResumeRef())

	if err := h.appRepo.Create(app); err != nil {
		if cvFilePath != "" {
			h.storage.DeleteFile(filepath.Base(cvFilePath))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save application",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":        "Application submitted successfully",
		"application_id": app.ID.String(),
		"status":         app.Status,
	})
}

// storeResume tries blob storage first and falls back to local disk. Exactly
// one of the returned references is non-empty on success.
func (h *ApplicationHandler) storeResume(fullName, ext string, data []byte) (resumeURL, cvFilePath string) {
	filename := h.storage.ResumeFilename(fullName, ext)

	if h.blob.Configured() {
		url, err := h.blob.Upload(data, filename, contentTypeForExt(ext))
		if err == nil {
			return url, ""
		}
		log.Printf("⚠️ Blob upload failed, falling back to local disk: %v", err)
	}

	path, err := h.storage.SaveBytes(filename, data)
	if err != nil {
		log.Printf("❌ Failed to save resume locally: %v", err)
		return "", ""
	}
	return "", path
}

// HandleListByJob handles GET /applications/job/:jobId with an optional
// ?status= filter.
func (h *ApplicationHandler) HandleListByJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	status := c.Query("status")
	if status != "" && !models.ValidStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown status filter",
		})
	}

	apps, err := h.appRepo.FindByJob(jobID, status)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list applications",
		})
	}

	return c.JSON(fiber.Map{
		"applications": apps,
		"total":        len(apps),
	})
}

// HandleGet handles GET /applications/:id
func (h *ApplicationHandler) HandleGet(c *fiber.Ctx) error {
	app, ok := h.loadApplication(c)
	if !ok {
		return nil
	}
	return c.JSON(app)
}

// HandleUpdateStatus handles PUT /applications/:id/status
func (h *ApplicationHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application ID format",
		})
	}

	var req models.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if !models.ValidStatus(req.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown application status",
		})
	}

	if err := h.appRepo.UpdateStatus(appID, models.ApplicationStatus(req.Status)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Application not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update application status",
		})
	}

	return c.JSON(fiber.Map{
		"message":        "Status updated",
		"application_id": appID.String(),
		"status":         req.Status,
	})
}

// HandleScreen handles POST /applications/job/:jobId/screen. Runs
// synchronously; slow jobs are bounded by the server write timeout.
func (h *ApplicationHandler) HandleScreen(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	topN := 0
	if raw := c.Query("top_n"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "top_n must be a positive integer",
			})
		}
	}

	scored, err := h.screener.Screen(c.Context(), jobID, topN)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Screening failed",
		})
	}

	resp := models.ScreeningResultResponse{
		JobID:         jobID.String(),
		Screened:      len(scored),
		TopCandidates: make([]models.ScreenedCandidate, 0, len(scored)),
	}
	for _, sa := range scored {
		if sa.Application.Status == string(models.StatusShortlisted) {
			resp.Shortlisted++
		}
		resp.TopCandidates = append(resp.TopCandidates, models.ScreenedCandidate{
			ApplicationID: sa.Application.ID.String(),
			FullName:      sa.Application.FullName,
			Email:         sa.Application.Email,
			Status:        sa.Application.Status,
			Annotation:    sa.Annotation,
		})
	}

	return c.JSON(resp)
}

// HandleNotifyShortlisted handles POST /applications/job/:jobId/notify-shortlisted.
// Sends congratulation emails to the shortlist and advances everyone to
// round1_passed so a re-run never emails the same candidates twice.
func (h *ApplicationHandler) HandleNotifyShortlisted(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	job, err := h.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch job",
		})
	}

	apps, err := h.appRepo.FindByJobInStatuses(jobID, []models.ApplicationStatus{models.StatusShortlisted})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list shortlisted candidates",
		})
	}

	if len(apps) == 0 {
		return c.JSON(models.NotifyResultResponse{JobID: jobID.String()})
	}

	result := h.mailer.SendBulkShortlistNotifications(apps, job)

	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
	}
	if err := h.appRepo.UpdateStatusBatch(ids, models.StatusRound1Passed); err != nil {
		log.Printf("⚠️ Failed to advance notified candidates: %v", err)
	}

	return c.JSON(models.NotifyResultResponse{
		JobID:    jobID.String(),
		Notified: result.Success,
		Failed:   result.Failed,
	})
}

// HandleSkillGap handles GET /applications/:id/skill-gap
func (h *ApplicationHandler) HandleSkillGap(c *fiber.Ctx) error {
	app, ok := h.loadApplication(c)
	if !ok {
		return nil
	}

	job, err := h.jobRepo.FindByID(app.JobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch job",
		})
	}

	report, err := h.skillGap.Analyze(c.Context(), app, job)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleBiasCheck handles POST /applications/:id/bias-check
func (h *ApplicationHandler) HandleBiasCheck(c *fiber.Ctx) error {
	app, ok := h.loadApplication(c)
	if !ok {
		return nil
	}

	job, err := h.jobRepo.FindByID(app.JobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch job",
		})
	}

	report, err := h.bias.Check(c.Context(), app, job)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// loadApplication parses the :id param and fetches the row, writing the error
// response itself when something is wrong.
func (h *ApplicationHandler) loadApplication(c *fiber.Ctx) (*models.Application, bool) {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application ID format",
		})
		return nil, false
	}

	app, err := h.appRepo.FindByID(appID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Application not found",
			})
		} else {
			c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch application",
			})
		}
		return nil, false
	}
	return app, true
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
