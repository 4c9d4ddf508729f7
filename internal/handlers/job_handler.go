package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
)

type JobHandler struct {
	jobRepo repositories.JobRepository
}

func NewJobHandler(jobRepo repositories.JobRepository) *JobHandler {
	return &JobHandler{jobRepo: jobRepo}
}

// HandleCreate handles POST /jobs
func (h *JobHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JobRequest
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

	job := &models.Job{
		ID:                 uuid.New(),
		Title:              req.Title,
		Department:         req.Department,
		Location:           req.Location,
		JobType:            req.JobType,
		ExperienceLevel:    req.ExperienceLevel,
		MinExperienceYears: req.MinExperienceYears,
		MaxExperienceYears: req.MaxExperienceYears,
		SalaryMin:          req.SalaryMin,
		SalaryMax:          req.SalaryMax,
		Description:        req.Description,
		Requirements:       req.Requirements,
		Responsibilities:   req.Responsibilities,
		Benefits:           req.Benefits,
		IsActive:           true,
		Deadline:           req.Deadline,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	if err := h.jobRepo.Create(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create job",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

// HandleList handles GET /jobs
func (h *JobHandler) HandleList(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	return c.JSON(fiber.Map{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// HandleListPublished handles GET /jobs/public/careers, the public listing.
func (h *JobHandler) HandleListPublished(c *fiber.Ctx) error {
	jobs, err := h.jobRepo.FindPublished()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list jobs",
		})
	}

	open := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.AcceptingApplications() {
			open = append(open, job)
		}
	}

	return c.JSON(fiber.Map{
		"jobs":  open,
		"total": len(open),
	})
}

// HandleGet handles GET /jobs/:id
func (h *JobHandler) HandleGet(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
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

	return c.JSON(job)
}

// HandleUpdate handles PUT /jobs/:id
func (h *JobHandler) HandleUpdate(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
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

	var req models.JobRequest
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

	job.Title = req.Title
	job.Department = req.Department
	job.Location = req.Location
	job.JobType = req.JobType
	job.ExperienceLevel = req.ExperienceLevel
	job.MinExperienceYears = req.MinExperienceYears
	job.MaxExperienceYears = req.MaxExperienceYears
	job.SalaryMin = req.SalaryMin
	job.SalaryMax = req.SalaryMax
	job.Description = req.Description
	job.Requirements = req.Requirements
	job.Responsibilities = req.Responsibilities
	job.Benefits = req.Benefits
	job.Deadline = req.Deadline
	job.UpdatedAt = time.Now()

	if err := h.jobRepo.Update(job); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update job",
		})
	}

	return c.JSON(job)
}

// HandleDelete handles DELETE /jobs/:id
func (h *JobHandler) HandleDelete(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	if err := h.jobRepo.Delete(jobID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete job",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job deleted",
	})
}

// HandlePublish handles POST /jobs/:id/publish
func (h *JobHandler) HandlePublish(c *fiber.Ctx) error {
	return h.setPublished(c, true, "Job published")
}

// HandleUnpublish handles POST /jobs/:id/unpublish
func (h *JobHandler) HandleUnpublish(c *fiber.Ctx) error {
	return h.setPublished(c, false, "Job unpublished")
}

func (h *JobHandler) setPublished(c *fiber.Ctx, published bool, message string) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	if err := h.jobRepo.SetPublished(jobID, published); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update job",
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
		"job_id":  jobID.String(),
	})
}
