package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
	"evalyn/hr-agent/internal/services"
)

type InterviewHandler struct {
	interviewRepo repositories.InterviewRepository
	scheduler     services.SchedulerService

	defaultDuration int
	defaultGap      int
	defaultSSEName  string
	defaultSSEEmail string
}

func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	scheduler services.SchedulerService,
	defaultDuration, defaultGap int,
	defaultSSEName, defaultSSEEmail string,
) *InterviewHandler {
	return &InterviewHandler{
		interviewRepo:   interviewRepo,
		scheduler:       scheduler,
		defaultDuration: defaultDuration,
		defaultGap:      defaultGap,
		defaultSSEName:  defaultSSEName,
		defaultSSEEmail: defaultSSEEmail,
	}
}

// HandleSchedule handles POST /interviews
func (h *InterviewHandler) HandleSchedule(c *fiber.Ctx) error {
	var req models.InterviewRequest
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

	appID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid application_id format",
		})
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = h.defaultDuration
	}

	interview, err := h.scheduler.ScheduleSingle(c.Context(), services.SingleScheduleParams{
		ApplicationID:    appID,
		Round:            req.Round,
		InterviewerName:  req.InterviewerName,
		InterviewerEmail: req.InterviewerEmail,
		ScheduledAt:      req.ScheduledAt,
		DurationMinutes:  duration,
		MeetingLink:      req.MeetingLink,
		Location:         req.Location,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Application not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to schedule interview",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(interview)
}

// HandleBulkSchedule handles POST /interviews/bulk-schedule. Candidates are
// booked back to back starting at start_at, or 09:00 on the next business
// day when no start is given.
func (h *InterviewHandler) HandleBulkSchedule(c *fiber.Ctx) error {
	var req models.BulkScheduleRequest
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

	p := services.BulkScheduleParams{
		InterviewerName:  req.InterviewerName,
		InterviewerEmail: req.InterviewerEmail,
		StartAt:          services.NextBusinessMorning(time.Now()),
		DurationMinutes:  req.DurationMinutes,
		GapMinutes:       req.GapMinutes,
		MeetingLinkBase:  req.MeetingLinkBase,
	}
	if req.StartAt != nil {
		p.StartAt = *req.StartAt
	}
	if p.InterviewerName == "" {
		p.InterviewerName = h.defaultSSEName
	}
	if p.InterviewerEmail == "" {
		p.InterviewerEmail = h.defaultSSEEmail
	}
	if p.DurationMinutes == 0 {
		p.DurationMinutes = h.defaultDuration
	}
	if p.GapMinutes == 0 {
		p.GapMinutes = h.defaultGap
	}

	interviews, err := h.scheduler.ScheduleBulk(c.Context(), jobID, p)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to schedule interviews",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"job_id":     jobID.String(),
		"scheduled":  len(interviews),
		"interviews": interviews,
	})
}

// HandleReschedule handles PUT /interviews/:id/reschedule
func (h *InterviewHandler) HandleReschedule(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.RescheduleRequest
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

	interview, err := h.scheduler.Reschedule(c.Context(), interviewID, req.ScheduledAt, req.MeetingLink)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reschedule interview",
		})
	}

	return c.JSON(interview)
}

// HandleComplete handles PUT /interviews/:id/complete
func (h *InterviewHandler) HandleComplete(c *fiber.Ctx) error {
	interviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.CompleteInterviewRequest
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

	interview, err := h.scheduler.Complete(c.Context(), interviewID, req.Feedback, req.Rating, req.Passed)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Interview not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete interview",
		})
	}

	return c.JSON(interview)
}

// HandleListByJob handles GET /interviews/job/:jobId
func (h *InterviewHandler) HandleListByJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid job ID format",
		})
	}

	interviews, err := h.interviewRepo.FindByJob(jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list interviews",
		})
	}

	return c.JSON(fiber.Map{
		"interviews": interviews,
		"total":      len(interviews),
	})
}
