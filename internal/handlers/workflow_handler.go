package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"evalyn/hr-agent/internal/models"
	"evalyn/hr-agent/internal/repositories"
	"evalyn/hr-agent/internal/services"
)

type WorkflowHandler struct {
	workflow services.WorkflowService
}

func NewWorkflowHandler(workflow services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflow: workflow}
}

// HandleRun handles POST /hr-automation/run-workflow. The whole pipeline runs in this
// request: screening, notification emails, then interview scheduling.
func (h *WorkflowHandler) HandleRun(c *fiber.Ctx) error {
	var req models.WorkflowRequest
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

	result, err := h.workflow.Run(c.Context(), jobID, services.WorkflowParams{
		SSEName:          req.SSEName,
		SSEEmail:         req.SSEEmail,
		InterviewStartAt: req.InterviewStartAt,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Workflow failed",
		})
	}

	return c.JSON(result)
}
