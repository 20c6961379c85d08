package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
	"talentgrid/mock-interview/internal/services"
)

// ProctorHandler receives status updates from the external
// video-analysis process. Each session has its own status row; the
// engine reads it on the next answer submission.
type ProctorHandler struct {
	interviewRepo  repositories.InterviewRepository
	proctorService services.ProctorService
}

func NewProctorHandler(
	interviewRepo repositories.InterviewRepository,
	proctorService services.ProctorService,
) *ProctorHandler {
	return &ProctorHandler{
		interviewRepo:  interviewRepo,
		proctorService: proctorService,
	}
}

// HandleUpdate handles POST /interviews/:id/proctor.
func (h *ProctorHandler) HandleUpdate(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.ProctorUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status is required",
		})
	}

	if _, err := h.interviewRepo.FindByID(sessionID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	if err := h.proctorService.Update(sessionID, req.Status, req.Reason); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update proctor status",
		})
	}

	return c.JSON(fiber.Map{
		"session_id":  sessionID.String(),
		"status":      req.Status,
		"malpractice": models.IsMalpracticeStatus(req.Status),
	})
}
