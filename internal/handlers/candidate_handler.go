package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
	"talentgrid/mock-interview/internal/services"
)

type CandidateHandler struct {
	candidateRepo  repositories.CandidateRepository
	storageService services.StorageService
	worker         services.Worker
	maxFileSize    int64
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	storageService services.StorageService,
	worker services.Worker,
	maxFileSize int64,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo:  candidateRepo,
		storageService: storageService,
		worker:         worker,
		maxFileSize:    maxFileSize,
	}
}

// HandleCreate handles POST /candidates: multipart resume upload plus
// profile fields. The resume is ingested asynchronously; the profile is
// returned immediately with resume_status=queued.
func (h *CandidateHandler) HandleCreate(c *fiber.Ctx) error {
	fullName := c.FormValue("full_name")
	if fullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "full_name is required",
		})
	}

	position := c.FormValue("position")
	if position == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "position is required",
		})
	}

	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	if resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file too large",
		})
	}

	filename, filePath, err := h.storageService.SaveResume(resumeFile)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume file",
		})
	}

	candidate := &models.CandidateProfile{
		ID:             uuid.New(),
		FullName:       fullName,
		Email:          c.FormValue("email"),
		Position:       position,
		ResumeFileName: resumeFile.Filename,
		ResumeFilePath: filePath,
		ResumeStatus:   models.ResumeQueued,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := h.candidateRepo.Create(candidate); err != nil {
		// Cleanup uploaded file if database insert fails
		h.storageService.DeleteFile(filename)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create candidate profile",
		})
	}

	h.worker.EnqueueJob(candidate.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.CreateCandidateResponse{
		ID:           candidate.ID.String(),
		FullName:     candidate.FullName,
		Position:     candidate.Position,
		ResumeStatus: string(candidate.ResumeStatus),
	})
}

// HandleGet handles GET /candidates/:id, used to poll resume ingestion.
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	candidate, err := h.candidateRepo.FindByID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	return c.JSON(candidate)
}
