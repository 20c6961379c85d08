package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"talentgrid/mock-interview/internal/config"
	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
	"talentgrid/mock-interview/internal/services"
)

// InterviewHandler is the session driver: it bridges the stateless
// request cycle to the engine, rebuilding the engine from the session
// row on every call and persisting every mutation before responding.
type InterviewHandler struct {
	cfg            config.InterviewConfig
	interviewRepo  repositories.InterviewRepository
	candidateRepo  repositories.CandidateRepository
	proctorService services.ProctorService
	generator      services.QuestionGenerator
	scorer         services.AnswerScorer
	llm            services.GeminiService
}

func NewInterviewHandler(
	cfg config.InterviewConfig,
	interviewRepo repositories.InterviewRepository,
	candidateRepo repositories.CandidateRepository,
	proctorService services.ProctorService,
	generator services.QuestionGenerator,
	scorer services.AnswerScorer,
	llm services.GeminiService,
) *InterviewHandler {
	return &InterviewHandler{
		cfg:            cfg,
		interviewRepo:  interviewRepo,
		candidateRepo:  candidateRepo,
		proctorService: proctorService,
		generator:      generator,
		scorer:         scorer,
		llm:            llm,
	}
}

func (h *InterviewHandler) buildEngine(session *models.InterviewSession) (*services.InterviewEngine, error) {
	return services.NewInterviewEngine(
		session,
		h.cfg,
		h.interviewRepo,
		h.proctorService,
		h.generator,
		h.scorer,
		h.llm,
	)
}

// HandleStart handles POST /interviews/start. Question generation for
// every round runs synchronously here; it is the one long-latency call
// in the flow.
func (h *InterviewHandler) HandleStart(c *fiber.Ctx) error {
	var req models.StartInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate_id format",
		})
	}

	candidate, err := h.candidateRepo.FindByID(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	if candidate.ResumeStatus != models.ResumeReady || candidate.ResumeText == "" {
		return c.Status(fiber.StatusPreconditionFailed).JSON(fiber.Map{
			"error": "No resume on file for this candidate",
		})
	}

	session := &models.InterviewSession{
		ID:                uuid.New(),
		CandidateID:       candidate.ID,
		Position:          candidate.Position,
		ExperienceSummary: candidate.ResumeText,
		Status:            models.StatusScheduled,
		Transcript:        datatypes.JSON("[]"),
		RoundResults:      datatypes.JSON("{}"),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := h.interviewRepo.Create(session); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create interview session",
		})
	}

	engine, err := h.buildEngine(session)
	if err != nil {
		return h.terminateOnError(c, session.ID, err)
	}

	result, err := engine.Begin(c.Context())
	if err != nil {
		return h.terminateOnError(c, session.ID, err)
	}

	if result.Termination != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result.Termination)
	}
	return c.JSON(result.Question)
}

// HandleSubmitAnswer handles POST /interviews/:id/answer.
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	var req models.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	session, err := h.interviewRepo.FindByID(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	if session.Status.Terminal() {
		reason := ""
		if session.TerminationReason != nil {
			reason = *session.TerminationReason
		}
		return c.Status(fiber.StatusConflict).JSON(models.TerminationResponse{
			Status: string(session.Status),
			Reason: reason,
		})
	}

	engine, err := h.buildEngine(session)
	if err != nil {
		return h.terminateOnError(c, session.ID, err)
	}

	result, err := engine.SubmitAnswer(c.Context(), req.AnswerText)
	if err != nil {
		return h.terminateOnError(c, session.ID, err)
	}

	switch {
	case result.Completion != nil:
		return c.JSON(result.Completion)
	case result.Termination != nil:
		return c.JSON(result.Termination)
	default:
		return c.JSON(result.Question)
	}
}

// HandleTerminate handles POST /interviews/:id/terminate, the explicit
// manual cancellation.
func (h *InterviewHandler) HandleTerminate(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	reason := "terminated by request"
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err == nil && body.Reason != "" {
		reason = body.Reason
	}

	if err := h.interviewRepo.Terminate(sessionID, models.StatusTerminatedManual, reason); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.TerminationResponse{
		Status: string(models.StatusTerminatedManual),
		Reason: reason,
	})
}

// terminateOnError is the driver-boundary catch for unexpected
// failures: the session is marked TERMINATED_ERROR with the exception
// text as the stored reason, and the session ends. No retry.
func (h *InterviewHandler) terminateOnError(c *fiber.Ctx, sessionID uuid.UUID, cause error) error {
	log.Printf("❌ Interview %s failed: %v\n", sessionID, cause)

	if err := h.interviewRepo.Terminate(sessionID, models.StatusTerminatedError, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to mark interview %s as errored: %v\n", sessionID, err)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.TerminationResponse{
		Status: string(models.StatusTerminatedError),
		Reason: cause.Error(),
	})
}
