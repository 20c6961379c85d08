package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
)

type ReportHandler struct {
	interviewRepo repositories.InterviewRepository
}

func NewReportHandler(interviewRepo repositories.InterviewRepository) *ReportHandler {
	return &ReportHandler{
		interviewRepo: interviewRepo,
	}
}

// HandleGetReport handles GET /interviews/:id/report: the full
// persisted session with the JSON documents decoded.
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid interview ID format",
		})
	}

	session, err := h.interviewRepo.FindByID(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not found",
		})
	}

	response := models.ReportResponse{
		ID:                   session.ID.String(),
		CandidateID:          session.CandidateID.String(),
		Position:             session.Position,
		Status:               string(session.Status),
		Transcript:           []models.TranscriptEntry{},
		RoundResults:         map[string]models.RoundResult{},
		GlobalReadinessScore: session.ReadinessScore,
		LanguageScore:        session.LanguageScore,
		LanguageNarrative:    session.LanguageNarrative,
		MalpracticeFlag:      session.MalpracticeFlag,
		MalpracticeReason:    session.MalpracticeReason,
		TerminationReason:    session.TerminationReason,
	}

	if len(session.Specializations) > 0 {
		if err := json.Unmarshal(session.Specializations, &response.Specializations); err != nil {
			log.Printf("⚠️  Failed to decode specializations for interview %s: %v\n", sessionID, err)
		}
	}
	if len(session.QuestionBank) > 0 {
		var bank models.QuestionBank
		if err := json.Unmarshal(session.QuestionBank, &bank); err != nil {
			log.Printf("⚠️  Failed to decode question bank for interview %s: %v\n", sessionID, err)
		} else {
			response.QuestionBank = &bank
		}
	}
	if len(session.Transcript) > 0 {
		if err := json.Unmarshal(session.Transcript, &response.Transcript); err != nil {
			log.Printf("⚠️  Failed to decode transcript for interview %s: %v\n", sessionID, err)
		}
	}
	if len(session.RoundResults) > 0 {
		if err := json.Unmarshal(session.RoundResults, &response.RoundResults); err != nil {
			log.Printf("⚠️  Failed to decode round results for interview %s: %v\n", sessionID, err)
		}
	}

	if session.StartedAt != nil {
		started := session.StartedAt.Format(time.RFC3339)
		response.StartedAt = &started
	}
	if session.EndedAt != nil {
		ended := session.EndedAt.Format(time.RFC3339)
		response.EndedAt = &ended
	}

	return c.JSON(response)
}
