package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"talentgrid/mock-interview/internal/config"
	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
	"talentgrid/mock-interview/internal/services"
)

func newInterviewTestApp(t *testing.T) (*fiber.App, repositories.InterviewRepository, uuid.UUID) {
	t.Helper()

	db := newHandlerTestDB(t)
	interviewRepo := repositories.NewInterviewRepository(db)
	candidateRepo := repositories.NewCandidateRepository(db)
	proctorService := services.NewProctorService(repositories.NewProctorRepository(db))

	session := &models.InterviewSession{
		ID:           uuid.New(),
		CandidateID:  uuid.New(),
		Position:     "Backend Engineer",
		Status:       models.StatusInProgress,
		Transcript:   datatypes.JSON("[]"),
		RoundResults: datatypes.JSON("{}"),
	}
	if err := interviewRepo.Create(session); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	handler := NewInterviewHandler(
		config.InterviewConfig{},
		interviewRepo,
		candidateRepo,
		proctorService,
		nil,
		nil,
		nil,
	)

	app := fiber.New()
	app.Post("/api/v1/interviews/:id/answer", handler.HandleSubmitAnswer)
	app.Post("/api/v1/interviews/:id/terminate", handler.HandleTerminate)
	return app, interviewRepo, session.ID
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestHandleTerminateManual(t *testing.T) {
	app, repo, sessionID := newInterviewTestApp(t)

	status, body := postJSON(t, app, "/api/v1/interviews/"+sessionID.String()+"/terminate",
		map[string]string{"reason": "candidate withdrew"})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if body["status"] != string(models.StatusTerminatedManual) {
		t.Errorf("expected TERMINATED_MANUAL, got %v", body["status"])
	}
	if body["reason"] != "candidate withdrew" {
		t.Errorf("unexpected reason %v", body["reason"])
	}

	session, err := repo.FindByID(sessionID)
	if err != nil {
		t.Fatalf("failed to reload session: %v", err)
	}
	if session.Status != models.StatusTerminatedManual {
		t.Errorf("expected persisted TERMINATED_MANUAL, got %s", session.Status)
	}

	// A second terminate hits an already-terminal row.
	status, _ = postJSON(t, app, "/api/v1/interviews/"+sessionID.String()+"/terminate",
		map[string]string{"reason": "again"})
	if status != fiber.StatusConflict {
		t.Errorf("expected 409 on double terminate, got %d", status)
	}
}

func TestHandleSubmitAnswerOnTerminalSession(t *testing.T) {
	app, _, sessionID := newInterviewTestApp(t)

	postJSON(t, app, "/api/v1/interviews/"+sessionID.String()+"/terminate",
		map[string]string{"reason": "cancelled"})

	status, body := postJSON(t, app, "/api/v1/interviews/"+sessionID.String()+"/answer",
		map[string]string{"answer_text": "too late"})

	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 for a terminal session, got %d", status)
	}
	if body["status"] != string(models.StatusTerminatedManual) {
		t.Errorf("conflict body must carry the terminal status, got %v", body["status"])
	}
	if body["reason"] != "cancelled" {
		t.Errorf("conflict body must carry the stored reason, got %v", body["reason"])
	}
}

func TestHandleSubmitAnswerUnknownSession(t *testing.T) {
	app, _, _ := newInterviewTestApp(t)

	status, _ := postJSON(t, app, "/api/v1/interviews/"+uuid.New().String()+"/answer",
		map[string]string{"answer_text": "hello"})
	if status != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}

	status, _ = postJSON(t, app, "/api/v1/interviews/not-a-uuid/answer",
		map[string]string{"answer_text": "hello"})
	if status != fiber.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", status)
	}
}
