package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
	"talentgrid/mock-interview/internal/services"
)

func newHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.CandidateProfile{}, &models.InterviewSession{}, &models.ProctorStatus{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newProctorTestApp(t *testing.T) (*fiber.App, *gorm.DB, uuid.UUID) {
	t.Helper()

	db := newHandlerTestDB(t)
	interviewRepo := repositories.NewInterviewRepository(db)
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

	handler := NewProctorHandler(interviewRepo, proctorService)

	app := fiber.New()
	app.Post("/api/v1/interviews/:id/proctor", handler.HandleUpdate)
	return app, db, session.ID
}

func postProctorUpdate(t *testing.T, app *fiber.App, sessionID string, body map[string]string) (int, map[string]interface{}) {
	t.Helper()

	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/v1/interviews/"+sessionID+"/proctor", bytes.NewReader(payload))
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

func TestProctorUpdateRecordsStatus(t *testing.T) {
	app, db, sessionID := newProctorTestApp(t)

	status, body := postProctorUpdate(t, app, sessionID.String(), map[string]string{
		"status": "TERMINATED_TAB_SWITCH",
		"reason": "browser focus lost",
	})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", status, body)
	}
	if body["malpractice"] != true {
		t.Errorf("TERMINATED_TAB_SWITCH must be flagged as malpractice, got %v", body["malpractice"])
	}

	var row models.ProctorStatus
	if err := db.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		t.Fatalf("proctor row not persisted: %v", err)
	}
	if row.Status != "TERMINATED_TAB_SWITCH" || row.Reason != "browser focus lost" {
		t.Errorf("unexpected persisted row %+v", row)
	}
}

func TestProctorUpdateNormalStatusNotMalpractice(t *testing.T) {
	app, _, sessionID := newProctorTestApp(t)

	status, body := postProctorUpdate(t, app, sessionID.String(), map[string]string{
		"status": models.ProctorNormalExit,
	})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body["malpractice"] != false {
		t.Errorf("TERMINATED_NORMAL must not be malpractice, got %v", body["malpractice"])
	}
}

func TestProctorUpdateValidation(t *testing.T) {
	app, _, sessionID := newProctorTestApp(t)

	if status, _ := postProctorUpdate(t, app, "not-a-uuid", map[string]string{"status": "MONITORING"}); status != fiber.StatusBadRequest {
		t.Errorf("invalid id must 400, got %d", status)
	}

	if status, _ := postProctorUpdate(t, app, uuid.New().String(), map[string]string{"status": "MONITORING"}); status != fiber.StatusNotFound {
		t.Errorf("unknown session must 404, got %d", status)
	}

	if status, _ := postProctorUpdate(t, app, sessionID.String(), map[string]string{}); status != fiber.StatusBadRequest {
		t.Errorf("missing status must 400, got %d", status)
	}
}
