package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"talentgrid/mock-interview/internal/models"
)

type InterviewRepository interface {
	Create(session *models.InterviewSession) error
	FindByID(id uuid.UUID) (*models.InterviewSession, error)
	Update(id uuid.UUID, data *SessionUpdateData) error
	Complete(id uuid.UUID, data *CompletionData) error
	Terminate(id uuid.UUID, status models.InterviewStatus, reason string) error
}

// SessionUpdateData carries a partial update of a live session. Nil
// fields are left untouched. Cursor fields travel in the same UPDATE as
// the documents they describe, so a crashed request never leaves the
// row and the cursor out of sync.
type SessionUpdateData struct {
	Status            *models.InterviewStatus
	QuestionBank      datatypes.JSON
	Specializations   datatypes.JSON
	Transcript        datatypes.JSON
	RoundResults      datatypes.JSON
	CurrentRound      *int
	CurrentQuestion   *int
	RoundStartedAt    *time.Time
	RoundDurationSecs *int
	StartedAt         *time.Time
}

type CompletionData struct {
	Transcript        datatypes.JSON
	RoundResults      datatypes.JSON
	ReadinessScore    int
	LanguageScore     *int
	LanguageNarrative *string
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

// liveStatuses are the only states a session may be mutated in; once
// terminal, a row is read-only.
var liveStatuses = []models.InterviewStatus{models.StatusScheduled, models.StatusInProgress}

func (r *interviewRepository) Create(session *models.InterviewSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("failed to create interview session: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("interview session not found")
		}
		return nil, fmt.Errorf("failed to find interview session: %w", err)
	}
	return &session, nil
}

func (r *interviewRepository) Update(id uuid.UUID, data *SessionUpdateData) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}

	if data.Status != nil {
		updates["status"] = *data.Status
	}
	if data.QuestionBank != nil {
		updates["question_bank"] = data.QuestionBank
	}
	if data.Specializations != nil {
		updates["specializations"] = data.Specializations
	}
	if data.Transcript != nil {
		updates["transcript"] = data.Transcript
	}
	if data.RoundResults != nil {
		updates["round_results"] = data.RoundResults
	}
	if data.CurrentRound != nil {
		updates["current_round"] = *data.CurrentRound
	}
	if data.CurrentQuestion != nil {
		updates["current_question"] = *data.CurrentQuestion
	}
	if data.RoundStartedAt != nil {
		updates["round_started_at"] = *data.RoundStartedAt
	}
	if data.RoundDurationSecs != nil {
		updates["round_duration_secs"] = *data.RoundDurationSecs
	}
	if data.StartedAt != nil {
		updates["started_at"] = *data.StartedAt
	}

	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ? AND status IN ?", id, liveStatuses).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update interview session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session not found or already terminal")
	}
	return nil
}

func (r *interviewRepository) Complete(id uuid.UUID, data *CompletionData) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":          models.StatusCompleted,
		"readiness_score": data.ReadinessScore,
		"ended_at":        now,
		"updated_at":      now,
	}

	if data.Transcript != nil {
		updates["transcript"] = data.Transcript
	}
	if data.RoundResults != nil {
		updates["round_results"] = data.RoundResults
	}
	if data.LanguageScore != nil {
		updates["language_score"] = *data.LanguageScore
	}
	if data.LanguageNarrative != nil {
		updates["language_narrative"] = *data.LanguageNarrative
	}

	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ? AND status IN ?", id, liveStatuses).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to complete interview session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session not found or already terminal")
	}
	return nil
}

func (r *interviewRepository) Terminate(id uuid.UUID, status models.InterviewStatus, reason string) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot terminate with non-terminal status %s", status)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":             status,
		"termination_reason": reason,
		"ended_at":           now,
		"updated_at":         now,
	}
	if status == models.StatusTerminatedMalpractice {
		updates["malpractice_flag"] = true
		updates["malpractice_reason"] = reason
	}

	result := r.db.Model(&models.InterviewSession{}).
		Where("id = ? AND status IN ?", id, liveStatuses).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to terminate interview session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("interview session not found or already terminal")
	}
	return nil
}
