package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type InterviewStatus string

const (
	StatusScheduled             InterviewStatus = "SCHEDULED"
	StatusInProgress            InterviewStatus = "IN_PROGRESS"
	StatusCompleted             InterviewStatus = "COMPLETED"
	StatusTerminatedMalpractice InterviewStatus = "TERMINATED_MALPRACTICE"
	StatusTerminatedError       InterviewStatus = "TERMINATED_ERROR"
	StatusTerminatedManual      InterviewStatus = "TERMINATED_MANUAL"
)

// Terminal reports whether the status permits no further mutation.
func (s InterviewStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusTerminatedMalpractice, StatusTerminatedError, StatusTerminatedManual:
		return true
	}
	return false
}

// InterviewSession is the single source of truth for one mock interview
// attempt. The in-memory engine is a disposable projection of this row;
// the cursor columns are persisted together with every mutation so a
// session can always be rebuilt from the row alone.
type InterviewSession struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Position          string          `gorm:"type:text;not null" json:"position"`
	ExperienceSummary string          `gorm:"type:text" json:"experience_summary"`
	Specializations   datatypes.JSON  `gorm:"type:jsonb" json:"specializations"`
	Status            InterviewStatus `gorm:"not null;default:'SCHEDULED'" json:"status"`

	QuestionBank datatypes.JSON `gorm:"type:jsonb" json:"question_bank"`
	Transcript   datatypes.JSON `gorm:"type:jsonb" json:"transcript"`
	RoundResults datatypes.JSON `gorm:"type:jsonb" json:"round_results"`

	// Cursor: progress within the round sequence between requests.
	CurrentRound      int        `gorm:"not null;default:0" json:"current_round"`
	CurrentQuestion   int        `gorm:"not null;default:0" json:"current_question"`
	RoundStartedAt    *time.Time `json:"round_started_at,omitempty"`
	RoundDurationSecs int        `gorm:"not null;default:0" json:"round_duration_secs"`

	ReadinessScore    *int    `json:"readiness_score,omitempty"`
	LanguageScore     *int    `json:"language_score,omitempty"`
	LanguageNarrative *string `gorm:"type:text" json:"language_narrative,omitempty"`
	MalpracticeFlag   bool    `gorm:"not null;default:false" json:"malpractice_flag"`
	MalpracticeReason *string `gorm:"type:text" json:"malpractice_reason,omitempty"`
	TerminationReason *string `gorm:"type:text" json:"termination_reason,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Candidate CandidateProfile `gorm:"foreignKey:CandidateID" json:"-"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}
