package models

import (
	"time"

	"github.com/google/uuid"
)

type ResumeStatus string

const (
	ResumeQueued     ResumeStatus = "queued"
	ResumeProcessing ResumeStatus = "processing"
	ResumeReady      ResumeStatus = "ready"
	ResumeFailed     ResumeStatus = "failed"
)

type CandidateProfile struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	FullName       string       `gorm:"type:text;not null" json:"full_name"`
	Email          string       `gorm:"type:text" json:"email"`
	Position       string       `gorm:"type:text;not null" json:"position"`
	ResumeFileName string       `gorm:"type:text" json:"resume_file_name"`
	ResumeFilePath string       `gorm:"type:text" json:"-"`
	ResumeText     string       `gorm:"type:text" json:"-"`
	ResumeStatus   ResumeStatus `gorm:"not null;default:'queued'" json:"resume_status"`
	ResumeError    *string      `gorm:"type:text" json:"resume_error,omitempty"`
	CreatedAt      time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}
