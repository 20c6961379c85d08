package services

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
)

// ProctorService is the read/write surface over the per-session
// proctoring mailbox. The video-analysis process writes through Update;
// the interview engine reads through Status once per answer submission.
type ProctorService interface {
	Status(sessionID uuid.UUID) (status string, reason string)
	Update(sessionID uuid.UUID, status, reason string) error
}

type proctorService struct {
	repo repositories.ProctorRepository
}

func NewProctorService(repo repositories.ProctorRepository) ProctorService {
	return &proctorService{repo: repo}
}

// Status implements ProctorService. A missing row means no signal has
// arrived yet, which reads as normal monitoring.
func (p *proctorService) Status(sessionID uuid.UUID) (string, string) {
	row, err := p.repo.FindBySession(sessionID)
	if err == gorm.ErrRecordNotFound {
		return models.ProctorMonitoring, ""
	}
	if err != nil {
		log.Printf("⚠️  Failed to read proctor status for session %s: %v\n", sessionID, err)
		return models.ProctorMonitoring, ""
	}
	return row.Status, row.Reason
}

// Update implements ProctorService.
func (p *proctorService) Update(sessionID uuid.UUID, status, reason string) error {
	return p.repo.Upsert(sessionID, status, reason)
}
