package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentgrid/mock-interview/internal/models"
)

type ProctorRepository interface {
	Upsert(sessionID uuid.UUID, status, reason string) error
	FindBySession(sessionID uuid.UUID) (*models.ProctorStatus, error)
}

type proctorRepository struct {
	db *gorm.DB
}

func NewProctorRepository(db *gorm.DB) ProctorRepository {
	return &proctorRepository{db: db}
}

func (r *proctorRepository) Upsert(sessionID uuid.UUID, status, reason string) error {
	var existing models.ProctorStatus
	err := r.db.Where("session_id = ?", sessionID).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		row := models.ProctorStatus{
			ID:        uuid.New(),
			SessionID: sessionID,
			Status:    status,
			Reason:    reason,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := r.db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create proctor status: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up proctor status: %w", err)
	}

	result := r.db.Model(&models.ProctorStatus{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":     status,
			"reason":     reason,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update proctor status: %w", result.Error)
	}
	return nil
}

func (r *proctorRepository) FindBySession(sessionID uuid.UUID) (*models.ProctorStatus, error) {
	var row models.ProctorStatus
	if err := r.db.Where("session_id = ?", sessionID).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to find proctor status: %w", err)
	}
	return &row, nil
}
