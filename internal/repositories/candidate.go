package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"talentgrid/mock-interview/internal/models"
)

type CandidateRepository interface {
	Create(candidate *models.CandidateProfile) error
	FindByID(id uuid.UUID) (*models.CandidateProfile, error)
	UpdateResumeText(id uuid.UUID, text string) error
	UpdateResumeStatus(id uuid.UUID, status models.ResumeStatus) error
	UpdateResumeError(id uuid.UUID, errorMsg string) error
	FindPendingResumes(limit int) ([]models.CandidateProfile, error)
}

type candidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

func (r *candidateRepository) Create(candidate *models.CandidateProfile) error {
	if err := r.db.Create(candidate).Error; err != nil {
		return fmt.Errorf("failed to create candidate profile: %w", err)
	}
	return nil
}

func (r *candidateRepository) FindByID(id uuid.UUID) (*models.CandidateProfile, error) {
	var candidate models.CandidateProfile
	if err := r.db.Where("id = ?", id).First(&candidate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("candidate profile not found")
		}
		return nil, fmt.Errorf("failed to find candidate profile: %w", err)
	}
	return &candidate, nil
}

func (r *candidateRepository) UpdateResumeText(id uuid.UUID, text string) error {
	result := r.db.Model(&models.CandidateProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resume_text": text,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume text: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate profile not found")
	}
	return nil
}

func (r *candidateRepository) UpdateResumeStatus(id uuid.UUID, status models.ResumeStatus) error {
	result := r.db.Model(&models.CandidateProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resume_status": status,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate profile not found")
	}
	return nil
}

func (r *candidateRepository) UpdateResumeError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.CandidateProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"resume_status": models.ResumeFailed,
			"resume_error":  errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update resume error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("candidate profile not found")
	}
	return nil
}

func (r *candidateRepository) FindPendingResumes(limit int) ([]models.CandidateProfile, error) {
	var candidates []models.CandidateProfile
	err := r.db.
		Where("resume_status = ?", models.ResumeQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&candidates).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending resumes: %w", err)
	}
	return candidates, nil
}
