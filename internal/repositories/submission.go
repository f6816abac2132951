package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type SubmissionRepository interface {
	Create(submission *models.Submission) error
	ListByApplication(applicationID uuid.UUID) ([]models.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *models.Submission) error {
	if err := r.db.Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *submissionRepository) ListByApplication(applicationID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}
