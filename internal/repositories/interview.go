package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindActiveByApplication(applicationID uuid.UUID) (*models.Interview, error)
	// Complete and Cancel guard on SCHEDULED so a raced double completion
	// surfaces as a conflict instead of a silent overwrite.
	Complete(id uuid.UUID, score int, note string) error
	Cancel(id uuid.UUID) error
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	if err := r.db.Where("id = ?", id).First(&interview).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("interview not found")
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) FindActiveByApplication(applicationID uuid.UUID) (*models.Interview, error) {
	var interview models.Interview
	err := r.db.Where("application_id = ? AND status = ?", applicationID, models.InterviewScheduled).
		First(&interview).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("no active interview")
		}
		return nil, fmt.Errorf("failed to find interview: %w", err)
	}
	return &interview, nil
}

func (r *interviewRepository) Complete(id uuid.UUID, score int, note string) error {
	return r.guardedUpdate(id, map[string]interface{}{
		"status": models.InterviewCompleted,
		"score":  score,
		"note":   note,
	})
}

func (r *interviewRepository) Cancel(id uuid.UUID) error {
	return r.guardedUpdate(id, map[string]interface{}{
		"status": models.InterviewCancelled,
	})
}

func (r *interviewRepository) guardedUpdate(id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&models.Interview{}).
		Where("id = ? AND status = ?", id, models.InterviewScheduled).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update interview: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.InvalidTransition("interview is not scheduled")
	}
	return nil
}
