package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

type JobRepository interface {
	FindByID(id uuid.UUID) (*models.Job, error)
	// GetOwner resolves the owning recruiter without loading the whole job.
	GetOwner(id uuid.UUID) (uuid.UUID, error)
}

type jobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) FindByID(id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("job not found")
		}
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return &job, nil
}

func (r *jobRepository) GetOwner(id uuid.UUID) (uuid.UUID, error) {
	var recruiterID uuid.UUID
	err := r.db.Model(&models.Job{}).
		Where("id = ?", id).
		Pluck("recruiter_id", &recruiterID).Error
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve job owner: %w", err)
	}
	if recruiterID == uuid.Nil {
		return uuid.Nil, common.NotFound("job not found")
	}
	return recruiterID, nil
}
