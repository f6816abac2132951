package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

type ChallengeRepository interface {
	FindByID(id uuid.UUID) (*models.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) FindByID(id uuid.UUID) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := r.db.Where("id = ?", id).First(&challenge).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("challenge not found")
		}
		return nil, fmt.Errorf("failed to find challenge: %w", err)
	}
	return &challenge, nil
}
