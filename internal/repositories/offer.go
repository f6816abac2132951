package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

type OfferRepository interface {
	Create(offer *models.Offer) error
	FindByID(id uuid.UUID) (*models.Offer, error)
	FindByApplication(applicationID uuid.UUID) (*models.Offer, error)
	// Respond guards on PENDING; a second response loses the guard and
	// comes back as an invalid transition.
	Respond(id uuid.UUID, status models.OfferStatus) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(offer *models.Offer) error {
	if err := r.db.Create(offer).Error; err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (r *offerRepository) FindByID(id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.Where("id = ?", id).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("offer not found")
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) FindByApplication(applicationID uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.Where("application_id = ?", applicationID).First(&offer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("offer not found")
		}
		return nil, fmt.Errorf("failed to find offer: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) Respond(id uuid.UUID, status models.OfferStatus) error {
	result := r.db.Model(&models.Offer{}).
		Where("id = ? AND status = ?", id, models.OfferPending).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.InvalidTransition("offer is not pending")
	}
	return nil
}
