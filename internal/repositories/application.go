package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id uuid.UUID) (*models.Application, error)
	FindByCandidateAndJob(candidateID, jobID uuid.UUID) (*models.Application, error)
	ListByCandidate(candidateID uuid.UUID) ([]models.Application, error)
	ListByJob(jobID uuid.UUID) ([]models.Application, error)
	Timeline(id uuid.UUID) ([]models.TimelineEntry, error)

	// TransitionStatus moves the application from expected current status to
	// next and appends the matching timeline row, in one transaction. The
	// status write is guarded on the expected value; a concurrent writer
	// that got there first makes the guard miss and the call returns a
	// conflict with nothing written.
	TransitionStatus(id uuid.UUID, from, to models.ApplicationStatus, note string) error

	// BindChallenge attaches the challenge and moves the application to
	// TEST_SENT under the same status guard, in one transaction. A lost race
	// leaves no challenge bound.
	BindChallenge(id, challengeID uuid.UUID, from models.ApplicationStatus, note string) error

	SetMatching(id uuid.UUID, score int, reason string) error
	SetInterviewID(id uuid.UUID, interviewID *uuid.UUID) error
	SetTestScore(id uuid.UUID, score int) error
	SetInterviewScore(id uuid.UUID, score int) error
	AppendTimelineNote(id uuid.UUID, status models.ApplicationStatus, note string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *models.Application) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		entry := models.TimelineEntry{
			ID:            uuid.New(),
			ApplicationID: app.ID,
			Status:        app.Status,
			CreatedAt:     time.Now(),
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		// Two racing applies can both pass the service pre-check; the unique
		// index on (candidate_id, job_id) catches the loser here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.Conflict("already applied to this job")
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *applicationRepository) FindByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := r.db.Where("id = ?", id).First(&app).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("application not found")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) FindByCandidateAndJob(candidateID, jobID uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("candidate_id = ? AND job_id = ?", candidateID, jobID).First(&app).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("application not found")
		}
		return nil, fmt.Errorf("failed to find application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) ListByCandidate(candidateID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Where("candidate_id = ?", candidateID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) ListByJob(jobID uuid.UUID) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Where("job_id = ?", jobID).
		Order("matching_score DESC").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) Timeline(id uuid.UUID) ([]models.TimelineEntry, error) {
	var entries []models.TimelineEntry
	err := r.db.Where("application_id = ?", id).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}
	return entries, nil
}

func (r *applicationRepository) TransitionStatus(id uuid.UUID, from, to models.ApplicationStatus, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":     to,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return common.Conflict("application state changed concurrently")
		}
		entry := models.TimelineEntry{
			ID:            uuid.New(),
			ApplicationID: id,
			Status:        to,
			Note:          note,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append timeline: %w", err)
		}
		return nil
	})
}

func (r *applicationRepository) SetMatching(id uuid.UUID, score int, reason string) error {
	return r.updateFields(id, map[string]interface{}{
		"matching_score":  score,
		"matching_reason": reason,
	})
}

func (r *applicationRepository) BindChallenge(id, challengeID uuid.UUID, from models.ApplicationStatus, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", id, from).
			Updates(map[string]interface{}{
				"status":     models.StatusTestSent,
				"test_id":    challengeID,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to bind challenge: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return common.Conflict("application state changed concurrently")
		}
		entry := models.TimelineEntry{
			ID:            uuid.New(),
			ApplicationID: id,
			Status:        models.StatusTestSent,
			Note:          note,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to append timeline: %w", err)
		}
		return nil
	})
}

func (r *applicationRepository) SetInterviewID(id uuid.UUID, interviewID *uuid.UUID) error {
	return r.updateFields(id, map[string]interface{}{"interview_id": interviewID})
}

func (r *applicationRepository) SetTestScore(id uuid.UUID, score int) error {
	return r.updateFields(id, map[string]interface{}{"test_score": score})
}

func (r *applicationRepository) SetInterviewScore(id uuid.UUID, score int) error {
	return r.updateFields(id, map[string]interface{}{"interview_score": score})
}

// AppendTimelineNote records an event that does not move the stage, such as
// an interview evaluation. The status column stays untouched so the
// status-equals-last-entry invariant holds.
func (r *applicationRepository) AppendTimelineNote(id uuid.UUID, status models.ApplicationStatus, note string) error {
	entry := models.TimelineEntry{
		ID:            uuid.New(),
		ApplicationID: id,
		Status:        status,
		Note:          note,
		CreatedAt:     time.Now(),
	}
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append timeline note: %w", err)
	}
	return nil
}

func (r *applicationRepository) updateFields(id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update application: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.NotFound("application not found")
	}
	return nil
}
