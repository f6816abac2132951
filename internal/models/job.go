package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"
	JobStatusPublished JobStatus = "PUBLISHED"
	JobStatusClosed    JobStatus = "CLOSED"
)

type Job struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;not null;index" json:"recruiter_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      JobStatus `gorm:"type:text;not null;default:'DRAFT'" json:"status"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
