package models

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewScheduled InterviewStatus = "SCHEDULED"
	InterviewCompleted InterviewStatus = "COMPLETED"
	InterviewCancelled InterviewStatus = "CANCELLED"
)

type Interview struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"application_id"`
	RecruiterID   uuid.UUID       `gorm:"type:uuid;not null" json:"recruiter_id"`
	InterviewerID uuid.UUID       `gorm:"type:uuid;not null;index" json:"interviewer_id"`
	ScheduledAt   time.Time       `gorm:"type:timestamp;not null" json:"scheduled_at"`
	MeetingLink   string          `gorm:"type:text" json:"meeting_link"`
	Status        InterviewStatus `gorm:"type:text;not null;default:'SCHEDULED'" json:"status"`
	Score         int             `gorm:"not null;default:0" json:"score"`
	Note          string          `gorm:"type:text" json:"note"`
	CreatedAt     time.Time       `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Interview) TableName() string {
	return "interviews"
}
