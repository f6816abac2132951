package models

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "APPLIED"
	StatusScreened  ApplicationStatus = "SCREENED"
	StatusTestSent  ApplicationStatus = "TEST_SENT"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusOffer     ApplicationStatus = "OFFER"
	StatusHired     ApplicationStatus = "HIRED"
	StatusRejected  ApplicationStatus = "REJECTED"
)

// IsTerminal reports whether no further pipeline transition is accepted.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected
}

// Scores keeps the per-stage score components in one fixed shape. Each field
// is written only by the transition that owns it.
type Scores struct {
	TestScore      int `gorm:"column:test_score;default:0" json:"test_score"`
	InterviewScore int `gorm:"column:interview_score;default:0" json:"interview_score"`
}

type Application struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID          uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_candidate_job" json:"job_id"`
	CandidateID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_candidate_job" json:"candidate_id"`
	Status         ApplicationStatus `gorm:"type:text;not null;default:'APPLIED'" json:"status"`
	MatchingScore  int               `gorm:"not null;default:0" json:"matching_score"`
	MatchingReason string            `gorm:"type:text" json:"matching_reason"`
	Scores         Scores            `gorm:"embedded" json:"scores"`
	CVReference    string            `gorm:"type:text" json:"cv_reference"`
	TestID         *uuid.UUID        `gorm:"type:uuid" json:"test_id,omitempty"`
	InterviewID    *uuid.UUID        `gorm:"type:uuid" json:"interview_id,omitempty"`
	CreatedAt      time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"type:timestamp;default:now()" json:"updated_at"`

	Timeline []TimelineEntry `gorm:"foreignKey:ApplicationID" json:"timeline,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

// TimelineEntry is one row of an application's append-only stage history.
// Rows are only ever inserted, in the same transaction as the status change.
type TimelineEntry struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID         `gorm:"type:uuid;not null;index" json:"application_id"`
	Status        ApplicationStatus `gorm:"type:text;not null" json:"status"`
	Note          string            `gorm:"type:text" json:"note,omitempty"`
	CreatedAt     time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (TimelineEntry) TableName() string {
	return "application_timeline"
}
