package models

import (
	"time"

	"github.com/google/uuid"
)

type ProctorEventKind string

const (
	ProctorTabSwitch      ProctorEventKind = "tab-switch"
	ProctorMultiplePeople ProctorEventKind = "multiple-people"
	ProctorNoPerson       ProctorEventKind = "no-person"
	ProctorUserLeft       ProctorEventKind = "user-left"
)

type ProctorEvent struct {
	Kind ProctorEventKind `json:"kind"`
	At   time.Time        `json:"at"`
}

type Submission struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"application_id"`
	ChallengeID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"challenge_id"`
	Code          string         `gorm:"type:text" json:"code"`
	Language      string         `gorm:"type:text" json:"language"`
	Score         int            `gorm:"not null;default:0" json:"score"`
	PassedCases   int            `gorm:"not null;default:0" json:"passed_cases"`
	TotalCases    int            `gorm:"not null;default:0" json:"total_cases"`
	ExecutionMS   int64          `gorm:"not null;default:0" json:"execution_ms"`
	ProctorEvents []ProctorEvent `gorm:"serializer:json;type:jsonb" json:"proctor_events"`
	IsFlagged     bool           `gorm:"not null;default:false" json:"is_flagged"`
	CreatedAt     time.Time      `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Submission) TableName() string {
	return "submissions"
}
