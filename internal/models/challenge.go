package models

import (
	"time"

	"github.com/google/uuid"
)

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type Challenge struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"job_id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	BaseScore   int        `gorm:"not null;default:100" json:"base_score"`
	TestCases   []TestCase `gorm:"serializer:json;type:jsonb" json:"test_cases"`
	CreatedAt   time.Time  `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}
