package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate   Role = "CANDIDATE"
	RoleRecruiter   Role = "RECRUITER"
	RoleInterviewer Role = "INTERVIEWER"
	RoleAdmin       Role = "ADMIN"
)

// User is owned by the auth subsystem; this service only reads it to resolve
// the acting identity and role.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text" json:"name"`
	Email     string    `gorm:"type:text;uniqueIndex" json:"email"`
	Role      Role      `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
