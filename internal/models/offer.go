package models

import (
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferPending  OfferStatus = "PENDING"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferRejected OfferStatus = "REJECTED"
)

type Offer struct {
	ID            uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ApplicationID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	Position      string      `gorm:"type:text;not null" json:"position"`
	Salary        int64       `gorm:"not null" json:"salary"`
	StartDate     *time.Time  `gorm:"type:timestamp" json:"start_date,omitempty"`
	Note          string      `gorm:"type:text" json:"note"`
	Status        OfferStatus `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	CreatedAt     time.Time   `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (Offer) TableName() string {
	return "offers"
}
