package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyApplicationReceived NotificationType = "application_received"
	NotifyChallengeSent       NotificationType = "challenge_sent"
	NotifyChallengeSubmitted  NotificationType = "challenge_submitted"
	NotifyInterviewScheduled  NotificationType = "interview_scheduled"
	NotifyInterviewCompleted  NotificationType = "interview_completed"
	NotifyInterviewCancelled  NotificationType = "interview_cancelled"
	NotifyOfferMade           NotificationType = "offer_made"
	NotifyOfferResponded      NotificationType = "offer_responded"
	NotifyApplicationRejected NotificationType = "application_rejected"
)

// Notification payload fields are immutable after creation; only IsRead moves.
type Notification struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:text;not null" json:"type"`
	Title     string           `gorm:"type:text;not null" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Link      string           `gorm:"type:text" json:"link,omitempty"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time        `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
