package models

import "time"

type ApplyRequest struct {
	JobID       string `json:"job_id"`
	CVReference string `json:"cv_reference"`
}

type SendChallengeRequest struct {
	ApplicationID string `json:"application_id"`
	ChallengeID   string `json:"challenge_id"`
}

type SubmitChallengeRequest struct {
	ApplicationID string         `json:"application_id"`
	Code          string         `json:"code"`
	Language      string         `json:"language"`
	ProctorEvents []ProctorEvent `json:"proctor_events,omitempty"`
}

type ScheduleInterviewRequest struct {
	ApplicationID string    `json:"application_id"`
	InterviewerID string    `json:"interviewer_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	MeetingLink   string    `json:"meeting_link,omitempty"`
}

type CompleteInterviewRequest struct {
	Score int    `json:"score"`
	Note  string `json:"note"`
}

type MakeOfferRequest struct {
	ApplicationID string     `json:"application_id"`
	Position      string     `json:"position"`
	Salary        int64      `json:"salary"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	Note          string     `json:"note,omitempty"`
}

type RespondOfferRequest struct {
	Decision string `json:"decision"` // "accept" or "reject"
}

type OverrideStatusRequest struct {
	Status ApplicationStatus `json:"status"`
}

// InterviewSummary is the slice of interview state attached to an
// application listing, resolved through explicit lookups.
type InterviewSummary struct {
	ID          string          `json:"id"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	MeetingLink string          `json:"meeting_link"`
	Status      InterviewStatus `json:"status"`
}

type ApplicationView struct {
	Application
	Interview *InterviewSummary `json:"interview,omitempty"`
}
