package services

import (
	"testing"

	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

func TestCanPerform(t *testing.T) {
	candidateID := uuid.New()
	recruiterID := uuid.New()
	interviewerID := uuid.New()

	candidate := &models.User{ID: candidateID, Role: models.RoleCandidate}
	otherCandidate := &models.User{ID: uuid.New(), Role: models.RoleCandidate}
	recruiter := &models.User{ID: recruiterID, Role: models.RoleRecruiter}
	otherRecruiter := &models.User{ID: uuid.New(), Role: models.RoleRecruiter}
	interviewer := &models.User{ID: interviewerID, Role: models.RoleInterviewer}
	otherInterviewer := &models.User{ID: uuid.New(), Role: models.RoleInterviewer}
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	own := Ownership{
		JobOwnerID:    recruiterID,
		CandidateID:   candidateID,
		InterviewerID: interviewerID,
		RecipientID:   candidateID,
	}

	tests := []struct {
		name       string
		actor      *models.User
		transition Transition
		allowed    bool
	}{
		{"candidate applies", candidate, TransitionApply, true},
		{"recruiter cannot apply", recruiter, TransitionApply, false},
		{"admin cannot apply for someone", admin, TransitionApply, false},

		{"owning candidate submits", candidate, TransitionSubmitChallenge, true},
		{"other candidate cannot submit", otherCandidate, TransitionSubmitChallenge, false},
		{"admin cannot submit", admin, TransitionSubmitChallenge, false},

		{"owning candidate responds to offer", candidate, TransitionRespondOffer, true},
		{"other candidate cannot respond", otherCandidate, TransitionRespondOffer, false},
		{"admin cannot respond for candidate", admin, TransitionRespondOffer, false},

		{"owning recruiter sends challenge", recruiter, TransitionSendChallenge, true},
		{"foreign recruiter cannot send challenge", otherRecruiter, TransitionSendChallenge, false},
		{"interviewer sends challenge", interviewer, TransitionSendChallenge, true},
		{"candidate cannot send challenge", candidate, TransitionSendChallenge, false},

		{"owning recruiter schedules", recruiter, TransitionScheduleInterview, true},
		{"foreign recruiter cannot schedule", otherRecruiter, TransitionScheduleInterview, false},
		{"interviewer cannot schedule", interviewer, TransitionScheduleInterview, false},
		{"admin schedules anywhere", admin, TransitionScheduleInterview, true},

		{"assigned interviewer completes", interviewer, TransitionCompleteInterview, true},
		{"other interviewer cannot complete", otherInterviewer, TransitionCompleteInterview, false},
		{"recruiter cannot complete interview", recruiter, TransitionCompleteInterview, false},
		{"admin completes anywhere", admin, TransitionCompleteInterview, true},

		{"owning recruiter makes offer", recruiter, TransitionMakeOffer, true},
		{"foreign recruiter cannot make offer", otherRecruiter, TransitionMakeOffer, false},
		{"admin makes offer anywhere", admin, TransitionMakeOffer, true},

		{"owning recruiter overrides", recruiter, TransitionOverrideStatus, true},
		{"foreign recruiter cannot override", otherRecruiter, TransitionOverrideStatus, false},
		{"admin overrides anywhere", admin, TransitionOverrideStatus, true},

		{"recipient reads notification", candidate, TransitionReadNotification, true},
		{"other user cannot read notification", otherCandidate, TransitionReadNotification, false},
		{"admin reads any notification", admin, TransitionReadNotification, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanPerform(tt.actor, tt.transition, own)
			if tt.allowed && err != nil {
				t.Fatalf("expected allow, got %v", err)
			}
			if !tt.allowed {
				if err == nil {
					t.Fatal("expected forbidden, got nil")
				}
				if !common.Is(err, common.CodeForbidden) {
					t.Fatalf("expected forbidden code, got %v", err)
				}
			}
		})
	}
}

func TestCanPerformNilActor(t *testing.T) {
	if err := CanPerform(nil, TransitionApply, Ownership{}); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for nil actor, got %v", err)
	}
}
