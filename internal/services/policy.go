package services

import (
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
)

type Transition string

const (
	TransitionApply             Transition = "apply"
	TransitionSendChallenge     Transition = "send_challenge"
	TransitionSubmitChallenge   Transition = "submit_challenge"
	TransitionScheduleInterview Transition = "schedule_interview"
	TransitionCompleteInterview Transition = "complete_interview"
	TransitionCancelInterview   Transition = "cancel_interview"
	TransitionMakeOffer         Transition = "make_offer"
	TransitionRespondOffer      Transition = "respond_offer"
	TransitionOverrideStatus    Transition = "override_status"
	TransitionReadNotification  Transition = "read_notification"
)

// Ownership carries the identities a transition is checked against. Only the
// fields relevant to the transition need to be set.
type Ownership struct {
	JobOwnerID    uuid.UUID
	CandidateID   uuid.UUID
	InterviewerID uuid.UUID
	RecipientID   uuid.UUID
}

// CanPerform is the per-transition authorization rule. It is pure and
// evaluated fresh on every call; admins bypass ownership but never state
// validity, which stays with the orchestrator.
func CanPerform(actor *models.User, transition Transition, own Ownership) error {
	if actor == nil {
		return common.Forbidden("missing actor")
	}

	if actor.Role == models.RoleAdmin && transition != TransitionApply &&
		transition != TransitionSubmitChallenge && transition != TransitionRespondOffer {
		return nil
	}

	switch transition {
	case TransitionApply:
		if actor.Role != models.RoleCandidate {
			return common.Forbidden("only candidates may apply")
		}
		return nil

	case TransitionSubmitChallenge:
		if actor.Role != models.RoleCandidate {
			return common.Forbidden("only candidates may submit challenges")
		}
		if actor.ID != own.CandidateID {
			return common.Forbidden("application belongs to another candidate")
		}
		return nil

	case TransitionRespondOffer:
		if actor.Role != models.RoleCandidate {
			return common.Forbidden("only candidates may respond to offers")
		}
		if actor.ID != own.CandidateID {
			return common.Forbidden("offer belongs to another candidate")
		}
		return nil

	case TransitionSendChallenge:
		if actor.Role == models.RoleRecruiter {
			if actor.ID != own.JobOwnerID {
				return common.Forbidden("job belongs to another recruiter")
			}
			return nil
		}
		if actor.Role == models.RoleInterviewer {
			// No interviewer is assigned this early; any interviewer may
			// send the screening challenge.
			return nil
		}
		return common.Forbidden("role may not send challenges")

	case TransitionScheduleInterview, TransitionCancelInterview,
		TransitionMakeOffer, TransitionOverrideStatus:
		if actor.Role != models.RoleRecruiter {
			return common.Forbidden("role may not perform this transition")
		}
		if actor.ID != own.JobOwnerID {
			return common.Forbidden("job belongs to another recruiter")
		}
		return nil

	case TransitionCompleteInterview:
		if actor.Role != models.RoleInterviewer {
			return common.Forbidden("role may not complete interviews")
		}
		if actor.ID != own.InterviewerID {
			return common.Forbidden("interview assigned to another interviewer")
		}
		return nil

	case TransitionReadNotification:
		if actor.ID != own.RecipientID {
			return common.Forbidden("notification belongs to another user")
		}
		return nil
	}

	return common.Forbidden("unknown transition")
}
