package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/common"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

const matchingUnavailableReason = "matching unavailable"

// PipelineService owns the application state machine. Every operation runs
// policy check, then state validation, then mutation; the notification
// hand-off happens only after the state change has committed.
type PipelineService interface {
	Apply(ctx context.Context, actor *models.User, jobID uuid.UUID, cvReference string) (*models.Application, error)
	SendChallenge(ctx context.Context, actor *models.User, applicationID, challengeID uuid.UUID) (*models.Application, error)
	SubmitChallenge(ctx context.Context, actor *models.User, applicationID uuid.UUID, code, language string, proctorEvents []models.ProctorEvent) (*models.Submission, error)
	ScheduleInterview(ctx context.Context, actor *models.User, applicationID, interviewerID uuid.UUID, scheduledAt time.Time, meetingLink string) (*models.Interview, error)
	CompleteInterview(ctx context.Context, actor *models.User, interviewID uuid.UUID, score int, note string) (*models.Interview, error)
	CancelInterview(ctx context.Context, actor *models.User, interviewID uuid.UUID) error
	MakeOffer(ctx context.Context, actor *models.User, applicationID uuid.UUID, position string, salary int64, startDate *time.Time, note string) (*models.Offer, error)
	RespondOffer(ctx context.Context, actor *models.User, offerID uuid.UUID, accept bool) (*models.Offer, error)
	OverrideStatus(ctx context.Context, actor *models.User, applicationID uuid.UUID, status models.ApplicationStatus) (*models.Application, error)
	ListMine(actor *models.User) ([]models.ApplicationView, error)
	ListByJob(actor *models.User, jobID uuid.UUID) ([]models.Application, error)
}

type pipelineService struct {
	apps        repositories.ApplicationRepository
	jobs        repositories.JobRepository
	challenges  repositories.ChallengeRepository
	submissions repositories.SubmissionRepository
	interviews  repositories.InterviewRepository
	offers      repositories.OfferRepository
	users       repositories.UserRepository
	matcher     Matcher
	runner      CodeRunner
	material    MaterialService
	notifier    Notifier
	logger      *zap.Logger
	meetingBase string

	// Serializes transitions per application within this process. The
	// guarded status update in the repository catches whatever the lock
	// cannot, such as a second replica.
	locks sync.Map
}

func NewPipelineService(
	apps repositories.ApplicationRepository,
	jobs repositories.JobRepository,
	challenges repositories.ChallengeRepository,
	submissions repositories.SubmissionRepository,
	interviews repositories.InterviewRepository,
	offers repositories.OfferRepository,
	users repositories.UserRepository,
	matcher Matcher,
	runner CodeRunner,
	material MaterialService,
	notifier Notifier,
	logger *zap.Logger,
	meetingBase string,
) PipelineService {
	return &pipelineService{
		apps:        apps,
		jobs:        jobs,
		challenges:  challenges,
		submissions: submissions,
		interviews:  interviews,
		offers:      offers,
		users:       users,
		matcher:     matcher,
		runner:      runner,
		material:    material,
		notifier:    notifier,
		logger:      logger,
		meetingBase: meetingBase,
	}
}

func (s *pipelineService) lockApplication(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Apply implements PipelineService.
func (s *pipelineService) Apply(ctx context.Context, actor *models.User, jobID uuid.UUID, cvReference string) (*models.Application, error) {
	if err := CanPerform(actor, TransitionApply, Ownership{}); err != nil {
		return nil, err
	}

	job, err := s.jobs.FindByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusPublished {
		return nil, common.Validation("job is not accepting applications")
	}

	if _, err := s.apps.FindByCandidateAndJob(actor.ID, jobID); err == nil {
		return nil, common.Conflict("already applied to this job")
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	// Scoring is best effort: the application is created regardless.
	score, reason := s.scoreMaterial(ctx, job, cvReference)

	app := &models.Application{
		ID:             uuid.New(),
		JobID:          jobID,
		CandidateID:    actor.ID,
		Status:         models.StatusApplied,
		MatchingScore:  score,
		MatchingReason: reason,
		CVReference:    cvReference,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := s.apps.Create(app); err != nil {
		return nil, err
	}

	if score > 0 {
		if err := s.apps.TransitionStatus(app.ID, models.StatusApplied, models.StatusScreened, "screened by matching score"); err != nil {
			return nil, err
		}
		app.Status = models.StatusScreened
	}

	s.notifier.Notify(NotificationEvent{
		UserID:  job.RecruiterID,
		Type:    models.NotifyApplicationReceived,
		Title:   "New application",
		Message: fmt.Sprintf("A candidate applied to %q (matching score %d)", job.Title, score),
		Link:    "/applications/job/" + jobID.String(),
	})

	return app, nil
}

func (s *pipelineService) scoreMaterial(ctx context.Context, job *models.Job, cvReference string) (int, string) {
	material, err := s.material.ResolveText(cvReference)
	if err != nil {
		s.logger.Warn("failed to resolve candidate material",
			zap.String("cv_reference", cvReference),
			zap.Error(err),
		)
	}

	result, err := s.matcher.Match(ctx, job, material)
	if err != nil {
		s.logger.Warn("matching oracle failed, degrading to zero score",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		return 0, matchingUnavailableReason
	}
	return result.Score, result.Reason
}

// SendChallenge implements PipelineService.
func (s *pipelineService) SendChallenge(ctx context.Context, actor *models.User, applicationID, challengeID uuid.UUID) (*models.Application, error) {
	unlock := s.lockApplication(applicationID)
	defer unlock()

	app, err := s.apps.FindByID(applicationID)
	if err != nil {
		return nil, err
	}

	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionSendChallenge, Ownership{JobOwnerID: jobOwner}); err != nil {
		return nil, err
	}

	if app.Status != models.StatusApplied && app.Status != models.StatusScreened {
		return nil, common.InvalidTransition(fmt.Sprintf("cannot send challenge in status %s", app.Status))
	}

	challenge, err := s.challenges.FindByID(challengeID)
	if err != nil {
		return nil, err
	}
	if challenge.JobID != app.JobID {
		return nil, common.Validation("challenge belongs to another job")
	}

	if err := s.apps.BindChallenge(applicationID, challengeID, app.Status, "challenge sent"); err != nil {
		return nil, err
	}
	app.Status = models.StatusTestSent
	app.TestID = &challengeID

	s.notifier.Notify(NotificationEvent{
		UserID:  app.CandidateID,
		Type:    models.NotifyChallengeSent,
		Title:   "Coding challenge",
		Message: fmt.Sprintf("You received the challenge %q", challenge.Title),
		Link:    "/challenges/" + challengeID.String(),
	})

	return app, nil
}

// SubmitChallenge implements PipelineService.
func (s *pipelineService) SubmitChallenge(ctx context.Context, actor *models.User, applicationID uuid.UUID, code, language string, proctorEvents []models.ProctorEvent) (*models.Submission, error) {
	unlock := s.lockApplication(applicationID)
	defer unlock()

	app, err := s.apps.FindByID(applicationID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionSubmitChallenge, Ownership{CandidateID: app.CandidateID}); err != nil {
		return nil, err
	}

	if app.Status != models.StatusTestSent {
		return nil, common.InvalidTransition(fmt.Sprintf("no pending challenge in status %s", app.Status))
	}
	if app.TestID == nil {
		return nil, common.InvalidTransition("no challenge bound to this application")
	}

	challenge, err := s.challenges.FindByID(*app.TestID)
	if err != nil {
		return nil, err
	}

	passed := 0
	total := len(challenge.TestCases)
	var executionMS int64
	for _, testCase := range challenge.TestCases {
		result := s.runner.Run(ctx, code, language, testCase)
		executionMS += result.DurationMS
		if result.Err != nil {
			// A failing runner fails the case, not the submission.
			s.logger.Warn("test case execution failed",
				zap.String("application_id", applicationID.String()),
				zap.Error(result.Err),
			)
			continue
		}
		if result.Passed {
			passed++
		}
	}

	score := 0
	if total > 0 {
		score = int(math.Round(float64(passed) / float64(total) * float64(challenge.BaseScore)))
	}

	submission := &models.Submission{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		ChallengeID:   challenge.ID,
		Code:          code,
		Language:      language,
		Score:         score,
		PassedCases:   passed,
		TotalCases:    total,
		ExecutionMS:   executionMS,
		ProctorEvents: proctorEvents,
		IsFlagged:     len(proctorEvents) > 0,
		CreatedAt:     time.Now(),
	}
	if err := s.submissions.Create(submission); err != nil {
		return nil, err
	}
	if err := s.apps.SetTestScore(applicationID, score); err != nil {
		return nil, err
	}

	// Zero score does not advance; the candidate may submit again while the
	// application sits in TEST_SENT.
	if score > 0 {
		if err := s.apps.TransitionStatus(applicationID, models.StatusTestSent, models.StatusScreened, "challenge passed"); err != nil {
			return nil, err
		}
	}

	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		s.logger.Warn("failed to resolve recruiter for submission notification", zap.Error(err))
		return submission, nil
	}
	s.notifier.Notify(NotificationEvent{
		UserID:  jobOwner,
		Type:    models.NotifyChallengeSubmitted,
		Title:   "Challenge submitted",
		Message: fmt.Sprintf("Candidate scored %d/%d (%d of %d cases passed)", score, challenge.BaseScore, passed, total),
		Link:    "/applications/job/" + app.JobID.String(),
	})

	return submission, nil
}

// ScheduleInterview implements PipelineService.
func (s *pipelineService) ScheduleInterview(ctx context.Context, actor *models.User, applicationID, interviewerID uuid.UUID, scheduledAt time.Time, meetingLink string) (*models.Interview, error) {
	unlock := s.lockApplication(applicationID)
	defer unlock()

	app, err := s.apps.FindByID(applicationID)
	if err != nil {
		return nil, err
	}

	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionScheduleInterview, Ownership{JobOwnerID: jobOwner}); err != nil {
		return nil, err
	}

	if app.Status != models.StatusScreened && app.Status != models.StatusTestSent {
		return nil, common.InvalidTransition(fmt.Sprintf("cannot schedule interview in status %s", app.Status))
	}
	if _, err := s.interviews.FindActiveByApplication(applicationID); err == nil {
		return nil, common.InvalidTransition("an interview is already scheduled")
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	interviewer, err := s.users.FindByID(interviewerID)
	if err != nil {
		return nil, err
	}
	if interviewer.Role != models.RoleInterviewer {
		return nil, common.Validation("assignee is not an interviewer")
	}

	if meetingLink == "" {
		meetingLink = fmt.Sprintf("%s/%s", s.meetingBase, uuid.New())
	}

	interview := &models.Interview{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		RecruiterID:   jobOwner,
		InterviewerID: interviewerID,
		ScheduledAt:   scheduledAt,
		MeetingLink:   meetingLink,
		Status:        models.InterviewScheduled,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	// The interview row goes in before the application status so a failure
	// in between leaves the application in its prior, still valid stage.
	if err := s.interviews.Create(interview); err != nil {
		return nil, err
	}
	if err := s.apps.SetInterviewID(applicationID, &interview.ID); err != nil {
		return nil, err
	}
	if err := s.apps.TransitionStatus(applicationID, app.Status, models.StatusInterview, "interview scheduled"); err != nil {
		return nil, err
	}

	s.notifier.Notify(NotificationEvent{
		UserID:  app.CandidateID,
		Type:    models.NotifyInterviewScheduled,
		Title:   "Interview scheduled",
		Message: fmt.Sprintf("Your interview is scheduled for %s", scheduledAt.Format(time.RFC1123)),
		Link:    meetingLink,
	})
	s.notifier.Notify(NotificationEvent{
		UserID:  interviewerID,
		Type:    models.NotifyInterviewScheduled,
		Title:   "Interview assigned",
		Message: fmt.Sprintf("You are interviewing a candidate on %s", scheduledAt.Format(time.RFC1123)),
		Link:    meetingLink,
	})

	return interview, nil
}

// CompleteInterview implements PipelineService.
func (s *pipelineService) CompleteInterview(ctx context.Context, actor *models.User, interviewID uuid.UUID, score int, note string) (*models.Interview, error) {
	if score < 0 || score > 10 {
		return nil, common.Validation("interview score must be between 0 and 10")
	}

	interview, err := s.interviews.FindByID(interviewID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionCompleteInterview, Ownership{InterviewerID: interview.InterviewerID}); err != nil {
		return nil, err
	}

	unlock := s.lockApplication(interview.ApplicationID)
	defer unlock()

	if err := s.interviews.Complete(interviewID, score, note); err != nil {
		return nil, err
	}
	interview.Status = models.InterviewCompleted
	interview.Score = score
	interview.Note = note

	if err := s.apps.SetInterviewScore(interview.ApplicationID, score); err != nil {
		return nil, err
	}
	// Evaluation leaves the application in INTERVIEW; only the marker is
	// appended, with the current status so it stays the last entry's status.
	if err := s.apps.AppendTimelineNote(interview.ApplicationID, models.StatusInterview, fmt.Sprintf("interview evaluated: %d/10", score)); err != nil {
		return nil, err
	}

	app, err := s.apps.FindByID(interview.ApplicationID)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(NotificationEvent{
		UserID:  interview.RecruiterID,
		Type:    models.NotifyInterviewCompleted,
		Title:   "Interview completed",
		Message: fmt.Sprintf("Interview evaluated with score %d/10", score),
		Link:    "/applications/job/" + app.JobID.String(),
	})
	s.notifier.Notify(NotificationEvent{
		UserID:  app.CandidateID,
		Type:    models.NotifyInterviewCompleted,
		Title:   "Interview completed",
		Message: "Your interview has been evaluated",
		Link:    "/applications/me",
	})

	return interview, nil
}

// CancelInterview implements PipelineService. Cancelling reverts the
// application to SCREENED rather than leaving it stuck in INTERVIEW with no
// active interview.
func (s *pipelineService) CancelInterview(ctx context.Context, actor *models.User, interviewID uuid.UUID) error {
	interview, err := s.interviews.FindByID(interviewID)
	if err != nil {
		return err
	}

	app, err := s.apps.FindByID(interview.ApplicationID)
	if err != nil {
		return err
	}
	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		return err
	}
	if err := CanPerform(actor, TransitionCancelInterview, Ownership{JobOwnerID: jobOwner}); err != nil {
		return err
	}

	unlock := s.lockApplication(interview.ApplicationID)
	defer unlock()

	if err := s.interviews.Cancel(interviewID); err != nil {
		return err
	}
	if err := s.apps.SetInterviewID(interview.ApplicationID, nil); err != nil {
		return err
	}
	if err := s.apps.TransitionStatus(interview.ApplicationID, models.StatusInterview, models.StatusScreened, "interview cancelled"); err != nil {
		return err
	}

	s.notifier.Notify(NotificationEvent{
		UserID:  app.CandidateID,
		Type:    models.NotifyInterviewCancelled,
		Title:   "Interview cancelled",
		Message: "Your interview has been cancelled",
		Link:    "/applications/me",
	})
	s.notifier.Notify(NotificationEvent{
		UserID:  interview.InterviewerID,
		Type:    models.NotifyInterviewCancelled,
		Title:   "Interview cancelled",
		Message: "An interview assigned to you has been cancelled",
		Link:    "",
	})

	return nil
}

// MakeOffer implements PipelineService.
func (s *pipelineService) MakeOffer(ctx context.Context, actor *models.User, applicationID uuid.UUID, position string, salary int64, startDate *time.Time, note string) (*models.Offer, error) {
	unlock := s.lockApplication(applicationID)
	defer unlock()

	app, err := s.apps.FindByID(applicationID)
	if err != nil {
		return nil, err
	}
	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionMakeOffer, Ownership{JobOwnerID: jobOwner}); err != nil {
		return nil, err
	}

	if app.Status != models.StatusScreened && app.Status != models.StatusInterview {
		return nil, common.InvalidTransition(fmt.Sprintf("cannot make offer in status %s", app.Status))
	}
	if _, err := s.offers.FindByApplication(applicationID); err == nil {
		return nil, common.Conflict("an offer already exists for this application")
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	offer := &models.Offer{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Position:      position,
		Salary:        salary,
		StartDate:     startDate,
		Note:          note,
		Status:        models.OfferPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.offers.Create(offer); err != nil {
		return nil, err
	}
	if err := s.apps.TransitionStatus(applicationID, app.Status, models.StatusOffer, "offer made"); err != nil {
		return nil, err
	}

	s.notifier.Notify(NotificationEvent{
		UserID:  app.CandidateID,
		Type:    models.NotifyOfferMade,
		Title:   "You received an offer",
		Message: fmt.Sprintf("Offer for position %q", position),
		Link:    "/offers/" + offer.ID.String(),
	})

	return offer, nil
}

// RespondOffer implements PipelineService.
func (s *pipelineService) RespondOffer(ctx context.Context, actor *models.User, offerID uuid.UUID, accept bool) (*models.Offer, error) {
	offer, err := s.offers.FindByID(offerID)
	if err != nil {
		return nil, err
	}

	unlock := s.lockApplication(offer.ApplicationID)
	defer unlock()

	app, err := s.apps.FindByID(offer.ApplicationID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionRespondOffer, Ownership{CandidateID: app.CandidateID}); err != nil {
		return nil, err
	}

	// The application may have left OFFER while the offer sat pending, for
	// example through a recruiter rejection. Gate before touching the offer
	// so a refused response mutates nothing.
	if app.Status != models.StatusOffer {
		return nil, common.InvalidTransition(fmt.Sprintf("cannot respond to offer in status %s", app.Status))
	}

	offerStatus := models.OfferRejected
	appStatus := models.StatusRejected
	note := "offer rejected"
	if accept {
		offerStatus = models.OfferAccepted
		appStatus = models.StatusHired
		note = "offer accepted"
	}

	if err := s.offers.Respond(offerID, offerStatus); err != nil {
		return nil, err
	}
	if err := s.apps.TransitionStatus(offer.ApplicationID, models.StatusOffer, appStatus, note); err != nil {
		return nil, err
	}
	offer.Status = offerStatus

	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		s.logger.Warn("failed to resolve recruiter for offer response notification", zap.Error(err))
		return offer, nil
	}
	s.notifier.Notify(NotificationEvent{
		UserID:  jobOwner,
		Type:    models.NotifyOfferResponded,
		Title:   "Offer response",
		Message: fmt.Sprintf("The candidate has %s the offer for %q", map[bool]string{true: "accepted", false: "rejected"}[accept], offer.Position),
		Link:    "/applications/job/" + app.JobID.String(),
	})

	return offer, nil
}

// OverrideStatus implements PipelineService. REJECTED is the only accepted
// override target; it is reachable from any non-terminal stage.
func (s *pipelineService) OverrideStatus(ctx context.Context, actor *models.User, applicationID uuid.UUID, status models.ApplicationStatus) (*models.Application, error) {
	unlock := s.lockApplication(applicationID)
	defer unlock()

	app, err := s.apps.FindByID(applicationID)
	if err != nil {
		return nil, err
	}
	jobOwner, err := s.jobs.GetOwner(app.JobID)
	if err != nil {
		return nil, err
	}
	if err := CanPerform(actor, TransitionOverrideStatus, Ownership{JobOwnerID: jobOwner}); err != nil {
		return nil, err
	}

	if status != models.StatusRejected {
		return nil, common.Validation("only REJECTED may be set directly")
	}
	if app.Status.IsTerminal() {
		return nil, common.InvalidTransition(fmt.Sprintf("application is already %s", app.Status))
	}

	if err := s.apps.TransitionStatus(applicationID, app.Status, models.StatusRejected, "rejected by recruiter"); err != nil {
		return nil, err
	}
	app.Status = models.StatusRejected

	s.notifier.Notify(NotificationEvent{
		UserID:  app.CandidateID,
		Type:    models.NotifyApplicationRejected,
		Title:   "Application update",
		Message: "Your application was not successful this time",
		Link:    "/applications/me",
	})

	return app, nil
}

// ListMine implements PipelineService.
func (s *pipelineService) ListMine(actor *models.User) ([]models.ApplicationView, error) {
	apps, err := s.apps.ListByCandidate(actor.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ApplicationView, 0, len(apps))
	for _, app := range apps {
		view := models.ApplicationView{Application: app}
		if app.InterviewID != nil {
			interview, err := s.interviews.FindByID(*app.InterviewID)
			if err == nil {
				view.Interview = &models.InterviewSummary{
					ID:          interview.ID.String(),
					ScheduledAt: interview.ScheduledAt,
					MeetingLink: interview.MeetingLink,
					Status:      interview.Status,
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// ListByJob implements PipelineService. Results come back sorted by matching
// score descending.
func (s *pipelineService) ListByJob(actor *models.User, jobID uuid.UUID) ([]models.Application, error) {
	jobOwner, err := s.jobs.GetOwner(jobID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		if actor.Role != models.RoleRecruiter || actor.ID != jobOwner {
			return nil, common.Forbidden("job belongs to another recruiter")
		}
	}
	return s.apps.ListByJob(jobID)
}
