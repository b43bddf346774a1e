// Package service owns the wizard session lifecycle: creation, state
// patches, step transitions, and the final submission. It is the only writer
// of session state; handlers translate HTTP to these operations and nothing
// else mutates a session.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"leadgate/internal/leads"
	"leadgate/internal/platform/metrics"
	"leadgate/internal/submission"
	"leadgate/internal/wizard/device"
	"leadgate/internal/wizard/flow"
	"leadgate/internal/wizard/models"
	"leadgate/internal/wizard/store"
	dErrors "leadgate/pkg/domainerrors"
	"leadgate/pkg/sentinel"
)

// incomeWarningThreshold flags implausibly high monthly income figures on
// the snapshot so the client can ask for confirmation.
const incomeWarningThreshold = 10000

// Service coordinates sessions, the sequencer, and the submission pipeline.
type Service struct {
	store     store.Store
	flow      flow.Flow
	mapper    submission.Mapper
	submitter submission.Submitter
	archive   leads.Archive
	logger    *slog.Logger
	metrics   *metrics.Metrics

	// submitGroup collapses concurrent submit attempts for the same session
	// into one upstream call.
	submitGroup singleflight.Group

	now func() time.Time
}

// New constructs the wizard service.
func New(st store.Store, fl flow.Flow, mapper submission.Mapper, submitter submission.Submitter,
	archive leads.Archive, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		store:     st,
		flow:      fl,
		mapper:    mapper,
		submitter: submitter,
		archive:   archive,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// StartRequest carries the tracking context captured at first contact.
type StartRequest struct {
	RawQuery  string
	Referrer  string
	UserAgent string
}

// Snapshot is the client-facing view of a session.
type Snapshot struct {
	ID              string           `json:"id"`
	State           models.State     `json:"state"`
	CurrentStep     int              `json:"currentStep"`
	Slug            string           `json:"slug"`
	TotalSteps      int              `json:"totalSteps"`
	EmploymentStart int              `json:"employmentStart"`
	Submitted       bool             `json:"submitted"`
	IncomeWarning   bool             `json:"incomeWarning,omitempty"`
	UTM             models.UTMParams `json:"utm,omitempty"`
}

func (s *Service) snapshot(session *models.Session) *Snapshot {
	return &Snapshot{
		ID:              session.ID,
		State:           session.State,
		CurrentStep:     session.CurrentStep,
		Slug:            s.flow.SlugForStep(&session.State, session.CurrentStep),
		TotalSteps:      s.flow.TotalSteps(&session.State),
		EmploymentStart: s.flow.EmploymentStart(&session.State),
		Submitted:       session.Submitted,
		IncomeWarning:   incomeWarning(session.State.MonthlyIncome),
		UTM:             session.UTM,
	}
}

func incomeWarning(income string) bool {
	n, err := strconv.Atoi(income)
	return err == nil && n > incomeWarningThreshold
}

// Start creates a session on step 1, capturing UTM parameters, the referrer,
// and a device summary for lead attribution.
func (s *Service) Start(ctx context.Context, req StartRequest) (*Snapshot, error) {
	now := s.now()
	session := &models.Session{
		ID:          uuid.NewString(),
		CurrentStep: 1,
		UTM:         models.UTMFromQuery(req.RawQuery),
		Referrer:    req.Referrer,
		Device:      device.Summarize(req.UserAgent),
		Bot:         device.IsBot(req.UserAgent),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create session")
	}
	s.metrics.SessionsStarted.Inc()
	s.logger.InfoContext(ctx, "session started",
		"session_id", session.ID,
		"device", session.Device,
		"utm", session.UTM,
	)
	return s.snapshot(session), nil
}

// Get returns the current snapshot.
func (s *Service) Get(ctx context.Context, id string) (*Snapshot, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(session), nil
}

// PatchState merges a partial state update into the session. Submitted
// sessions are immutable.
func (s *Service) PatchState(ctx context.Context, id string, patch *models.Patch) (*Snapshot, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, dErrors.New(dErrors.CodeConflict, "application already submitted")
	}
	if err := patch.Apply(&session.State); err != nil {
		return nil, err
	}
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}
	return s.snapshot(session), nil
}

// Next validates the current step and advances. On the final step it submits
// the application instead; rawQuery refreshes the tracking parameters first
// so a mid-wizard navigation with new campaign codes is honored.
func (s *Service) Next(ctx context.Context, id, rawQuery string) (*Snapshot, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, dErrors.New(dErrors.CodeConflict, "application already submitted")
	}

	session.UTM = models.MergeUTM(session.UTM, rawQuery)

	decision, err := s.flow.Next(&session.State, session.CurrentStep, s.now())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			s.metrics.ValidationFailures.Inc()
		}
		return nil, err
	}

	if decision.Submit {
		return s.submit(ctx, session)
	}

	if decision.AppendAddress {
		session.State.AppendPreviousAddress()
	}
	session.CurrentStep = decision.NextStep
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}
	s.metrics.StepsAdvanced.Inc()
	return s.snapshot(session), nil
}

// Back moves one step backward without validating; partial answers survive.
func (s *Service) Back(ctx context.Context, id string) (*Snapshot, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return nil, dErrors.New(dErrors.CodeConflict, "application already submitted")
	}
	session.CurrentStep = s.flow.Prev(&session.State, session.CurrentStep)
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}
	return s.snapshot(session), nil
}

// Goto jumps to the step named by a deep-link slug. The terminal slug is
// reachable only after submission; everything else only before.
func (s *Service) Goto(ctx context.Context, id, slug string) (*Snapshot, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	step, ok := s.flow.StepForSlug(&session.State, slug)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown step")
	}

	terminal := slug == flow.TerminalSlug
	if terminal && !session.Submitted {
		return nil, dErrors.New(dErrors.CodeConflict, "application not submitted yet")
	}
	if !terminal && session.Submitted {
		return nil, dErrors.New(dErrors.CodeConflict, "application already submitted")
	}

	session.CurrentStep = step
	session.UpdatedAt = s.now()
	if err := s.store.Save(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}
	return s.snapshot(session), nil
}

// submit maps the application, delivers it, archives the lead, and seals the
// session. Failures leave the session exactly as it was so the applicant can
// retry. Concurrent calls for one session share a single upstream request.
func (s *Service) submit(ctx context.Context, session *models.Session) (*Snapshot, error) {
	result, err, _ := s.submitGroup.Do(session.ID, func() (any, error) {
		payload, err := s.mapper.Map(&session.State, session.UTM)
		if err != nil {
			return nil, err
		}

		start := s.now()
		response, err := s.submitter.Submit(ctx, payload)
		s.metrics.ObserveSubmit(start)
		if err != nil {
			s.metrics.SubmissionsFailed.Inc()
			s.logger.ErrorContext(ctx, "submission failed",
				"session_id", session.ID,
				"error", err,
			)
			return nil, err
		}

		s.archiveLead(ctx, session, payload, response)

		session.Submitted = true
		session.CurrentStep = s.flow.TotalSteps(&session.State) + 1
		session.UpdatedAt = s.now()
		if err := s.store.Save(ctx, session); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
		}

		s.metrics.SubmissionsSucceeded.Inc()
		s.logger.InfoContext(ctx, "application submitted",
			"session_id", session.ID,
			"vehicle_type", session.State.VehicleType,
		)
		return s.snapshot(session), nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// archiveLead records the lead best-effort: a dead archive must not fail a
// submission the finance provider already accepted.
func (s *Service) archiveLead(ctx context.Context, session *models.Session, payload *submission.Payload, response json.RawMessage) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode lead payload", "session_id", session.ID, "error", err)
		return
	}
	lead := &leads.Lead{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		FirstName:   session.State.FirstName,
		LastName:    session.State.LastName,
		Email:       session.State.Email,
		PhoneNumber: session.State.PhoneNumber,
		VehicleType: string(session.State.VehicleType),
		LoanAmount:  session.State.LoanAmount,
		Bot:         session.Bot,
		Payload:     raw,
		Response:    response,
		SubmittedAt: s.now(),
	}
	if err := s.archive.Record(ctx, lead); err != nil {
		s.logger.ErrorContext(ctx, "archive lead", "session_id", session.ID, "error", err)
	}
}

func (s *Service) load(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	return session, nil
}
