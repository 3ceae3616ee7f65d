// Package saga contains complex business processes that orchestrate
// multiple domain operations in a coordinated manner.
// Sagas ensure consistency across operations and handle compensation on failures.
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/application/command"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/query"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION START SAGA
// Complex business process: attaching a portal session to a progression record.
// Flow: Validate → Attach Record (login, or signup when allowed) →
//
//	Resume Streak & Badges → Compose Dashboard
//
// When a freshly signed-up record fails a later step, the record is rolled
// back so a retry starts from a clean slate.
// ══════════════════════════════════════════════════════════════════════════════

// SessionStartInput contains all data required to start a session.
type SessionStartInput struct {
	// Email selects the stored record.
	Email string

	// Password is passed through to login/signup.
	Password string

	// SignupIfMissing switches to the signup flow when no record matches.
	SignupIfMissing bool

	// Name, Role and Program are only used by the signup flow.
	Name    string
	Role    progression.Role
	Program progression.Program

	// At is the session start time. Zero means now.
	At time.Time
}

// Validate checks if the input can start a session.
func (i SessionStartInput) Validate() error {
	if i.Email == "" {
		return errors.New("session_start: email is required")
	}
	if i.SignupIfMissing && i.Name == "" {
		return errors.New("session_start: name is required for signup")
	}
	return nil
}

// SessionStartStep represents a step in the session start process.
type SessionStartStep string

const (
	StepValidateInput    SessionStartStep = "validate_input"
	StepAttachRecord     SessionStartStep = "attach_record"
	StepResumeStreak     SessionStartStep = "resume_streak"
	StepComposeDashboard SessionStartStep = "compose_dashboard"
)

// SessionStartResult contains the result of a successfully started session.
type SessionStartResult struct {
	// Record is the record the session is attached to.
	Record *progression.Record `json:"record"`

	// IsNewMember is true when the signup flow created the record.
	IsNewMember bool `json:"is_new_member"`

	// Transition describes what happened to the streak.
	Transition progression.StreakTransition `json:"transition"`

	// UnlockedBadges lists badges awarded while resuming.
	UnlockedBadges []progression.EarnedBadge `json:"unlocked_badges,omitempty"`

	// Dashboard is the composed dashboard header.
	Dashboard *query.GetDashboardResult `json:"dashboard"`

	// StartedAt is when the session started.
	StartedAt time.Time `json:"started_at"`
}

// SessionStartSaga orchestrates the session start process.
type SessionStartSaga struct {
	login     *command.LoginHandler
	signup    *command.SignupHandler
	resume    *command.ResumeSessionHandler
	dashboard *query.GetDashboardHandler
	store     progression.Store
	logger    *logger.Logger
}

// NewSessionStartSaga creates a new SessionStartSaga.
func NewSessionStartSaga(
	login *command.LoginHandler,
	signup *command.SignupHandler,
	resume *command.ResumeSessionHandler,
	dashboard *query.GetDashboardHandler,
	store progression.Store,
	log *logger.Logger,
) *SessionStartSaga {
	return &SessionStartSaga{
		login:     login,
		signup:    signup,
		resume:    resume,
		dashboard: dashboard,
		store:     store,
		logger:    log.With(logger.Component("saga.session_start")),
	}
}

// Execute runs the session start process.
func (s *SessionStartSaga) Execute(ctx context.Context, input SessionStartInput) (*SessionStartResult, error) {
	if err := input.Validate(); err != nil {
		return nil, s.wrapError(StepValidateInput, err)
	}

	at := input.At
	if at.IsZero() {
		at = time.Now()
	}
	result := &SessionStartResult{StartedAt: at}

	previousLogin, err := s.stepAttachRecord(ctx, input, result)
	if err != nil {
		return nil, s.wrapError(StepAttachRecord, err)
	}

	if err := s.stepResumeStreak(ctx, at, previousLogin, result); err != nil {
		if result.IsNewMember {
			s.rollbackSignup(ctx, result)
		}
		return nil, s.wrapError(StepResumeStreak, err)
	}

	if err := s.stepComposeDashboard(ctx, at, result); err != nil {
		return nil, s.wrapError(StepComposeDashboard, err)
	}

	s.logger.Info("session started",
		logger.MemberID(result.Record.ID),
		logger.Bool("new_member", result.IsNewMember),
		logger.Streak(result.Record.Streak),
	)
	return result, nil
}

// stepAttachRecord returns the pre-login LastLogin so the resume step can use
// it as the streak baseline (login stamps LastLogin as part of its contract).
func (s *SessionStartSaga) stepAttachRecord(ctx context.Context, input SessionStartInput, result *SessionStartResult) (time.Time, error) {
	loginRes, err := s.login.Handle(ctx, command.LoginCommand{
		Email:    input.Email,
		Password: input.Password,
	})
	if err == nil {
		result.Record = loginRes.Record
		return loginRes.PreviousLogin, nil
	}

	if !errors.Is(err, shared.ErrLoginUnknownEmail) || !input.SignupIfMissing {
		return time.Time{}, err
	}

	signupRes, err := s.signup.Handle(ctx, command.SignupCommand{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
		Program:  input.Program,
	})
	if err != nil {
		return time.Time{}, err
	}
	result.Record = signupRes.Record
	result.IsNewMember = true
	return time.Time{}, nil
}

func (s *SessionStartSaga) stepResumeStreak(ctx context.Context, at time.Time, previousLogin time.Time, result *SessionStartResult) error {
	res, err := s.resume.Handle(ctx, command.ResumeSessionCommand{At: at, PreviousLogin: previousLogin})
	if err != nil {
		return err
	}
	result.Record = res.Record
	result.Transition = res.Transition
	result.UnlockedBadges = res.UnlockedBadges
	return nil
}

func (s *SessionStartSaga) stepComposeDashboard(ctx context.Context, at time.Time, result *SessionStartResult) error {
	res, err := s.dashboard.Handle(ctx, query.GetDashboardQuery{At: at})
	if err != nil {
		return err
	}
	result.Dashboard = res
	return nil
}

// rollbackSignup removes the half-onboarded record so a retry starts clean.
func (s *SessionStartSaga) rollbackSignup(ctx context.Context, result *SessionStartResult) {
	if err := s.store.DeleteRecord(ctx); err != nil {
		s.logger.Error("failed to roll back signup",
			logger.MemberID(result.Record.ID),
			logger.Err(err),
		)
		return
	}
	s.logger.Warn("rolled back signup after failed session start", logger.MemberID(result.Record.ID))
}

func (s *SessionStartSaga) wrapError(step SessionStartStep, err error) error {
	return fmt.Errorf("session_start: step %s: %w", step, err)
}
