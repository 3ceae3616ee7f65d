package command

import (
	"context"
	"fmt"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESUME SESSION COMMAND
// Выполняется один раз при старте сессии с сохранённой записью: пересчёт
// серии по календарным дням Дохи и проверка значков, включая "раннюю пташку".
// Команда идемпотентна в пределах одного календарного дня.
// ══════════════════════════════════════════════════════════════════════════════

// ResumeSessionCommand asks for the streak to be recomputed at session start.
type ResumeSessionCommand struct {
	// At is the resume time. Zero means now.
	At time.Time

	// PreviousLogin overrides the record's LastLogin as the streak baseline.
	// The session start flow sets it because login stamps LastLogin before
	// the resume step runs. Zero means use the stored value.
	PreviousLogin time.Time
}

// ResumeSessionResult describes what the resume changed.
type ResumeSessionResult struct {
	// Record is the record after the streak transition and badge checks.
	Record *progression.Record `json:"record"`

	// Transition tells whether the streak was extended, reset or left alone.
	Transition progression.StreakTransition `json:"transition"`

	// DaysAway is the number of Doha calendar days since the previous login.
	DaysAway int `json:"days_away"`

	// UnlockedBadges lists badges awarded during this resume.
	UnlockedBadges []progression.EarnedBadge `json:"unlocked_badges"`
}

// ResumeSessionHandler handles the ResumeSessionCommand.
type ResumeSessionHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	badges    *progression.BadgeChecker
	logger    *logger.Logger

	now func() time.Time
}

// NewResumeSessionHandler creates a new ResumeSessionHandler.
func NewResumeSessionHandler(
	store progression.Store,
	publisher shared.EventPublisher,
	badges *progression.BadgeChecker,
	log *logger.Logger,
) *ResumeSessionHandler {
	return &ResumeSessionHandler{
		store:     store,
		publisher: publisher,
		badges:    badges,
		logger:    log.With(logger.Component("command.resume_session")),
		now:       time.Now,
	}
}

// Handle executes the resume session command.
func (h *ResumeSessionHandler) Handle(ctx context.Context, cmd ResumeSessionCommand) (*ResumeSessionResult, error) {
	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("resume_session: load record: %w", err)
	}

	at := cmd.At
	if at.IsZero() {
		at = h.now()
	}

	if !cmd.PreviousLogin.IsZero() {
		record.LastLogin = cmd.PreviousLogin
	}
	transition, daysAway := record.ResumeStreak(at)

	unlocked := h.badges.Check(record, at)
	if badge := h.badges.CheckEarlyBird(record, at); badge != nil {
		unlocked = append(unlocked, *badge)
	}

	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("resume_session: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewSessionResumedEvent(record, transition, daysAway)); err != nil {
		h.logger.Warn("failed to publish session resumed event", logger.Err(err))
	}
	for _, badge := range unlocked {
		if err := h.publisher.Publish(progression.NewBadgeUnlockedEvent(record, badge)); err != nil {
			h.logger.Warn("failed to publish badge unlocked event", logger.Err(err))
		}
	}

	h.logger.Info("session resumed",
		logger.MemberID(record.ID),
		logger.Streak(record.Streak),
		logger.F("transition", string(transition)),
		logger.F("days_away", daysAway),
	)

	return &ResumeSessionResult{
		Record:         record,
		Transition:     transition,
		DaysAway:       daysAway,
		UnlockedBadges: unlocked,
	}, nil
}
