package command

import (
	"context"
	"fmt"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLAIM DAILY BONUS COMMAND
// Начисляет ежедневный бонус не чаще одного раза за календарный день Дохи.
// Идемпотентность обеспечивается датой под отдельным ключом хранилища, а не
// полем записи: повторный вызов в тот же день - тихий no-op, не ошибка.
// ══════════════════════════════════════════════════════════════════════════════

// ClaimDailyBonusCommand asks for today's bonus.
type ClaimDailyBonusCommand struct {
	// At is the claim time. Zero means now.
	At time.Time
}

// ClaimDailyBonusResult describes the outcome of the claim.
type ClaimDailyBonusResult struct {
	// Granted is true when the bonus was credited by this call.
	Granted bool `json:"granted"`

	// Record is the record after the claim. On a repeat claim it is the
	// unchanged stored record.
	Record *progression.Record `json:"record"`

	// PointsAwarded is the bonus amount, zero on a repeat claim.
	PointsAwarded progression.Points `json:"points_awarded"`

	// ClaimedOn is the Doha calendar date the bonus is recorded under.
	ClaimedOn timeutil.CivilDate `json:"claimed_on"`
}

// ClaimDailyBonusHandler handles the ClaimDailyBonusCommand.
type ClaimDailyBonusHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	logger    *logger.Logger

	now func() time.Time
}

// NewClaimDailyBonusHandler creates a new ClaimDailyBonusHandler.
func NewClaimDailyBonusHandler(store progression.Store, publisher shared.EventPublisher, log *logger.Logger) *ClaimDailyBonusHandler {
	return &ClaimDailyBonusHandler{
		store:     store,
		publisher: publisher,
		logger:    log.With(logger.Component("command.claim_daily_bonus")),
		now:       time.Now,
	}
}

// Handle executes the claim daily bonus command.
func (h *ClaimDailyBonusHandler) Handle(ctx context.Context, cmd ClaimDailyBonusCommand) (*ClaimDailyBonusResult, error) {
	at := cmd.At
	if at.IsZero() {
		at = h.now()
	}
	today := timeutil.CivilDateOf(at)

	claimedOn, err := h.store.DailyBonusClaimedOn(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim_daily_bonus: read claim date: %w", err)
	}

	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("claim_daily_bonus: load record: %w", err)
	}

	if !claimedOn.IsZero() && claimedOn.Equal(today) {
		return &ClaimDailyBonusResult{Granted: false, Record: record, ClaimedOn: claimedOn}, nil
	}

	record.AddPoints(progression.DailyBonus)

	// Флаг даты пишется раньше записи: если вторая запись упадёт, повторный
	// вызов вернёт Granted=false вместо двойного начисления.
	if err := h.store.SetDailyBonusClaimedOn(ctx, today); err != nil {
		return nil, fmt.Errorf("claim_daily_bonus: set claim date: %w", err)
	}
	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("claim_daily_bonus: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewDailyBonusClaimedEvent(record, today.String())); err != nil {
		h.logger.Warn("failed to publish daily bonus event", logger.Err(err))
	}
	if err := h.publisher.Publish(progression.NewPointsChangedEvent(record, progression.DailyBonus, "daily_bonus")); err != nil {
		h.logger.Warn("failed to publish points changed event", logger.Err(err))
	}

	h.logger.Info("daily bonus claimed",
		logger.MemberID(record.ID),
		logger.F("claimed_on", today.String()),
		logger.Points(record.Points.Int()),
	)

	return &ClaimDailyBonusResult{
		Granted:       true,
		Record:        record,
		PointsAwarded: progression.DailyBonus,
		ClaimedOn:     today,
	}, nil
}
