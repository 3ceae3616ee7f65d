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
// ADD COLLABORATION COMMAND
// Засчитывает совместную работу (peer review, групповой проект). В отличие от
// открытия ресурсов дедупликации нет: каждая работа даёт очки.
// ══════════════════════════════════════════════════════════════════════════════

// AddCollaborationCommand credits one collaboration.
type AddCollaborationCommand struct{}

// AddCollaborationResult describes the outcome.
type AddCollaborationResult struct {
	// Record is the record after the credit.
	Record *progression.Record `json:"record"`

	// PointsAwarded is the collaboration bonus.
	PointsAwarded progression.Points `json:"points_awarded"`

	// UnlockedBadges lists badges awarded by this collaboration.
	UnlockedBadges []progression.EarnedBadge `json:"unlocked_badges,omitempty"`
}

// AddCollaborationHandler handles the AddCollaborationCommand.
type AddCollaborationHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	badges    *progression.BadgeChecker
	logger    *logger.Logger

	now func() time.Time
}

// NewAddCollaborationHandler creates a new AddCollaborationHandler.
func NewAddCollaborationHandler(
	store progression.Store,
	publisher shared.EventPublisher,
	badges *progression.BadgeChecker,
	log *logger.Logger,
) *AddCollaborationHandler {
	return &AddCollaborationHandler{
		store:     store,
		publisher: publisher,
		badges:    badges,
		logger:    log.With(logger.Component("command.add_collaboration")),
		now:       time.Now,
	}
}

// Handle executes the add collaboration command.
func (h *AddCollaborationHandler) Handle(ctx context.Context, _ AddCollaborationCommand) (*AddCollaborationResult, error) {
	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("add_collaboration: load record: %w", err)
	}

	record.AddCollaboration()

	unlocked := h.badges.Check(record, h.now())

	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("add_collaboration: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewCollaborationAddedEvent(record)); err != nil {
		h.logger.Warn("failed to publish collaboration added event", logger.Err(err))
	}
	if err := h.publisher.Publish(progression.NewPointsChangedEvent(record, progression.CollaborationBonus, "collaboration")); err != nil {
		h.logger.Warn("failed to publish points changed event", logger.Err(err))
	}
	for _, badge := range unlocked {
		if err := h.publisher.Publish(progression.NewBadgeUnlockedEvent(record, badge)); err != nil {
			h.logger.Warn("failed to publish badge unlocked event", logger.Err(err))
		}
	}

	h.logger.Info("collaboration added",
		logger.MemberID(record.ID),
		logger.F("collaborations", record.Collaborations),
		logger.Points(record.Points.Int()),
	)

	return &AddCollaborationResult{
		Record:         record,
		PointsAwarded:  progression.CollaborationBonus,
		UnlockedBadges: unlocked,
	}, nil
}
