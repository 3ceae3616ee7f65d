package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCESS RESOURCE COMMAND
// Отмечает открытие ресурса портала. Первое открытие даёт бонусные очки и
// может разблокировать значок; повторные открытия ничего не меняют.
// ══════════════════════════════════════════════════════════════════════════════

// AccessResourceCommand marks a portal resource as opened.
type AccessResourceCommand struct {
	// ResourceID is the catalog identifier of the resource.
	ResourceID string
}

// Validate validates the command.
func (c AccessResourceCommand) Validate() error {
	if c.ResourceID == "" {
		return errors.New("access_resource: resource_id is required")
	}
	if _, ok := catalog.FindResource(c.ResourceID); !ok {
		return shared.ErrResourceNotFound
	}
	return nil
}

// AccessResourceResult describes the outcome of an access.
type AccessResourceResult struct {
	// Record is the record after the access.
	Record *progression.Record `json:"record"`

	// FirstAccess is true when this was the first time the resource was opened.
	FirstAccess bool `json:"first_access"`

	// PointsAwarded is the bonus credited for a first access, zero otherwise.
	PointsAwarded progression.Points `json:"points_awarded"`

	// UnlockedBadges lists badges awarded by this access.
	UnlockedBadges []progression.EarnedBadge `json:"unlocked_badges,omitempty"`
}

// AccessResourceHandler handles the AccessResourceCommand.
type AccessResourceHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	badges    *progression.BadgeChecker
	logger    *logger.Logger

	now func() time.Time
}

// NewAccessResourceHandler creates a new AccessResourceHandler.
func NewAccessResourceHandler(
	store progression.Store,
	publisher shared.EventPublisher,
	badges *progression.BadgeChecker,
	log *logger.Logger,
) *AccessResourceHandler {
	return &AccessResourceHandler{
		store:     store,
		publisher: publisher,
		badges:    badges,
		logger:    log.With(logger.Component("command.access_resource")),
		now:       time.Now,
	}
}

// Handle executes the access resource command.
func (h *AccessResourceHandler) Handle(ctx context.Context, cmd AccessResourceCommand) (*AccessResourceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("access_resource: validation failed: %w", err)
	}

	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("access_resource: load record: %w", err)
	}

	result := &AccessResourceResult{Record: record}

	if !record.AccessResource(cmd.ResourceID) {
		// Repeat access. No points, no save, no events.
		return result, nil
	}
	result.FirstAccess = true
	result.PointsAwarded = progression.ResourceAccessBonus

	result.UnlockedBadges = h.badges.Check(record, h.now())

	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("access_resource: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewResourceAccessedEvent(record, cmd.ResourceID)); err != nil {
		h.logger.Warn("failed to publish resource accessed event", logger.Err(err))
	}
	if err := h.publisher.Publish(progression.NewPointsChangedEvent(record, progression.ResourceAccessBonus, "resource_access")); err != nil {
		h.logger.Warn("failed to publish points changed event", logger.Err(err))
	}
	for _, badge := range result.UnlockedBadges {
		if err := h.publisher.Publish(progression.NewBadgeUnlockedEvent(record, badge)); err != nil {
			h.logger.Warn("failed to publish badge unlocked event", logger.Err(err))
		}
	}

	h.logger.Info("resource accessed",
		logger.MemberID(record.ID),
		logger.ResourceID(cmd.ResourceID),
		logger.Points(record.Points.Int()),
	)

	return result, nil
}
