package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// TOGGLE PIN COMMAND
// Переключает закрепление ресурса. Множество закреплённых ресурсов живёт под
// собственным ключом хранилища и переживает выход из системы.
//
// Команда не проверяет роль вызывающего: право кураторства (Role.CanCurate)
// проверяет слой интерфейса, который решает, показывать ли кнопку вообще.
// ══════════════════════════════════════════════════════════════════════════════

// TogglePinCommand flips the pinned state of one resource.
type TogglePinCommand struct {
	// ResourceID is the catalog identifier of the resource.
	ResourceID string
}

// Validate validates the command.
func (c TogglePinCommand) Validate() error {
	if c.ResourceID == "" {
		return errors.New("toggle_pin: resource_id is required")
	}
	if _, ok := catalog.FindResource(c.ResourceID); !ok {
		return shared.ErrResourceNotFound
	}
	return nil
}

// TogglePinResult describes the new pinned state.
type TogglePinResult struct {
	// Pinned is true when the resource is pinned after the toggle.
	Pinned bool `json:"pinned"`

	// PinnedResources is the full set after the toggle.
	PinnedResources progression.PinnedSet `json:"pinned_resources"`
}

// TogglePinHandler handles the TogglePinCommand.
type TogglePinHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	logger    *logger.Logger
}

// NewTogglePinHandler creates a new TogglePinHandler.
func NewTogglePinHandler(store progression.Store, publisher shared.EventPublisher, log *logger.Logger) *TogglePinHandler {
	return &TogglePinHandler{
		store:     store,
		publisher: publisher,
		logger:    log.With(logger.Component("command.toggle_pin")),
	}
}

// Handle executes the toggle pin command.
func (h *TogglePinHandler) Handle(ctx context.Context, cmd TogglePinCommand) (*TogglePinResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("toggle_pin: validation failed: %w", err)
	}

	pinned, err := h.store.PinnedResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("toggle_pin: load pinned set: %w", err)
	}

	pinned, nowPinned := pinned.Toggle(cmd.ResourceID)

	if err := h.store.SavePinnedResources(ctx, pinned); err != nil {
		return nil, fmt.Errorf("toggle_pin: save pinned set: %w", err)
	}

	// The pin event carries the record ID when a record exists; pinning is
	// allowed without one because the set belongs to the faculty, not the user.
	if record, err := h.store.LoadRecord(ctx); err == nil {
		if err := h.publisher.Publish(progression.NewPinToggledEvent(record, cmd.ResourceID, nowPinned)); err != nil {
			h.logger.Warn("failed to publish pin toggled event", logger.Err(err))
		}
	}

	h.logger.Info("resource pin toggled",
		logger.ResourceID(cmd.ResourceID),
		logger.Bool("pinned", nowPinned),
	)

	return &TogglePinResult{Pinned: nowPinned, PinnedResources: pinned}, nil
}
