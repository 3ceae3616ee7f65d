package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGOUT COMMAND
// Завершает сессию и удаляет запись прогресса вместе с флагом ежедневного
// бонуса. Удаление необратимо: очки, серия и значки теряются.
//
// Множество закреплённых ресурсов НЕ трогается: закрепление - настройка
// факультета, она должна пережить смену пользователя.
// ══════════════════════════════════════════════════════════════════════════════

// LogoutCommand ends the session and wipes the progression record.
type LogoutCommand struct{}

// LogoutResult confirms the wipe.
type LogoutResult struct {
	// RecordID is the ID of the deleted record. Empty if no record existed.
	RecordID string `json:"record_id,omitempty"`

	// LoggedOutAt is when the logout happened.
	LoggedOutAt time.Time `json:"logged_out_at"`
}

// LogoutHandler handles the LogoutCommand.
type LogoutHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	logger    *logger.Logger

	now func() time.Time
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(store progression.Store, publisher shared.EventPublisher, log *logger.Logger) *LogoutHandler {
	return &LogoutHandler{
		store:     store,
		publisher: publisher,
		logger:    log.With(logger.Component("command.logout")),
		now:       time.Now,
	}
}

// Handle executes the logout command. Logging out without a stored record is
// not an error: the session is simply gone either way.
func (h *LogoutHandler) Handle(ctx context.Context, _ LogoutCommand) (*LogoutResult, error) {
	result := &LogoutResult{LoggedOutAt: h.now()}

	record, err := h.store.LoadRecord(ctx)
	switch {
	case errors.Is(err, progression.ErrRecordNotFound):
		// Nothing stored, still clear the bonus flag below.
	case err != nil:
		return nil, fmt.Errorf("logout: load record: %w", err)
	default:
		result.RecordID = record.ID
	}

	if err := h.store.DeleteRecord(ctx); err != nil {
		return nil, fmt.Errorf("logout: delete record: %w", err)
	}

	if err := h.store.ClearDailyBonus(ctx); err != nil {
		return nil, fmt.Errorf("logout: clear daily bonus: %w", err)
	}

	if record != nil {
		if err := h.publisher.Publish(progression.NewRecordDeletedEvent(record)); err != nil {
			h.logger.Warn("failed to publish record deleted event", logger.Err(err))
		}
		h.logger.Info("logged out", logger.MemberID(record.ID))
	}

	return result, nil
}
