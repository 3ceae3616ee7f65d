package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Возобновляет доступ к сохранённой записи по email. Пароль принимается,
// но не сверяется с хешем: портал доверяет внешнему SSO университета,
// а форма входа существует только для выбора записи.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand contains the credentials presented at the login form.
type LoginCommand struct {
	// Email selects the stored record. Comparison is case-insensitive.
	Email string

	// Password is accepted but never verified against the stored hash.
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return progression.ErrInvalidEmail
	}
	return nil
}

// LoginResult contains the record the session was attached to.
type LoginResult struct {
	// Record is the stored progression record with LastLogin already stamped.
	Record *progression.Record `json:"record"`

	// PreviousLogin is the LastLogin value before this login overwrote it.
	// The streak recompute at session resume uses it as its baseline.
	PreviousLogin time.Time `json:"previous_login"`

	// LoggedInAt is when the login happened.
	LoggedInAt time.Time `json:"logged_in_at"`
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	logger    *logger.Logger

	now func() time.Time
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(store progression.Store, publisher shared.EventPublisher, log *logger.Logger) *LoginHandler {
	return &LoginHandler{
		store:     store,
		publisher: publisher,
		logger:    log.With(logger.Component("command.login")),
		now:       time.Now,
	}
}

// Handle executes the login command.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("login: validation failed: %w", err)
	}

	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		if errors.Is(err, progression.ErrRecordNotFound) {
			return nil, shared.ErrLoginUnknownEmail
		}
		return nil, fmt.Errorf("login: load record: %w", err)
	}

	if !strings.EqualFold(strings.TrimSpace(cmd.Email), record.Email) {
		return nil, shared.ErrLoginUnknownEmail
	}

	at := h.now()
	previous := record.StampLogin(at)
	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("login: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewLoggedInEvent(record)); err != nil {
		h.logger.Warn("failed to publish logged in event", logger.Err(err))
	}

	h.logger.Info("logged in", logger.MemberID(record.ID), logger.Email(record.Email))

	return &LoginResult{Record: record, PreviousLogin: previous, LoggedInAt: at}, nil
}
