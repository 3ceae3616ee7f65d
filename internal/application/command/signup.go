// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SIGNUP COMMAND
// Создаёт новую запись прогресса: приветственный бонус, серия из одного дня,
// пустые наборы значков и ресурсов.
// ══════════════════════════════════════════════════════════════════════════════

// SignupCommand contains the data to create a progression record.
type SignupCommand struct {
	// Name is the display name of the member.
	Name string

	// Email identifies the record on subsequent logins.
	Email string

	// Password is the raw password. Only the bcrypt hash is stored.
	Password string

	// Role is "student" or "faculty".
	Role progression.Role

	// Program is the health sciences program of the member.
	Program progression.Program
}

// Validate validates the command. Name, email, role and program rules live in
// the domain constructor; only the password is checked here because the raw
// password never reaches the domain layer.
func (c SignupCommand) Validate() error {
	if len(c.Password) < progression.MinPasswordLength {
		return progression.ErrInvalidPassword
	}
	return nil
}

// SignupResult contains the freshly created record.
type SignupResult struct {
	// Record is the created progression record.
	Record *progression.Record `json:"record"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`
}

// SignupHandler handles the SignupCommand.
type SignupHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	logger    *logger.Logger

	// now is swappable in tests.
	now func() time.Time
}

// NewSignupHandler creates a new SignupHandler.
func NewSignupHandler(store progression.Store, publisher shared.EventPublisher, log *logger.Logger) *SignupHandler {
	return &SignupHandler{
		store:     store,
		publisher: publisher,
		logger:    log.With(logger.Component("command.signup")),
		now:       time.Now,
	}
}

// Handle executes the signup command.
func (h *SignupHandler) Handle(ctx context.Context, cmd SignupCommand) (*SignupResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("signup: validation failed: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	record, err := progression.NewRecord(progression.NewRecordParams{
		ID:           uuid.New().String(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         cmd.Role,
		Program:      cmd.Program,
	})
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("signup: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewRecordCreatedEvent(record)); err != nil {
		h.logger.Warn("failed to publish record created event", logger.Err(err))
	}

	h.logger.Info("progression record created",
		logger.MemberID(record.ID),
		logger.Email(record.Email),
		logger.Points(record.Points.Int()),
	)

	return &SignupResult{Record: record, CreatedAt: h.now()}, nil
}
