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
// REDEEM REWARD COMMAND
// Обменивает очки на награду каталога. Платёжеспособность проверяется ДО
// списания; это единственная операция, где баланс не может уйти в минус.
// ══════════════════════════════════════════════════════════════════════════════

// InsufficientPointsError is returned when the balance cannot cover the
// reward cost. Shortfall tells the caller exactly how many points are missing,
// so the UI can render "need N more points" without recomputing.
type InsufficientPointsError struct {
	RewardID  string
	Cost      progression.Points
	Balance   progression.Points
	Shortfall progression.Points
}

// Error implements the error interface.
func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("redeem_reward: insufficient points for %s: need %d more (cost %d, balance %d)",
		e.RewardID, e.Shortfall.Int(), e.Cost.Int(), e.Balance.Int())
}

// Unwrap allows errors.Is(err, shared.ErrInsufficientBalance).
func (e *InsufficientPointsError) Unwrap() error {
	return shared.ErrInsufficientBalance
}

// RedeemRewardCommand spends points on a catalog reward.
type RedeemRewardCommand struct {
	// RewardID is the catalog identifier of the reward.
	RewardID string
}

// Validate validates the command.
func (c RedeemRewardCommand) Validate() error {
	if c.RewardID == "" {
		return errors.New("redeem_reward: reward_id is required")
	}
	return nil
}

// RedeemRewardResult describes a successful redemption.
type RedeemRewardResult struct {
	// Record is the record after the debit.
	Record *progression.Record `json:"record"`

	// Reward is the redeemed catalog reward.
	Reward catalog.Reward `json:"reward"`

	// RemainingPoints is the balance after the debit.
	RemainingPoints progression.Points `json:"remaining_points"`

	// RedeemedAt is when the redemption happened.
	RedeemedAt time.Time `json:"redeemed_at"`
}

// RedeemRewardHandler handles the RedeemRewardCommand.
type RedeemRewardHandler struct {
	store     progression.Store
	publisher shared.EventPublisher
	logger    *logger.Logger

	now func() time.Time
}

// NewRedeemRewardHandler creates a new RedeemRewardHandler.
func NewRedeemRewardHandler(store progression.Store, publisher shared.EventPublisher, log *logger.Logger) *RedeemRewardHandler {
	return &RedeemRewardHandler{
		store:     store,
		publisher: publisher,
		logger:    log.With(logger.Component("command.redeem_reward")),
		now:       time.Now,
	}
}

// Handle executes the redeem reward command.
func (h *RedeemRewardHandler) Handle(ctx context.Context, cmd RedeemRewardCommand) (*RedeemRewardResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("redeem_reward: validation failed: %w", err)
	}

	reward, ok := catalog.FindReward(cmd.RewardID)
	if !ok {
		return nil, shared.ErrRewardNotFound
	}

	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("redeem_reward: load record: %w", err)
	}

	if !record.Points.CanAfford(reward.PointsCost) {
		return nil, &InsufficientPointsError{
			RewardID:  reward.ID,
			Cost:      reward.PointsCost,
			Balance:   record.Points,
			Shortfall: record.Points.Shortfall(reward.PointsCost),
		}
	}

	record.AddPoints(-reward.PointsCost)

	if err := h.store.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("redeem_reward: save record: %w", err)
	}

	if err := h.publisher.Publish(progression.NewRewardRedeemedEvent(record, reward.ID, reward.PointsCost)); err != nil {
		h.logger.Warn("failed to publish reward redeemed event", logger.Err(err))
	}
	if err := h.publisher.Publish(progression.NewPointsChangedEvent(record, -reward.PointsCost, "reward_redeemed")); err != nil {
		h.logger.Warn("failed to publish points changed event", logger.Err(err))
	}

	h.logger.Info("reward redeemed",
		logger.MemberID(record.ID),
		logger.RewardID(reward.ID),
		logger.F("cost", reward.PointsCost.Int()),
		logger.Points(record.Points.Int()),
	)

	return &RedeemRewardResult{
		Record:          record,
		Reward:          reward,
		RemainingPoints: record.Points,
		RedeemedAt:      h.now(),
	}, nil
}
