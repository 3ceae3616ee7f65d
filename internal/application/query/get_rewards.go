package query

import (
	"context"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REWARDS QUERY
// Витрина наград: каждая награда с признаками доступности и нехватки очков,
// плюс "следующая цель" с процентом накопления.
//
// Список уже обменянных наград в этой сессии передаётся вызывающим: он живёт
// в состоянии интерфейса и не сохраняется в хранилище.
// ══════════════════════════════════════════════════════════════════════════════

// GetRewardsQuery contains the reward showcase request.
type GetRewardsQuery struct {
	// Category filters the catalog. CategoryAll shows everything.
	Category catalog.RewardCategory

	// RedeemedRewardIDs lists rewards already redeemed in this session.
	RedeemedRewardIDs []string
}

// RewardView is one reward card of the showcase.
type RewardView struct {
	catalog.Reward

	// Affordable is true when the current balance covers the cost.
	Affordable bool `json:"affordable"`

	// Shortfall is how many points are missing, zero when affordable.
	Shortfall progression.Points `json:"shortfall"`

	// Redeemed is true when the reward was redeemed in this session.
	Redeemed bool `json:"redeemed"`
}

// NextRewardView points at the cheapest not-yet-reachable reward.
type NextRewardView struct {
	Reward catalog.Reward `json:"reward"`

	// Progress is the accumulation percentage towards the cost, capped at 100.
	Progress float64 `json:"progress"`

	// PointsNeeded is how many points are still missing.
	PointsNeeded progression.Points `json:"points_needed"`
}

// GetRewardsResult contains the showcase.
type GetRewardsResult struct {
	// Balance is the current points balance.
	Balance progression.Points `json:"balance"`

	// Rewards are the reward cards in catalog order.
	Rewards []RewardView `json:"rewards"`

	// NextReward is the first catalog reward that costs more than the current
	// balance and was not redeemed yet. Nil when everything is reachable.
	NextReward *NextRewardView `json:"next_reward,omitempty"`
}

// GetRewardsHandler handles the GetRewardsQuery.
type GetRewardsHandler struct {
	store progression.RecordStore
}

// NewGetRewardsHandler creates a new GetRewardsHandler.
func NewGetRewardsHandler(store progression.RecordStore) *GetRewardsHandler {
	return &GetRewardsHandler{store: store}
}

// Handle executes the rewards query.
func (h *GetRewardsHandler) Handle(ctx context.Context, q GetRewardsQuery) (*GetRewardsResult, error) {
	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_rewards: load record: %w", err)
	}

	redeemed := make(map[string]bool, len(q.RedeemedRewardIDs))
	for _, id := range q.RedeemedRewardIDs {
		redeemed[id] = true
	}

	category := q.Category
	if category == "" {
		category = catalog.CategoryAll
	}

	balance := record.Points
	result := &GetRewardsResult{Balance: balance}

	for _, reward := range catalog.RewardsByCategory(category) {
		result.Rewards = append(result.Rewards, RewardView{
			Reward:     reward,
			Affordable: balance.CanAfford(reward.PointsCost),
			Shortfall:  balance.Shortfall(reward.PointsCost),
			Redeemed:   redeemed[reward.ID],
		})
	}

	// The next goal always scans the full catalog, ignoring the filter.
	for _, reward := range catalog.Rewards() {
		if redeemed[reward.ID] || balance.CanAfford(reward.PointsCost) {
			continue
		}
		progress := float64(balance.Int()) / float64(reward.PointsCost.Int()) * 100
		if progress < 0 {
			progress = 0
		}
		result.NextReward = &NextRewardView{
			Reward:       reward,
			Progress:     progress,
			PointsNeeded: balance.Shortfall(reward.PointsCost),
		}
		break
	}

	return result, nil
}
