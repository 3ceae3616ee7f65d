package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/leaderboard"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/persistence/memory"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

func seedRecord(t *testing.T, store *memory.Store, points progression.Points) *progression.Record {
	t.Helper()
	record, err := progression.NewRecord(progression.NewRecordParams{
		ID:      "rec-1",
		Name:    "Noora Al-Kuwari",
		Email:   "noora@udst.edu.qa",
		Role:    progression.RoleStudent,
		Program: progression.ProgramNursing,
	})
	require.NoError(t, err)
	record.Points = points
	require.NoError(t, store.SaveRecord(context.Background(), record))
	return record
}

// ─────────────────────────────────────────────────────────────────────────────
// Leaderboard
// ─────────────────────────────────────────────────────────────────────────────

func TestGetLeaderboard_UserInsideWindow(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 460)

	h := NewGetLeaderboardHandler(store)
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)

	require.Len(t, res.Entries, leaderboard.DefaultWindowSize)
	assert.Equal(t, leaderboard.Rank(3), res.UserRank)
	assert.True(t, res.UserVisible)
	assert.Equal(t, leaderboard.CurrentUserName, res.Entries[2].Username)
	assert.Equal(t, 460, res.Entries[2].Points)
}

func TestGetLeaderboard_UserOutsideWindow(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 50)

	h := NewGetLeaderboardHandler(store)
	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, leaderboard.Rank(6), res.UserRank)
	assert.False(t, res.UserVisible)
	for _, e := range res.Entries {
		assert.False(t, e.IsCurrentUser)
	}
}

func TestGetLeaderboard_NoRecord(t *testing.T) {
	h := NewGetLeaderboardHandler(memory.NewStore())
	_, err := h.Handle(context.Background(), GetLeaderboardQuery{})
	assert.ErrorIs(t, err, progression.ErrRecordNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Rewards
// ─────────────────────────────────────────────────────────────────────────────

func TestGetRewards_MarksAffordability(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 80)

	h := NewGetRewardsHandler(store)
	res, err := h.Handle(context.Background(), GetRewardsQuery{})
	require.NoError(t, err)

	require.Len(t, res.Rewards, 8)
	byID := make(map[string]RewardView)
	for _, rv := range res.Rewards {
		byID[rv.ID] = rv
	}

	assert.True(t, byID["coffee-voucher"].Affordable)
	assert.True(t, byID["peer-mentor-session"].Affordable)
	assert.False(t, byID["sim-lab-priority"].Affordable)
	assert.Equal(t, progression.Points(20), byID["sim-lab-priority"].Shortfall)
}

func TestGetRewards_NextRewardFollowsCatalogOrder(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 80)

	h := NewGetRewardsHandler(store)
	res, err := h.Handle(context.Background(), GetRewardsQuery{})
	require.NoError(t, err)

	require.NotNil(t, res.NextReward)
	assert.Equal(t, "sim-lab-priority", res.NextReward.Reward.ID)
	assert.InDelta(t, 80.0, res.NextReward.Progress, 0.001)
	assert.Equal(t, progression.Points(20), res.NextReward.PointsNeeded)
}

func TestGetRewards_RedeemedExcludedFromNext(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 120)

	h := NewGetRewardsHandler(store)
	res, err := h.Handle(context.Background(), GetRewardsQuery{
		RedeemedRewardIDs: []string{"certificate-recognition"},
	})
	require.NoError(t, err)

	require.NotNil(t, res.NextReward)
	assert.Equal(t, "clinical-case-access", res.NextReward.Reward.ID)

	byID := make(map[string]RewardView)
	for _, rv := range res.Rewards {
		byID[rv.ID] = rv
	}
	assert.True(t, byID["certificate-recognition"].Redeemed)
}

func TestGetRewards_CategoryFilter(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 100)

	h := NewGetRewardsHandler(store)
	res, err := h.Handle(context.Background(), GetRewardsQuery{Category: catalog.CategoryAcademic})
	require.NoError(t, err)

	require.NotEmpty(t, res.Rewards)
	for _, rv := range res.Rewards {
		assert.Equal(t, catalog.CategoryAcademic, rv.Category)
	}
}

func TestGetRewards_EverythingReachable(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 500)

	h := NewGetRewardsHandler(store)
	res, err := h.Handle(context.Background(), GetRewardsQuery{})
	require.NoError(t, err)
	assert.Nil(t, res.NextReward)
}

// ─────────────────────────────────────────────────────────────────────────────
// Progress
// ─────────────────────────────────────────────────────────────────────────────

func TestGetProgress_Percentages(t *testing.T) {
	store := memory.NewStore()
	record := seedRecord(t, store, 200)
	record.ResourcesAccessed = []string{"n1", "n2", "n3", "n4", "a1"}
	record.Collaborations = 4
	record.Streak = 7
	require.NoError(t, store.SaveRecord(context.Background(), record))

	h := NewGetProgressHandler(store)
	res, err := h.Handle(context.Background(), GetProgressQuery{})
	require.NoError(t, err)

	assert.InDelta(t, 25.0, res.ResourceProgress, 0.001)
	assert.InDelta(t, 40.0, res.CollaborationProgress, 0.001)
	assert.InDelta(t, 32.5, res.OverallProgress, 0.001)
	assert.Equal(t, 7, res.Streak)
	require.Len(t, res.Badges, 5)
}

func TestGetProgress_BadgeMarks(t *testing.T) {
	store := memory.NewStore()
	record := seedRecord(t, store, 200)
	record.Badges = []progression.EarnedBadge{{Kind: progression.BadgeCollaborator}}
	require.NoError(t, store.SaveRecord(context.Background(), record))

	h := NewGetProgressHandler(store)
	res, err := h.Handle(context.Background(), GetProgressQuery{})
	require.NoError(t, err)

	earned := make(map[progression.BadgeKind]bool)
	for _, bv := range res.Badges {
		earned[bv.Kind] = bv.Earned
	}
	assert.True(t, earned[progression.BadgeCollaborator])
	assert.False(t, earned[progression.BadgeStreakMaster])
	assert.False(t, earned[progression.BadgeForumChampion])
}

func TestGetProgress_OvershootCapsAtHundred(t *testing.T) {
	store := memory.NewStore()
	record := seedRecord(t, store, 200)
	record.Collaborations = 25
	require.NoError(t, store.SaveRecord(context.Background(), record))

	h := NewGetProgressHandler(store)
	res, err := h.Handle(context.Background(), GetProgressQuery{})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, res.CollaborationProgress, 0.001)
}

// ─────────────────────────────────────────────────────────────────────────────
// Resources
// ─────────────────────────────────────────────────────────────────────────────

func TestGetResources_DefaultPinsWhenUntouched(t *testing.T) {
	store := memory.NewStore()
	seedRecord(t, store, 50)

	h := NewGetResourcesHandler(store)
	res, err := h.Handle(context.Background(), GetResourcesQuery{})
	require.NoError(t, err)

	require.Len(t, res.Resources, 8, "program resources plus shared ones")
	assert.True(t, res.Resources[0].Pinned, "pinned resources come first")

	pinnedIDs := make(map[string]bool)
	for _, rv := range res.Resources {
		if rv.Pinned {
			pinnedIDs[rv.ID] = true
		}
	}
	assert.True(t, pinnedIDs["n1"])
	assert.True(t, pinnedIDs["a1"])
	assert.True(t, pinnedIDs["a4"])
}

func TestGetResources_StoredPinsOverrideDefaults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	record := seedRecord(t, store, 50)
	record.ResourcesAccessed = []string{"n2"}
	require.NoError(t, store.SaveRecord(ctx, record))
	require.NoError(t, store.SavePinnedResources(ctx, progression.PinnedSet{"n2"}))

	h := NewGetResourcesHandler(store)
	res, err := h.Handle(ctx, GetResourcesQuery{})
	require.NoError(t, err)

	assert.Equal(t, "n2", res.Resources[0].ID)
	assert.True(t, res.Resources[0].Pinned)
	assert.True(t, res.Resources[0].Visited)
	for _, rv := range res.Resources[1:] {
		assert.False(t, rv.Pinned)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Dashboard
// ─────────────────────────────────────────────────────────────────────────────

func TestGetDashboard_BonusAvailability(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedRecord(t, store, 50)

	at := timeutil.DateTime(2026, 3, 11, 10, 0, 0)

	h := NewGetDashboardHandler(store)
	res, err := h.Handle(ctx, GetDashboardQuery{At: at})
	require.NoError(t, err)
	assert.True(t, res.DailyBonusAvailable)
	assert.Equal(t, "Noora Al-Kuwari", res.MemberName)
	assert.Equal(t, "Nursing (B.Sc. N)", res.Program.Title)
	require.Len(t, res.Challenges, 3)
	assert.False(t, res.Challenges[0].Completed)

	require.NoError(t, store.SetDailyBonusClaimedOn(ctx, timeutil.CivilDateOf(at)))

	res, err = h.Handle(ctx, GetDashboardQuery{At: at})
	require.NoError(t, err)
	assert.False(t, res.DailyBonusAvailable)
	assert.True(t, res.Challenges[0].Completed)
}

func TestGetDashboard_ClaimYesterdayMakesBonusAvailable(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedRecord(t, store, 50)
	require.NoError(t, store.SetDailyBonusClaimedOn(ctx, timeutil.CivilDate{Year: 2026, Month: 3, Day: 10}))

	h := NewGetDashboardHandler(store)
	res, err := h.Handle(ctx, GetDashboardQuery{At: timeutil.DateTime(2026, 3, 11, 8, 0, 0)})
	require.NoError(t, err)
	assert.True(t, res.DailyBonusAvailable)
}
