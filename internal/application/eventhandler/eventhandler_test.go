package eventhandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
)

func newRecord(t *testing.T) *progression.Record {
	t.Helper()
	record, err := progression.NewRecord(progression.NewRecordParams{
		ID:      "rec-1",
		Name:    "Maryam",
		Email:   "maryam@udst.edu.qa",
		Role:    progression.RoleFaculty,
		Program: progression.ProgramRadiography,
	})
	require.NoError(t, err)
	return record
}

func TestOnBadgeUnlocked_CountsByKind(t *testing.T) {
	record := newRecord(t)
	h := NewOnBadgeUnlockedHandler(logger.New(logger.Options{Level: logger.LevelError}))

	badge := progression.EarnedBadge{Kind: progression.BadgeEarlyBird, EarnedAt: time.Now()}
	require.NoError(t, h.Handle(progression.NewBadgeUnlockedEvent(record, badge)))
	require.NoError(t, h.Handle(progression.NewBadgeUnlockedEvent(record, badge)))

	other := progression.EarnedBadge{Kind: progression.BadgeCollaborator, EarnedAt: time.Now()}
	require.NoError(t, h.Handle(progression.NewBadgeUnlockedEvent(record, other)))

	counts := h.Counts()
	assert.Equal(t, 2, counts[progression.BadgeEarlyBird])
	assert.Equal(t, 1, counts[progression.BadgeCollaborator])
}

func TestOnBadgeUnlocked_IgnoresOtherEvents(t *testing.T) {
	record := newRecord(t)
	h := NewOnBadgeUnlockedHandler(logger.New(logger.Options{Level: logger.LevelError}))

	require.NoError(t, h.Handle(progression.NewLoggedInEvent(record)))
	assert.Empty(t, h.Counts())
}

func TestActivityFeed_RecentNewestFirst(t *testing.T) {
	record := newRecord(t)
	feed := NewActivityFeed(10)

	require.NoError(t, feed.Handle(progression.NewRecordCreatedEvent(record)))
	require.NoError(t, feed.Handle(progression.NewResourceAccessedEvent(record, "r1")))
	require.NoError(t, feed.Handle(progression.NewCollaborationAddedEvent(record)))

	recent := feed.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "completed a collaboration", recent[0].Description)
	assert.Equal(t, "opened resource r1", recent[1].Description)
}

func TestActivityFeed_CapacityEviction(t *testing.T) {
	record := newRecord(t)
	feed := NewActivityFeed(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, feed.Handle(progression.NewCollaborationAddedEvent(record)))
	}
	assert.Equal(t, 3, feed.Len())
}

func TestActivityFeed_Descriptions(t *testing.T) {
	record := newRecord(t)
	feed := NewActivityFeed(0)

	badge := progression.EarnedBadge{Kind: progression.BadgeStreakMaster, EarnedAt: time.Now()}
	require.NoError(t, feed.Handle(progression.NewBadgeUnlockedEvent(record, badge)))
	require.NoError(t, feed.Handle(progression.NewRewardRedeemedEvent(record, "coffee-voucher", 50)))

	recent := feed.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "redeemed reward coffee-voucher", recent[0].Description)
	assert.Equal(t, "unlocked badge Streak Master", recent[1].Description)
}
