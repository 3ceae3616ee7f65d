package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "udst-healthpage", cfg.App.Name)
	assert.Equal(t, EnvDevelopment, cfg.App.Environment)
	assert.Equal(t, StorageMemory, cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.Engagement.LeaderboardWindow)
	assert.NotNil(t, cfg.Features)
}

func TestLoad_BackendOverride(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache.internal")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageRedis, cfg.Storage.Backend)
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
}

func TestValidate_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "tape")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestValidate_RejectsBadLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestFeatureFlags_Defaults(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.IsEnabled(FeatureBadgeEarlyBird, nil))
	assert.True(t, ff.IsEnabled(FeatureRewardDailyBonus, nil))
	assert.False(t, ff.IsEnabled(FeatureExperimentalRedisFanout, nil))
	assert.False(t, ff.IsEnabled("does.not.exist", nil))
}

func TestFeatureFlags_EnvOverride(t *testing.T) {
	t.Setenv("FEATURE_BADGES_EARLY_BIRD", "false")
	t.Setenv("FEATURE_EXPERIMENTAL_REDIS_FANOUT", "true")

	ff := LoadFeatureFlags()
	assert.False(t, ff.IsEnabled(FeatureBadgeEarlyBird, nil))
	assert.True(t, ff.IsEnabled(FeatureExperimentalRedisFanout, nil))
}

func TestFeatureFlags_FacultySeesEverything(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{MemberID: "rec-1", IsFaculty: true}
	assert.True(t, ff.IsEnabled(FeatureExperimentalRedisFanout, ctx))
}

func TestFeatureFlags_MemberOverrideWins(t *testing.T) {
	ff := LoadFeatureFlags()
	ctx := &FeatureContext{MemberID: "rec-1"}

	require.True(t, ff.IsEnabled(FeatureRewardRedemption, ctx))
	ff.SetMemberOverride("rec-1", FeatureRewardRedemption, false)
	assert.False(t, ff.IsEnabled(FeatureRewardRedemption, ctx))

	ff.ClearMemberOverrides("rec-1")
	assert.True(t, ff.IsEnabled(FeatureRewardRedemption, ctx))
}

func TestFeatureFlags_RolloutBucketsAreStable(t *testing.T) {
	ff := LoadFeatureFlags()
	require.NoError(t, ff.SetRolloutPercent(FeatureExperimentalFeed, 50))

	ctx := &FeatureContext{MemberID: "rec-42"}
	first := ff.IsEnabled(FeatureExperimentalFeed, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureExperimentalFeed, ctx))
	}
}

func TestFeatureFlags_RolloutPercentBounds(t *testing.T) {
	ff := LoadFeatureFlags()
	assert.ErrorIs(t, ff.SetRolloutPercent(FeatureExperimentalFeed, 101), ErrInvalidRolloutPercent)
	assert.ErrorIs(t, ff.SetRolloutPercent("does.not.exist", 10), ErrFeatureNotFound)
}
