package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the engagement engine.
// Supports gradual rollout, member targeting, and time-boxed campaigns
// (e.g. double-points weeks piloted with one program first).
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	memberOverrides map[string]map[string]bool // memberID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Members are assigned based on hash of their record ID
	RolloutPercent int

	// Program targeting (e.g. "nursing", "paramedicine")
	// Empty means all programs
	TargetPrograms []string

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	MemberID string // progression record ID

	Program   string // health sciences program (e.g. "nursing")
	IsFaculty bool   // faculty members see features early
}

// Predefined feature flag names.
const (
	// === Badge Features ===
	FeatureBadgeEarlyBird = "badges.early_bird" // Early Bird badge before 8 AM Doha

	// === Reward Features ===
	FeatureRewardDailyBonus = "rewards.daily_bonus" // Once-a-day login bonus
	FeatureRewardRedemption = "rewards.redemption"  // Reward showcase and redemption

	// === Leaderboard Features ===
	FeatureLeaderboardWindow = "leaderboard.window" // Weekly leaderboard window

	// === Curation Features ===
	FeatureCurationPinning = "curation.pinning" // Faculty resource pinning

	// === Experimental Features ===
	FeatureExperimentalFeed        = "experimental.activity_feed" // Recent activity feed
	FeatureExperimentalRedisFanout = "experimental.redis_fanout"  // Cross-instance events
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:        make(map[string]*Feature),
		memberOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureBadgeEarlyBird] = &Feature{
		Name:           FeatureBadgeEarlyBird,
		Description:    "Award the Early Bird badge for logins before 8 AM Doha time",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureRewardDailyBonus] = &Feature{
		Name:           FeatureRewardDailyBonus,
		Description:    "Once-per-day login bonus",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureRewardRedemption] = &Feature{
		Name:           FeatureRewardRedemption,
		Description:    "Reward showcase and point redemption",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureLeaderboardWindow] = &Feature{
		Name:           FeatureLeaderboardWindow,
		Description:    "Weekly leaderboard window with the current user inserted",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureCurationPinning] = &Feature{
		Name:           FeatureCurationPinning,
		Description:    "Resource pinning controls for faculty",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureExperimentalFeed] = &Feature{
		Name:           FeatureExperimentalFeed,
		Description:    "Recent activity feed on the dashboard",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureExperimentalRedisFanout] = &Feature{
		Name:           FeatureExperimentalRedisFanout,
		Description:    "Cross-instance event fan-out over Redis pub/sub",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment applies environment overrides.
// FEATURE_BADGES_EARLY_BIRD=false disables, FEATURE_BADGES_EARLY_BIRD=25
// enables with a 25% rollout.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}

		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
			if b {
				feature.RolloutPercent = 100
			} else {
				feature.RolloutPercent = 0
			}
			continue
		}

		if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
			feature.Enabled = p > 0
			feature.RolloutPercent = p
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "badges.early_bird" -> "FEATURE_BADGES_EARLY_BIRD"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check member overrides first
	if ctx != nil && ctx.MemberID != "" {
		if overrides, ok := ff.memberOverrides[ctx.MemberID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Faculty members get all features
	if ctx != nil && ctx.IsFaculty {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check program targeting
	if len(feature.TargetPrograms) > 0 && ctx != nil && ctx.Program != "" {
		match := false
		for _, p := range feature.TargetPrograms {
			if p == ctx.Program {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.MemberID != "" {
		return ff.isInRollout(ctx.MemberID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a member is in the rollout percentage.
// Uses consistent hashing so members stay in their bucket.
func (ff *FeatureFlags) isInRollout(memberID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(memberID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetMemberOverride sets a feature override for a specific member.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetMemberOverride(memberID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.memberOverrides[memberID]; !ok {
		ff.memberOverrides[memberID] = make(map[string]bool)
	}
	ff.memberOverrides[memberID][featureName] = enabled
}

// ClearMemberOverrides removes all overrides for a member.
func (ff *FeatureFlags) ClearMemberOverrides(memberID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.memberOverrides, memberID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
