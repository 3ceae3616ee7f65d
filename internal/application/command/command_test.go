package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/persistence/memory"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.Event
}

func (p *recordingPublisher) Publish(event shared.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) eventTypes() []shared.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]shared.EventType, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

type testEnv struct {
	store     *memory.Store
	publisher *recordingPublisher
	logger    *logger.Logger
	badges    *progression.BadgeChecker
}

func newTestEnv() *testEnv {
	return &testEnv{
		store:     memory.NewStore(),
		publisher: &recordingPublisher{},
		logger:    logger.New(logger.Options{Level: logger.LevelError}),
		badges:    progression.NewBadgeChecker(),
	}
}

func (env *testEnv) signup(t *testing.T) *progression.Record {
	t.Helper()
	h := NewSignupHandler(env.store, env.publisher, env.logger)
	res, err := h.Handle(context.Background(), SignupCommand{
		Name:     "Aisha Al-Thani",
		Email:    "aisha@udst.edu.qa",
		Password: "paramedic2026",
		Role:     progression.RoleStudent,
		Program:  progression.ProgramParamedicine,
	})
	require.NoError(t, err)
	return res.Record
}

// ─────────────────────────────────────────────────────────────────────────────
// Signup
// ─────────────────────────────────────────────────────────────────────────────

func TestSignup_CreatesWelcomeState(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)

	assert.NotEmpty(t, record.ID)
	assert.Equal(t, progression.WelcomeBonus, record.Points)
	assert.Equal(t, 1, record.Streak)
	assert.Empty(t, record.Badges)
	assert.NotEqual(t, "paramedic2026", record.PasswordHash, "raw password must not be stored")

	stored, err := env.store.LoadRecord(context.Background())
	require.NoError(t, err)
	assert.Equal(t, record.ID, stored.ID)

	assert.Contains(t, env.publisher.eventTypes(), shared.EventRecordCreated)
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	env := newTestEnv()
	h := NewSignupHandler(env.store, env.publisher, env.logger)

	_, err := h.Handle(context.Background(), SignupCommand{
		Name:     "Aisha",
		Email:    "aisha@udst.edu.qa",
		Password: "short",
		Role:     progression.RoleStudent,
		Program:  progression.ProgramNursing,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, progression.ErrInvalidPassword)

	_, loadErr := env.store.LoadRecord(context.Background())
	assert.ErrorIs(t, loadErr, progression.ErrRecordNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────────────────────────────────────

func TestLogin_MatchesEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewLoginHandler(env.store, env.publisher, env.logger)
	res, err := h.Handle(context.Background(), LoginCommand{
		Email:    "AISHA@udst.edu.qa",
		Password: "whatever",
	})
	require.NoError(t, err)
	assert.Equal(t, "aisha@udst.edu.qa", res.Record.Email)
	assert.Contains(t, env.publisher.eventTypes(), shared.EventLoggedIn)
}

func TestLogin_StampsLastLogin(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)

	previous := timeutil.DateTime(2026, 3, 10, 19, 0, 0)
	record.LastLogin = previous
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewLoginHandler(env.store, env.publisher, env.logger)
	res, err := h.Handle(context.Background(), LoginCommand{
		Email:    "aisha@udst.edu.qa",
		Password: "whatever",
	})
	require.NoError(t, err)
	// The record went through a JSON round-trip, so compare instants, not
	// time.Time structs: the zone comes back as a fixed offset.
	assert.True(t, res.PreviousLogin.Equal(previous), "previous login instant must be preserved")

	stored, err := env.store.LoadRecord(context.Background())
	require.NoError(t, err)
	assert.True(t, stored.LastLogin.After(previous), "login must persist the new LastLogin")
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewLoginHandler(env.store, env.publisher, env.logger)
	_, err := h.Handle(context.Background(), LoginCommand{Email: "stranger@udst.edu.qa"})
	assert.ErrorIs(t, err, shared.ErrLoginUnknownEmail)
}

func TestLogin_NoStoredRecord(t *testing.T) {
	env := newTestEnv()
	h := NewLoginHandler(env.store, env.publisher, env.logger)
	_, err := h.Handle(context.Background(), LoginCommand{Email: "aisha@udst.edu.qa"})
	assert.ErrorIs(t, err, shared.ErrLoginUnknownEmail)
}

// ─────────────────────────────────────────────────────────────────────────────
// Resume session
// ─────────────────────────────────────────────────────────────────────────────

func TestResumeSession_ExtendsStreakNextDay(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)
	record.LastLogin = timeutil.DateTime(2026, 3, 10, 20, 0, 0)
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewResumeSessionHandler(env.store, env.publisher, env.badges, env.logger)
	res, err := h.Handle(context.Background(), ResumeSessionCommand{
		At: timeutil.DateTime(2026, 3, 11, 9, 30, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, progression.StreakExtended, res.Transition)
	assert.Equal(t, 1, res.DaysAway)
	assert.Equal(t, 2, res.Record.Streak)
	assert.Contains(t, env.publisher.eventTypes(), shared.EventSessionResumed)
}

func TestResumeSession_ResetsStreakAfterGap(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)
	record.Streak = 6
	record.LastLogin = timeutil.DateTime(2026, 3, 10, 12, 0, 0)
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewResumeSessionHandler(env.store, env.publisher, env.badges, env.logger)
	res, err := h.Handle(context.Background(), ResumeSessionCommand{
		At: timeutil.DateTime(2026, 3, 14, 12, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, progression.StreakResetTransition, res.Transition)
	assert.Equal(t, 4, res.DaysAway)
	assert.Equal(t, 1, res.Record.Streak)
}

func TestResumeSession_AwardsStreakMaster(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)
	record.Streak = 6
	record.LastLogin = timeutil.DateTime(2026, 3, 10, 12, 0, 0)
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewResumeSessionHandler(env.store, env.publisher, env.badges, env.logger)
	res, err := h.Handle(context.Background(), ResumeSessionCommand{
		At: timeutil.DateTime(2026, 3, 11, 12, 0, 0),
	})
	require.NoError(t, err)

	require.Len(t, res.UnlockedBadges, 1)
	assert.Equal(t, progression.BadgeStreakMaster, res.UnlockedBadges[0].Kind)
	assert.Contains(t, env.publisher.eventTypes(), shared.EventBadgeUnlocked)
}

func TestResumeSession_EarlyBirdBeforeEight(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)
	record.LastLogin = timeutil.DateTime(2026, 3, 10, 12, 0, 0)
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewResumeSessionHandler(env.store, env.publisher, env.badges, env.logger)
	res, err := h.Handle(context.Background(), ResumeSessionCommand{
		At: timeutil.DateTime(2026, 3, 11, 7, 15, 0),
	})
	require.NoError(t, err)

	require.Len(t, res.UnlockedBadges, 1)
	assert.Equal(t, progression.BadgeEarlyBird, res.UnlockedBadges[0].Kind)
}

func TestResumeSession_SameDayIsNoop(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)
	record.LastLogin = timeutil.DateTime(2026, 3, 11, 9, 0, 0)
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewResumeSessionHandler(env.store, env.publisher, env.badges, env.logger)
	res, err := h.Handle(context.Background(), ResumeSessionCommand{
		At: timeutil.DateTime(2026, 3, 11, 21, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, progression.StreakUnchanged, res.Transition)
	assert.Equal(t, 1, res.Record.Streak)
}

// ─────────────────────────────────────────────────────────────────────────────
// Logout
// ─────────────────────────────────────────────────────────────────────────────

func TestLogout_DeletesRecordKeepsPins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.signup(t)

	require.NoError(t, env.store.SavePinnedResources(ctx, progression.PinnedSet{"n1", "a4"}))
	require.NoError(t, env.store.SetDailyBonusClaimedOn(ctx, timeutil.Today()))

	h := NewLogoutHandler(env.store, env.publisher, env.logger)
	res, err := h.Handle(ctx, LogoutCommand{})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RecordID)

	_, err = env.store.LoadRecord(ctx)
	assert.ErrorIs(t, err, progression.ErrRecordNotFound)

	claimedOn, err := env.store.DailyBonusClaimedOn(ctx)
	require.NoError(t, err)
	assert.True(t, claimedOn.IsZero(), "daily bonus flag must be cleared")

	pinned, err := env.store.PinnedResources(ctx)
	require.NoError(t, err)
	assert.Equal(t, progression.PinnedSet{"n1", "a4"}, pinned, "pinned set survives logout")

	assert.Contains(t, env.publisher.eventTypes(), shared.EventRecordDeleted)
}

func TestLogout_WithoutRecord(t *testing.T) {
	env := newTestEnv()
	h := NewLogoutHandler(env.store, env.publisher, env.logger)

	res, err := h.Handle(context.Background(), LogoutCommand{})
	require.NoError(t, err)
	assert.Empty(t, res.RecordID)
	assert.Empty(t, env.publisher.eventTypes())
}

// ─────────────────────────────────────────────────────────────────────────────
// Access resource
// ─────────────────────────────────────────────────────────────────────────────

func TestAccessResource_FirstAccessAwardsPoints(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewAccessResourceHandler(env.store, env.publisher, env.badges, env.logger)
	res, err := h.Handle(context.Background(), AccessResourceCommand{ResourceID: "p1"})
	require.NoError(t, err)

	assert.True(t, res.FirstAccess)
	assert.Equal(t, progression.ResourceAccessBonus, res.PointsAwarded)
	assert.Equal(t, progression.WelcomeBonus+progression.ResourceAccessBonus, res.Record.Points)
	assert.Contains(t, env.publisher.eventTypes(), shared.EventResourceAccessed)
}

func TestAccessResource_RepeatAccessIsNoop(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewAccessResourceHandler(env.store, env.publisher, env.badges, env.logger)
	_, err := h.Handle(context.Background(), AccessResourceCommand{ResourceID: "p1"})
	require.NoError(t, err)

	res, err := h.Handle(context.Background(), AccessResourceCommand{ResourceID: "p1"})
	require.NoError(t, err)

	assert.False(t, res.FirstAccess)
	assert.Equal(t, progression.Points(0), res.PointsAwarded)
	assert.Equal(t, progression.WelcomeBonus+progression.ResourceAccessBonus, res.Record.Points)
}

func TestAccessResource_UnknownResource(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewAccessResourceHandler(env.store, env.publisher, env.badges, env.logger)
	_, err := h.Handle(context.Background(), AccessResourceCommand{ResourceID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrResourceNotFound)
}

func TestAccessResource_TenthUnlocksExplorer(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	ids := []string{"p1", "p2", "p3", "p4", "n1", "n2", "n3", "n4", "r1", "r2"}
	h := NewAccessResourceHandler(env.store, env.publisher, env.badges, env.logger)

	var last *AccessResourceResult
	for _, id := range ids {
		res, err := h.Handle(context.Background(), AccessResourceCommand{ResourceID: id})
		require.NoError(t, err)
		last = res
	}

	require.Len(t, last.UnlockedBadges, 1)
	assert.Equal(t, progression.BadgeResourceExplorer, last.UnlockedBadges[0].Kind)
}

// ─────────────────────────────────────────────────────────────────────────────
// Add collaboration
// ─────────────────────────────────────────────────────────────────────────────

func TestAddCollaboration_RepeatableCredit(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewAddCollaborationHandler(env.store, env.publisher, env.badges, env.logger)

	var last *AddCollaborationResult
	for i := 0; i < 3; i++ {
		res, err := h.Handle(context.Background(), AddCollaborationCommand{})
		require.NoError(t, err)
		last = res
	}

	assert.Equal(t, 3, last.Record.Collaborations)
	assert.Equal(t, progression.WelcomeBonus+3*progression.CollaborationBonus, last.Record.Points)
	require.Len(t, last.UnlockedBadges, 1)
	assert.Equal(t, progression.BadgeCollaborator, last.UnlockedBadges[0].Kind)
}

// ─────────────────────────────────────────────────────────────────────────────
// Redeem reward
// ─────────────────────────────────────────────────────────────────────────────

func TestRedeemReward_DebitsPoints(t *testing.T) {
	env := newTestEnv()
	record := env.signup(t)
	record.AddPoints(100)
	require.NoError(t, env.store.SaveRecord(context.Background(), record))

	h := NewRedeemRewardHandler(env.store, env.publisher, env.logger)
	res, err := h.Handle(context.Background(), RedeemRewardCommand{RewardID: "sim-lab-priority"})
	require.NoError(t, err)

	assert.Equal(t, progression.Points(50), res.RemainingPoints)
	assert.Contains(t, env.publisher.eventTypes(), shared.EventRewardRedeemed)
}

func TestRedeemReward_InsufficientPoints(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewRedeemRewardHandler(env.store, env.publisher, env.logger)
	_, err := h.Handle(context.Background(), RedeemRewardCommand{RewardID: "clinical-case-access"})
	require.Error(t, err)

	var insufficient *InsufficientPointsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, progression.Points(150), insufficient.Shortfall)
	assert.ErrorIs(t, err, shared.ErrInsufficientBalance)

	stored, loadErr := env.store.LoadRecord(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, progression.WelcomeBonus, stored.Points, "failed redemption must not touch the balance")
}

func TestRedeemReward_ExactBalance(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewRedeemRewardHandler(env.store, env.publisher, env.logger)
	res, err := h.Handle(context.Background(), RedeemRewardCommand{RewardID: "coffee-voucher"})
	require.NoError(t, err)
	assert.Equal(t, progression.Points(0), res.RemainingPoints)
}

func TestRedeemReward_UnknownReward(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewRedeemRewardHandler(env.store, env.publisher, env.logger)
	_, err := h.Handle(context.Background(), RedeemRewardCommand{RewardID: "free-lambo"})
	assert.ErrorIs(t, err, shared.ErrRewardNotFound)
}

// ─────────────────────────────────────────────────────────────────────────────
// Daily bonus
// ─────────────────────────────────────────────────────────────────────────────

func TestClaimDailyBonus_OncePerDohaDay(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewClaimDailyBonusHandler(env.store, env.publisher, env.logger)
	at := timeutil.DateTime(2026, 3, 11, 10, 0, 0)

	first, err := h.Handle(context.Background(), ClaimDailyBonusCommand{At: at})
	require.NoError(t, err)
	assert.True(t, first.Granted)
	assert.Equal(t, progression.DailyBonus, first.PointsAwarded)
	assert.Equal(t, progression.WelcomeBonus+progression.DailyBonus, first.Record.Points)

	second, err := h.Handle(context.Background(), ClaimDailyBonusCommand{At: at.Add(4 * time.Hour)})
	require.NoError(t, err)
	assert.False(t, second.Granted)
	assert.Equal(t, progression.WelcomeBonus+progression.DailyBonus, second.Record.Points)
}

func TestClaimDailyBonus_NewDayGrantsAgain(t *testing.T) {
	env := newTestEnv()
	env.signup(t)

	h := NewClaimDailyBonusHandler(env.store, env.publisher, env.logger)

	first, err := h.Handle(context.Background(), ClaimDailyBonusCommand{
		At: timeutil.DateTime(2026, 3, 11, 23, 50, 0),
	})
	require.NoError(t, err)
	require.True(t, first.Granted)

	// Twenty minutes later it is already the next Doha calendar day.
	second, err := h.Handle(context.Background(), ClaimDailyBonusCommand{
		At: timeutil.DateTime(2026, 3, 12, 0, 10, 0),
	})
	require.NoError(t, err)
	assert.True(t, second.Granted)
	assert.Equal(t, progression.WelcomeBonus+2*progression.DailyBonus, second.Record.Points)
}

// saveFailingStore fails the next SaveRecord and otherwise delegates to the
// in-memory store.
type saveFailingStore struct {
	progression.Store
	failNext bool
}

func (s *saveFailingStore) SaveRecord(ctx context.Context, record *progression.Record) error {
	if s.failNext {
		s.failNext = false
		return errors.New("write timeout")
	}
	return s.Store.SaveRecord(ctx, record)
}

func TestClaimDailyBonus_SaveFailureDoesNotDoubleCredit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.signup(t)

	store := &saveFailingStore{Store: env.store, failNext: true}
	h := NewClaimDailyBonusHandler(store, env.publisher, env.logger)
	at := timeutil.DateTime(2026, 3, 11, 10, 0, 0)

	_, err := h.Handle(ctx, ClaimDailyBonusCommand{At: at})
	require.Error(t, err)

	// The claim date went in before the record write, so the failed claim
	// still counts as claimed for the day.
	claimedOn, err := env.store.DailyBonusClaimedOn(ctx)
	require.NoError(t, err)
	assert.True(t, claimedOn.Equal(timeutil.CivilDateOf(at)))

	second, err := h.Handle(ctx, ClaimDailyBonusCommand{At: at.Add(time.Hour)})
	require.NoError(t, err)
	assert.False(t, second.Granted)
	assert.Equal(t, progression.WelcomeBonus, second.Record.Points)
}

// ─────────────────────────────────────────────────────────────────────────────
// Toggle pin
// ─────────────────────────────────────────────────────────────────────────────

func TestTogglePin_RoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()
	env.signup(t)

	h := NewTogglePinHandler(env.store, env.publisher, env.logger)

	res, err := h.Handle(ctx, TogglePinCommand{ResourceID: "n2"})
	require.NoError(t, err)
	assert.True(t, res.Pinned)
	assert.True(t, res.PinnedResources.Contains("n2"))

	res, err = h.Handle(ctx, TogglePinCommand{ResourceID: "n2"})
	require.NoError(t, err)
	assert.False(t, res.Pinned)
	assert.False(t, res.PinnedResources.Contains("n2"))
}

func TestTogglePin_UnknownResource(t *testing.T) {
	env := newTestEnv()
	h := NewTogglePinHandler(env.store, env.publisher, env.logger)
	_, err := h.Handle(context.Background(), TogglePinCommand{ResourceID: "ghost"})
	assert.ErrorIs(t, err, shared.ErrResourceNotFound)
}
