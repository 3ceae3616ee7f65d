package saga

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunafaIceCream/udst-healthpage/internal/application/command"
	"github.com/KunafaIceCream/udst-healthpage/internal/application/query"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/shared"
	"github.com/KunafaIceCream/udst-healthpage/internal/infrastructure/persistence/memory"
	"github.com/KunafaIceCream/udst-healthpage/pkg/logger"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

func newSaga(store *memory.Store) *SessionStartSaga {
	log := logger.New(logger.Options{Level: logger.LevelError})
	publisher := shared.NopPublisher{}
	return NewSessionStartSaga(
		command.NewLoginHandler(store, publisher, log),
		command.NewSignupHandler(store, publisher, log),
		command.NewResumeSessionHandler(store, publisher, progression.NewBadgeChecker(), log),
		query.NewGetDashboardHandler(store),
		store,
		log,
	)
}

func TestSessionStart_SignupFlow(t *testing.T) {
	store := memory.NewStore()
	saga := newSaga(store)

	res, err := saga.Execute(context.Background(), SessionStartInput{
		Email:           "fatima@udst.edu.qa",
		Password:        "radiography",
		SignupIfMissing: true,
		Name:            "Fatima",
		Role:            progression.RoleStudent,
		Program:         progression.ProgramRadiography,
	})
	require.NoError(t, err)

	assert.True(t, res.IsNewMember)
	assert.Equal(t, progression.WelcomeBonus, res.Record.Points)
	assert.Equal(t, 1, res.Record.Streak)
	require.NotNil(t, res.Dashboard)
	assert.True(t, res.Dashboard.DailyBonusAvailable)
}

func TestSessionStart_LoginResumesStreak(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	saga := newSaga(store)

	first, err := saga.Execute(ctx, SessionStartInput{
		Email:           "fatima@udst.edu.qa",
		Password:        "radiography",
		SignupIfMissing: true,
		Name:            "Fatima",
		Role:            progression.RoleStudent,
		Program:         progression.ProgramRadiography,
	})
	require.NoError(t, err)

	record := first.Record
	record.LastLogin = timeutil.DateTime(2026, 3, 10, 19, 0, 0)
	require.NoError(t, store.SaveRecord(ctx, record))

	second, err := saga.Execute(ctx, SessionStartInput{
		Email:    "fatima@udst.edu.qa",
		Password: "radiography",
		At:       timeutil.DateTime(2026, 3, 11, 10, 0, 0),
	})
	require.NoError(t, err)

	assert.False(t, second.IsNewMember)
	assert.Equal(t, progression.StreakExtended, second.Transition)
	assert.Equal(t, 2, second.Record.Streak)
}

func TestSessionStart_UnknownEmailWithoutSignup(t *testing.T) {
	store := memory.NewStore()
	saga := newSaga(store)

	_, err := saga.Execute(context.Background(), SessionStartInput{
		Email:    "ghost@udst.edu.qa",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, shared.ErrLoginUnknownEmail)
}

func TestSessionStart_ValidatesInput(t *testing.T) {
	saga := newSaga(memory.NewStore())

	_, err := saga.Execute(context.Background(), SessionStartInput{})
	require.Error(t, err)

	_, err = saga.Execute(context.Background(), SessionStartInput{
		Email:           "x@udst.edu.qa",
		SignupIfMissing: true,
	})
	require.Error(t, err)
}
