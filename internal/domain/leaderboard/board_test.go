package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStandings() []Standing {
	return []Standing{
		{Username: "StudentA", Points: 520},
		{Username: "StudentB", Points: 485},
		{Username: "StudentC", Points: 450},
		{Username: "StudentD", Points: 420},
		{Username: "StudentE", Points: 395},
	}
}

func TestComposer_UserRank(t *testing.T) {
	composer, err := NewComposer(testStandings(), DefaultWindowSize)
	require.NoError(t, err)

	tests := []struct {
		name   string
		points int
		want   Rank
	}{
		{"above everyone", 600, 1},
		{"between second and third", 460, 3},
		{"below everyone", 100, 6},
		{"tie goes to existing entry", 450, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, composer.UserRank(tt.points))
		})
	}
}

func TestComposer_Compose_UserInsideWindow(t *testing.T) {
	composer, err := NewComposer(testStandings(), DefaultWindowSize)
	require.NoError(t, err)

	entries := composer.Compose(460)

	require.Len(t, entries, 5)
	assert.Equal(t, Rank(3), entries[2].Rank)
	assert.Equal(t, CurrentUserName, entries[2].Username)
	assert.True(t, entries[2].IsCurrentUser)
	assert.Equal(t, 460, entries[2].Points)

	// The lowest entry is evicted to keep the window fixed.
	for _, e := range entries {
		assert.NotEqual(t, "StudentE", e.Username)
	}
	assert.Equal(t, "StudentD", entries[4].Username)
}

func TestComposer_Compose_TiePlacesUserAfterEqualEntry(t *testing.T) {
	composer, err := NewComposer(testStandings(), DefaultWindowSize)
	require.NoError(t, err)

	entries := composer.Compose(450)

	require.Len(t, entries, 5)
	assert.Equal(t, "StudentC", entries[2].Username)
	assert.Equal(t, CurrentUserName, entries[3].Username)
	assert.Equal(t, Rank(4), entries[3].Rank)
	assert.Equal(t, 450, entries[3].Points)
}

func TestComposer_Compose_UserTopsTheBoard(t *testing.T) {
	composer, err := NewComposer(testStandings(), DefaultWindowSize)
	require.NoError(t, err)

	entries := composer.Compose(999)

	require.Len(t, entries, 5)
	assert.True(t, entries[0].IsCurrentUser)
	assert.Equal(t, Rank(1), entries[0].Rank)
	assert.Equal(t, "StudentA", entries[1].Username)
}

func TestComposer_Compose_UserOutsideWindow(t *testing.T) {
	composer, err := NewComposer(testStandings(), DefaultWindowSize)
	require.NoError(t, err)

	entries := composer.Compose(50)

	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.False(t, e.IsCurrentUser)
		assert.Equal(t, Rank(i+1), e.Rank)
	}
	assert.Equal(t, "StudentE", entries[4].Username)
}

func TestComposer_Compose_Recomputed(t *testing.T) {
	composer, err := NewComposer(testStandings(), DefaultWindowSize)
	require.NoError(t, err)

	// The composition has no persisted form: each call re-derives the view.
	first := composer.Compose(460)
	second := composer.Compose(500)

	assert.Equal(t, Rank(3), first[2].Rank)
	assert.True(t, second[1].IsCurrentUser)
	assert.Equal(t, Rank(2), second[1].Rank)
}

func TestComposer_SortsUnorderedStandings(t *testing.T) {
	shuffled := []Standing{
		{Username: "StudentD", Points: 420},
		{Username: "StudentA", Points: 520},
		{Username: "StudentE", Points: 395},
		{Username: "StudentC", Points: 450},
		{Username: "StudentB", Points: 485},
	}

	composer, err := NewComposer(shuffled, DefaultWindowSize)
	require.NoError(t, err)

	entries := composer.Compose(0)
	assert.Equal(t, "StudentA", entries[0].Username)
	assert.Equal(t, "StudentE", entries[4].Username)
}

func TestNewComposer_EmptyStandings(t *testing.T) {
	_, err := NewComposer(nil, DefaultWindowSize)
	assert.ErrorIs(t, err, ErrEmptyStandings)
}
