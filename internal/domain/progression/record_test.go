package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewRecordParams {
	return NewRecordParams{
		ID:           "rec-1",
		Name:         "Aisha Al-Kuwari",
		Email:        "aisha@udst.edu.qa",
		PasswordHash: "$2a$10$fakehash",
		Role:         RoleStudent,
		Program:      ProgramNursing,
	}
}

func TestNewRecord_WelcomeState(t *testing.T) {
	record, err := NewRecord(validParams())
	require.NoError(t, err)

	assert.Equal(t, WelcomeBonus, record.Points)
	assert.Equal(t, 1, record.Streak)
	assert.Empty(t, record.Badges)
	assert.Empty(t, record.ResourcesAccessed)
	assert.Equal(t, 0, record.Collaborations)
	assert.False(t, record.LastLogin.IsZero())
}

func TestNewRecord_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewRecordParams)
		wantErr error
	}{
		{"empty name", func(p *NewRecordParams) { p.Name = "  " }, ErrInvalidName},
		{"empty email", func(p *NewRecordParams) { p.Email = "" }, ErrInvalidEmail},
		{"unknown role", func(p *NewRecordParams) { p.Role = "dean" }, ErrInvalidRole},
		{"unknown program", func(p *NewRecordParams) { p.Program = "law" }, ErrInvalidProgram},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := NewRecord(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecord_AddPoints_AllowsNegativeBalance(t *testing.T) {
	record, err := NewRecord(validParams())
	require.NoError(t, err)

	// Balance checks live at the redemption boundary, not here.
	total := record.AddPoints(-200)
	assert.Equal(t, Points(-150), total)
}

func TestRecord_AccessResource(t *testing.T) {
	record, err := NewRecord(validParams())
	require.NoError(t, err)

	first := record.AccessResource("res-anatomy-atlas")
	assert.True(t, first)
	assert.Equal(t, WelcomeBonus+ResourceAccessBonus, record.Points)
	assert.True(t, record.HasAccessedResource("res-anatomy-atlas"))

	// Re-opening the same resource awards nothing.
	again := record.AccessResource("res-anatomy-atlas")
	assert.False(t, again)
	assert.Equal(t, WelcomeBonus+ResourceAccessBonus, record.Points)
	assert.Len(t, record.ResourcesAccessed, 1)
}

func TestRecord_AddCollaboration_Repeatable(t *testing.T) {
	record, err := NewRecord(validParams())
	require.NoError(t, err)

	record.AddCollaboration()
	record.AddCollaboration()

	assert.Equal(t, 2, record.Collaborations)
	assert.Equal(t, WelcomeBonus+2*CollaborationBonus, record.Points)
}

func TestRecord_ResumeStreak(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		resumeAt       time.Time
		wantStreak     int
		wantTransition StreakTransition
		wantDays       int
	}{
		{"same day", base.Add(6 * time.Hour), 3, StreakUnchanged, 0},
		{"next day", base.Add(24 * time.Hour), 4, StreakExtended, 1},
		{"two days gap", base.Add(48 * time.Hour), 1, StreakResetTransition, 2},
		{"week gap", base.Add(7 * 24 * time.Hour), 1, StreakResetTransition, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewRecord(validParams())
			require.NoError(t, err)
			record.Streak = 3
			record.LastLogin = base

			transition, days := record.ResumeStreak(tt.resumeAt)

			assert.Equal(t, tt.wantTransition, transition)
			assert.Equal(t, tt.wantDays, days)
			assert.Equal(t, tt.wantStreak, record.Streak)
			assert.Equal(t, tt.resumeAt, record.LastLogin)
		})
	}
}

func TestRecord_ResumeStreak_CalendarBoundary(t *testing.T) {
	record, err := NewRecord(validParams())
	require.NoError(t, err)
	record.Streak = 5

	// 23:50 and 00:10 the next night are one calendar day apart in Doha
	// even though only 20 minutes passed.
	record.LastLogin = time.Date(2026, 3, 10, 20, 50, 0, 0, time.UTC) // 23:50 Doha
	transition, days := record.ResumeStreak(time.Date(2026, 3, 10, 21, 10, 0, 0, time.UTC))

	assert.Equal(t, StreakExtended, transition)
	assert.Equal(t, 1, days)
	assert.Equal(t, 6, record.Streak)
}

func TestPoints_Affordability(t *testing.T) {
	balance := Points(120)

	assert.True(t, balance.CanAfford(100))
	assert.True(t, balance.CanAfford(120))
	assert.False(t, balance.CanAfford(150))
	assert.Equal(t, Points(30), balance.Shortfall(150))
	assert.Equal(t, Points(0), balance.Shortfall(100))
}

func TestPinnedSet_Toggle(t *testing.T) {
	var pinned PinnedSet

	pinned, on := pinned.Toggle("res-1")
	assert.True(t, on)
	assert.True(t, pinned.Contains("res-1"))

	pinned, on = pinned.Toggle("res-2")
	assert.True(t, on)
	assert.Equal(t, PinnedSet{"res-1", "res-2"}, pinned)

	pinned, on = pinned.Toggle("res-1")
	assert.False(t, on)
	assert.Equal(t, PinnedSet{"res-2"}, pinned)
}

func TestRole_CanCurate(t *testing.T) {
	assert.True(t, RoleFaculty.CanCurate())
	assert.False(t, RoleStudent.CanCurate())
}
