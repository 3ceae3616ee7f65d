package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same instant",
			a:    DateTime(2026, 3, 10, 14, 0, 0),
			b:    DateTime(2026, 3, 10, 14, 0, 0),
			want: 0,
		},
		{
			name: "same day different hours",
			a:    DateTime(2026, 3, 10, 0, 30, 0),
			b:    DateTime(2026, 3, 10, 23, 30, 0),
			want: 0,
		},
		{
			name: "midnight boundary counts as one day",
			a:    DateTime(2026, 3, 10, 23, 59, 0),
			b:    DateTime(2026, 3, 11, 0, 1, 0),
			want: 1,
		},
		{
			name: "three days apart",
			a:    DateTime(2026, 3, 10, 12, 0, 0),
			b:    DateTime(2026, 3, 13, 12, 0, 0),
			want: 3,
		},
		{
			name: "month boundary",
			a:    DateTime(2026, 1, 31, 18, 0, 0),
			b:    DateTime(2026, 2, 1, 6, 0, 0),
			want: 1,
		},
		{
			name: "negative when reversed",
			a:    DateTime(2026, 3, 12, 8, 0, 0),
			b:    DateTime(2026, 3, 10, 8, 0, 0),
			want: -2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestDaysBetween_UsesDohaWallClock(t *testing.T) {
	// 22:30 UTC is already 01:30 next day in Doha.
	a := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	b := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysBetween(a, b))
	assert.False(t, SameDay(a, b))
}

func TestCivilDate_Comparisons(t *testing.T) {
	d1 := CivilDate{Year: 2026, Month: time.March, Day: 10}
	d2 := CivilDate{Year: 2026, Month: time.March, Day: 11}

	assert.True(t, d1.Equal(d1))
	assert.False(t, d1.Equal(d2))
	assert.True(t, d1.Before(d2))
	assert.False(t, d2.Before(d1))
	assert.Equal(t, 1, d1.DaysUntil(d2))
	assert.Equal(t, -1, d2.DaysUntil(d1))
}

func TestCivilDate_MonthBoundary(t *testing.T) {
	jan31 := CivilDate{Year: 2026, Month: time.January, Day: 31}
	feb1 := CivilDate{Year: 2026, Month: time.February, Day: 1}

	assert.True(t, jan31.Before(feb1))
	assert.Equal(t, 1, jan31.DaysUntil(feb1))
}

func TestCivilDateOf_DohaDate(t *testing.T) {
	// 23:00 UTC on March 10 is 02:00 March 11 in Doha.
	instant := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	d := CivilDateOf(instant)

	assert.Equal(t, 2026, d.Year)
	assert.Equal(t, time.March, d.Month)
	assert.Equal(t, 11, d.Day)
}

func TestCivilDate_JSONRoundTrip(t *testing.T) {
	type payload struct {
		ClaimedOn CivilDate `json:"claimed_on"`
	}

	original := payload{ClaimedOn: CivilDate{Year: 2026, Month: time.September, Day: 1}}

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2026-09-01")

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.ClaimedOn.Equal(decoded.ClaimedOn))
}

func TestCivilDate_ZeroValue(t *testing.T) {
	var d CivilDate
	assert.True(t, d.IsZero())

	parsed, err := ParseCivilDate("2026-09-01")
	require.NoError(t, err)
	assert.False(t, parsed.IsZero())

	_, err = ParseCivilDate("not-a-date")
	assert.Error(t, err)
}
