package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
)

func TestRewards_Catalog(t *testing.T) {
	all := Rewards()
	assert.Len(t, all, 8)

	reward, ok := FindReward("coffee-voucher")
	require.True(t, ok)
	assert.Equal(t, progression.Points(50), reward.PointsCost)
	assert.Equal(t, CategoryWellness, reward.Category)
	assert.True(t, reward.IsLimited())
	assert.Equal(t, 20, reward.LimitedQuantity)

	unlimited, ok := FindReward("sim-lab-priority")
	require.True(t, ok)
	assert.False(t, unlimited.IsLimited())

	_, ok = FindReward("free-parking")
	assert.False(t, ok)
}

func TestRewardsByCategory(t *testing.T) {
	academic := RewardsByCategory(CategoryAcademic)
	assert.Len(t, academic, 4)
	for _, r := range academic {
		assert.Equal(t, CategoryAcademic, r.Category)
	}

	assert.Len(t, RewardsByCategory(CategoryAll), 8)
	assert.Empty(t, RewardsByCategory(CategoryMerchandise))
}

func TestResourcesForProgram(t *testing.T) {
	nursing := ResourcesForProgram(progression.ProgramNursing)

	// Program-specific resources plus the shared ones.
	assert.Len(t, nursing, 8)
	for _, r := range nursing {
		assert.True(t, r.Program == "nursing" || r.Program == ScopeAll)
	}
}

func TestFindResource(t *testing.T) {
	res, ok := FindResource("r1")
	require.True(t, ok)
	assert.Equal(t, ResourceSoftware, res.Type)
	assert.True(t, res.DefaultPinned)

	_, ok = FindResource("zz")
	assert.False(t, ok)
}

func TestPrograms(t *testing.T) {
	assert.Len(t, Programs(), 3)

	info, ok := FindProgram(progression.ProgramRadiography)
	require.True(t, ok)
	assert.Equal(t, "Medical Radiography (B.Sc. MR)", info.Title)
}

func TestWeeklyStandings(t *testing.T) {
	standings := WeeklyStandings()

	require.Len(t, standings, 5)
	assert.Equal(t, "StudentA", standings[0].Username)
	assert.Equal(t, 520, standings[0].Points)
	assert.Equal(t, 395, standings[4].Points)
}
