package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// Шапка панели: приветствие, объявления, ежедневные задания с отметками
// выполнения. Задание "ежедневный вход" считается выполненным, когда бонус
// уже получен в текущий календарный день Дохи.
// ══════════════════════════════════════════════════════════════════════════════

// GetDashboardQuery contains the dashboard request.
type GetDashboardQuery struct {
	// At is the viewing time. Zero means now.
	At time.Time
}

// ChallengeView is one daily challenge with its completion mark.
type ChallengeView struct {
	catalog.DailyChallenge

	// Completed is true when the challenge is done for today.
	Completed bool `json:"completed"`
}

// GetDashboardResult contains the dashboard header data.
type GetDashboardResult struct {
	// MemberName is the display name for the greeting.
	MemberName string `json:"member_name"`

	// Program describes the member's program.
	Program catalog.ProgramInfo `json:"program"`

	// DailyBonusAvailable is true when today's bonus was not claimed yet.
	DailyBonusAvailable bool `json:"daily_bonus_available"`

	// Challenges are today's challenges.
	Challenges []ChallengeView `json:"challenges"`

	// Announcements are the current faculty announcements.
	Announcements []catalog.Announcement `json:"announcements"`
}

// GetDashboardHandler handles the GetDashboardQuery.
type GetDashboardHandler struct {
	store progression.Store
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(store progression.Store) *GetDashboardHandler {
	return &GetDashboardHandler{store: store}
}

// Handle executes the dashboard query.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*GetDashboardResult, error) {
	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: load record: %w", err)
	}

	at := q.At
	if at.IsZero() {
		at = time.Now()
	}
	today := timeutil.CivilDateOf(at)

	claimedOn, err := h.store.DailyBonusClaimedOn(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_dashboard: read claim date: %w", err)
	}
	bonusClaimedToday := !claimedOn.IsZero() && claimedOn.Equal(today)

	program, ok := catalog.FindProgram(record.Program)
	if !ok {
		return nil, errors.New("get_dashboard: unknown program on record")
	}

	result := &GetDashboardResult{
		MemberName:          record.Name,
		Program:             program,
		DailyBonusAvailable: !bonusClaimedToday,
		Announcements:       catalog.Announcements(),
	}

	for _, ch := range catalog.DailyChallenges() {
		completed := false
		switch ch.ID {
		case "dc1":
			completed = bonusClaimedToday
		case "dc2":
			completed = len(record.ResourcesAccessed) > 0
		}
		result.Challenges = append(result.Challenges, ChallengeView{
			DailyChallenge: ch,
			Completed:      completed,
		})
	}

	return result, nil
}
