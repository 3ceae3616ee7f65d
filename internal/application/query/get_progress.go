package query

import (
	"context"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// Сводка вовлечённости для панели: очки, серия, проценты освоения ресурсов и
// совместных работ, значки с отметкой получения.
// ══════════════════════════════════════════════════════════════════════════════

// Semester-wide goals the progress bars are measured against.
const (
	// TotalResourcesGoal is the resource exploration goal.
	TotalResourcesGoal = 20

	// TotalCollaborationsGoal is the collaborations goal.
	TotalCollaborationsGoal = 10
)

// GetProgressQuery contains the progress summary request.
type GetProgressQuery struct{}

// BadgeView is one badge of the catalog with its earned state.
type BadgeView struct {
	progression.BadgeDefinition

	// Earned is true when the badge was unlocked.
	Earned bool `json:"earned"`
}

// GetProgressResult contains the engagement summary.
type GetProgressResult struct {
	// Points is the current balance.
	Points progression.Points `json:"points"`

	// Streak is the consecutive-day streak.
	Streak int `json:"streak"`

	// ResourcesAccessed is the number of distinct resources opened.
	ResourcesAccessed int `json:"resources_accessed"`

	// Collaborations is the collaborations counter.
	Collaborations int `json:"collaborations"`

	// ResourceProgress is the percentage towards the resource goal.
	ResourceProgress float64 `json:"resource_progress"`

	// CollaborationProgress is the percentage towards the collaborations goal.
	CollaborationProgress float64 `json:"collaboration_progress"`

	// OverallProgress is the average of both percentages.
	OverallProgress float64 `json:"overall_progress"`

	// Badges is the full badge catalog with earned marks.
	Badges []BadgeView `json:"badges"`
}

// GetProgressHandler handles the GetProgressQuery.
type GetProgressHandler struct {
	store progression.RecordStore
}

// NewGetProgressHandler creates a new GetProgressHandler.
func NewGetProgressHandler(store progression.RecordStore) *GetProgressHandler {
	return &GetProgressHandler{store: store}
}

// Handle executes the progress query.
func (h *GetProgressHandler) Handle(ctx context.Context, _ GetProgressQuery) (*GetProgressResult, error) {
	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_progress: load record: %w", err)
	}

	resourcePct := percentage(len(record.ResourcesAccessed), TotalResourcesGoal)
	collabPct := percentage(record.Collaborations, TotalCollaborationsGoal)

	result := &GetProgressResult{
		Points:                record.Points,
		Streak:                record.Streak,
		ResourcesAccessed:     len(record.ResourcesAccessed),
		Collaborations:        record.Collaborations,
		ResourceProgress:      resourcePct,
		CollaborationProgress: collabPct,
		OverallProgress:       (resourcePct + collabPct) / 2,
	}

	for _, def := range progression.BadgeDefinitions() {
		result.Badges = append(result.Badges, BadgeView{
			BadgeDefinition: def,
			Earned:          record.HasBadge(def.Kind),
		})
	}

	return result, nil
}

// percentage caps at 100 so overshooting a goal never breaks the bars.
func percentage(have, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	pct := float64(have) / float64(goal) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
