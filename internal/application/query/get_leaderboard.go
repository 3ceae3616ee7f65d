// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/catalog"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/leaderboard"
	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Собирает недельный лидерборд: еженедельные итоги факультета плюс текущий
// пользователь, вставленный по своим очкам. Ранг пересчитывается при каждом
// запросе; снимков нет.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the leaderboard request parameters.
type GetLeaderboardQuery struct {
	// WindowSize is the number of rows to show. Zero means the default window.
	WindowSize int
}

// Validate validates the query.
func (q *GetLeaderboardQuery) Validate() error {
	if q.WindowSize < 0 {
		return errors.New("get_leaderboard: window size cannot be negative")
	}
	if q.WindowSize == 0 {
		q.WindowSize = leaderboard.DefaultWindowSize
	}
	return nil
}

// GetLeaderboardResult contains the composed leaderboard.
type GetLeaderboardResult struct {
	// Entries are the visible rows, best first.
	Entries []leaderboard.Entry `json:"entries"`

	// UserRank is the current user's rank over the full standings, even when
	// the user fell outside the visible window.
	UserRank leaderboard.Rank `json:"user_rank"`

	// UserVisible is true when the "You" row made it into the window.
	UserVisible bool `json:"user_visible"`
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	store progression.RecordStore
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(store progression.RecordStore) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{store: store}
}

// Handle executes the leaderboard query.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	record, err := h.store.LoadRecord(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: load record: %w", err)
	}

	composer, err := leaderboard.NewComposer(catalog.WeeklyStandings(), q.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	points := record.Points.Int()
	entries := composer.Compose(points)

	visible := false
	for _, e := range entries {
		if e.IsCurrentUser {
			visible = true
			break
		}
	}

	return &GetLeaderboardResult{
		Entries:     entries,
		UserRank:    composer.UserRank(points),
		UserVisible: visible,
	}, nil
}
