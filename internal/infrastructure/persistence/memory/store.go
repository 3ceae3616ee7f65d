// Package memory implements the progression store in process memory.
// It backs tests and single-process runs where no external storage is
// configured. Records are deep-copied through JSON on both reads and
// writes so callers never share state with the store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// Store implements progression.Store in memory.
type Store struct {
	mu sync.RWMutex

	record     []byte
	dailyBonus timeutil.CivilDate
	hasBonus   bool
	pinned     progression.PinnedSet
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// LoadRecord returns a copy of the stored record.
func (s *Store) LoadRecord(_ context.Context) (*progression.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.record == nil {
		return nil, progression.ErrRecordNotFound
	}

	var record progression.Record
	if err := json.Unmarshal(s.record, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}

// SaveRecord stores a snapshot of the record.
func (s *Store) SaveRecord(_ context.Context, record *progression.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = data
	return nil
}

// DeleteRecord removes the record.
func (s *Store) DeleteRecord(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = nil
	return nil
}

// DailyBonusClaimedOn returns the stored claim date, zero if never set.
func (s *Store) DailyBonusClaimedOn(_ context.Context) (timeutil.CivilDate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasBonus {
		return timeutil.CivilDate{}, nil
	}
	return s.dailyBonus, nil
}

// SetDailyBonusClaimedOn stores the claim date.
func (s *Store) SetDailyBonusClaimedOn(_ context.Context, date timeutil.CivilDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyBonus = date
	s.hasBonus = true
	return nil
}

// ClearDailyBonus removes the claim date.
func (s *Store) ClearDailyBonus(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dailyBonus = timeutil.CivilDate{}
	s.hasBonus = false
	return nil
}

// PinnedResources returns a copy of the pinned set.
func (s *Store) PinnedResources(_ context.Context) (progression.PinnedSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(progression.PinnedSet, len(s.pinned))
	copy(out, s.pinned)
	return out, nil
}

// SavePinnedResources stores a copy of the pinned set.
func (s *Store) SavePinnedResources(_ context.Context, pinned progression.PinnedSet) error {
	next := make(progression.PinnedSet, len(pinned))
	copy(next, pinned)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinned = next
	return nil
}

var _ progression.Store = (*Store)(nil)
