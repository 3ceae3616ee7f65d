package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/pkg/retry"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// Fixed storage keys. The engine owns exactly one live record, so keys carry
// no user identifier.
const (
	KeyUserRecord = "udst:health:user"
	KeyDailyBonus = "udst:health:daily_bonus"
	KeyPinned     = "udst:health:pinned"
)

// Store implements progression.Store on Redis.
type Store struct {
	client  *Client
	retrier *retry.Retrier
}

// NewStore creates a Store over an established client.
func NewStore(client *Client) *Store {
	return &Store{
		client:  client,
		retrier: retry.CacheRetrier(),
	}
}

// classify marks transport errors retryable. Key misses and malformed
// payloads never resolve on retry.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrKeyMiss), errors.Is(err, ErrSerialization):
		return retry.Permanent(err)
	default:
		return retry.Retryable(err)
	}
}

// LoadRecord returns the stored progression record.
func (s *Store) LoadRecord(ctx context.Context) (*progression.Record, error) {
	var record progression.Record

	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return classify(s.client.GetJSON(ctx, KeyUserRecord, &record))
	})
	if err != nil {
		if errors.Is(err, ErrKeyMiss) {
			return nil, progression.ErrRecordNotFound
		}
		return nil, fmt.Errorf("load record: %w", err)
	}

	return &record, nil
}

// SaveRecord writes the full record, replacing the previous version.
func (s *Store) SaveRecord(ctx context.Context, record *progression.Record) error {
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return classify(s.client.SetJSON(ctx, KeyUserRecord, record))
	})
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record key.
func (s *Store) DeleteRecord(ctx context.Context) error {
	if err := s.client.Delete(ctx, KeyUserRecord); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// DailyBonusClaimedOn returns the date the daily bonus was last claimed.
// A missing key yields the zero date.
func (s *Store) DailyBonusClaimedOn(ctx context.Context) (timeutil.CivilDate, error) {
	raw, err := s.client.GetString(ctx, KeyDailyBonus)
	if err != nil {
		if errors.Is(err, ErrKeyMiss) {
			return timeutil.CivilDate{}, nil
		}
		return timeutil.CivilDate{}, fmt.Errorf("load daily bonus flag: %w", err)
	}

	date, err := timeutil.ParseCivilDate(raw)
	if err != nil {
		return timeutil.CivilDate{}, fmt.Errorf("parse daily bonus date %q: %w", raw, err)
	}
	return date, nil
}

// SetDailyBonusClaimedOn stores the claim date as an ISO date string.
func (s *Store) SetDailyBonusClaimedOn(ctx context.Context, date timeutil.CivilDate) error {
	if err := s.client.SetString(ctx, KeyDailyBonus, date.String()); err != nil {
		return fmt.Errorf("save daily bonus flag: %w", err)
	}
	return nil
}

// ClearDailyBonus removes the daily bonus flag.
func (s *Store) ClearDailyBonus(ctx context.Context) error {
	if err := s.client.Delete(ctx, KeyDailyBonus); err != nil {
		return fmt.Errorf("clear daily bonus flag: %w", err)
	}
	return nil
}

// PinnedResources returns the pinned resource set.
// A missing key yields an empty set.
func (s *Store) PinnedResources(ctx context.Context) (progression.PinnedSet, error) {
	var pinned progression.PinnedSet

	err := s.client.GetJSON(ctx, KeyPinned, &pinned)
	if err != nil {
		if errors.Is(err, ErrKeyMiss) {
			return progression.PinnedSet{}, nil
		}
		return nil, fmt.Errorf("load pinned resources: %w", err)
	}

	return pinned, nil
}

// SavePinnedResources writes the pinned set as a JSON array.
func (s *Store) SavePinnedResources(ctx context.Context, pinned progression.PinnedSet) error {
	if pinned == nil {
		pinned = progression.PinnedSet{}
	}
	if err := s.client.SetJSON(ctx, KeyPinned, pinned); err != nil {
		return fmt.Errorf("save pinned resources: %w", err)
	}
	return nil
}

var _ progression.Store = (*Store)(nil)
