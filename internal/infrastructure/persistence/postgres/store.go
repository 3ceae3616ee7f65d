package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KunafaIceCream/udst-healthpage/internal/domain/progression"
	"github.com/KunafaIceCream/udst-healthpage/pkg/retry"
	"github.com/KunafaIceCream/udst-healthpage/pkg/timeutil"
)

// Fixed storage keys, shared with the Redis backend.
const (
	KeyUserRecord = "udst:health:user"
	KeyDailyBonus = "udst:health:daily_bonus"
	KeyPinned     = "udst:health:pinned"
)

// Store implements progression.Store on the engagement_state table.
type Store struct {
	conn    *Connection
	retrier *retry.Retrier
}

// NewStore creates a Store over an established connection.
func NewStore(conn *Connection) *Store {
	return &Store{
		conn:    conn,
		retrier: retry.DatabaseRetrier(),
	}
}

const upsertQuery = `
		INSERT INTO engagement_state (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`

func (s *Store) setValue(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return s.retrier.Do(ctx, func(ctx context.Context) error {
		_, execErr := s.conn.Exec(ctx, upsertQuery, key, data)
		if execErr != nil {
			return retry.Retryable(execErr)
		}
		return nil
	})
}

func (s *Store) getValue(ctx context.Context, key string, dest interface{}) error {
	var data []byte
	err := s.conn.QueryRow(ctx,
		`SELECT value FROM engagement_state WHERE key = $1`, key,
	).Scan(&data)
	if err != nil {
		if IsNoRows(err) {
			return ErrNoRows
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteValue(ctx context.Context, key string) error {
	_, err := s.conn.Exec(ctx, `DELETE FROM engagement_state WHERE key = $1`, key)
	return err
}

// LoadRecord returns the stored progression record.
func (s *Store) LoadRecord(ctx context.Context) (*progression.Record, error) {
	var record progression.Record
	if err := s.getValue(ctx, KeyUserRecord, &record); err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, progression.ErrRecordNotFound
		}
		return nil, fmt.Errorf("load record: %w", err)
	}
	return &record, nil
}

// SaveRecord writes the full record, replacing the previous version.
func (s *Store) SaveRecord(ctx context.Context, record *progression.Record) error {
	if err := s.setValue(ctx, KeyUserRecord, record); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// DeleteRecord removes the record row.
func (s *Store) DeleteRecord(ctx context.Context) error {
	if err := s.deleteValue(ctx, KeyUserRecord); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// DailyBonusClaimedOn returns the date the daily bonus was last claimed.
// A missing row yields the zero date.
func (s *Store) DailyBonusClaimedOn(ctx context.Context) (timeutil.CivilDate, error) {
	var raw string
	if err := s.getValue(ctx, KeyDailyBonus, &raw); err != nil {
		if errors.Is(err, ErrNoRows) {
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
	if err := s.setValue(ctx, KeyDailyBonus, date.String()); err != nil {
		return fmt.Errorf("save daily bonus flag: %w", err)
	}
	return nil
}

// ClearDailyBonus removes the daily bonus flag.
func (s *Store) ClearDailyBonus(ctx context.Context) error {
	if err := s.deleteValue(ctx, KeyDailyBonus); err != nil {
		return fmt.Errorf("clear daily bonus flag: %w", err)
	}
	return nil
}

// PinnedResources returns the pinned resource set.
// A missing row yields an empty set.
func (s *Store) PinnedResources(ctx context.Context) (progression.PinnedSet, error) {
	var pinned progression.PinnedSet
	if err := s.getValue(ctx, KeyPinned, &pinned); err != nil {
		if errors.Is(err, ErrNoRows) {
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
	if err := s.setValue(ctx, KeyPinned, pinned); err != nil {
		return fmt.Errorf("save pinned resources: %w", err)
	}
	return nil
}

var _ progression.Store = (*Store)(nil)
