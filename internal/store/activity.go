package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// Key prefixes for activity storage. Races get one index entry per
// activity; the highlight index maps a profile to its single highlight
// activity, which is what enforces at most one highlight per profile.
const (
	activityPrefix      = "activity:"                 // activity:{id} → Activity JSON
	raceByProfilePrefix = "idx:activities:race:"      // idx:activities:race:{profileID}:{activityID} → empty
	highlightByProfile  = "idx:activities:highlight:" // idx:activities:highlight:{profileID} → activityID
)

// CreateActivity stores a new race or highlight-run activity and writes
// the index entry for its role. Creating a highlight for a profile that
// already has one fails with ErrHighlightExists.
func (s *Store) CreateActivity(ctx context.Context, a *domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(activityPrefix + a.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		switch {
		case a.IsHighlight():
			hlKey := []byte(highlightByProfile + a.HighlightProfileID)
			if _, err := txn.Get(hlKey); err == nil {
				return ErrHighlightExists
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(hlKey, []byte(a.ID)); err != nil {
				return err
			}
		case a.IsRace():
			if err := txn.Set([]byte(raceByProfilePrefix+a.RaceProfileID+":"+a.ID), nil); err != nil {
				return err
			}
		}

		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// GetActivity retrieves an activity by ID.
func (s *Store) GetActivity(ctx context.Context, activityID string) (*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var a domain.Activity
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(activityPrefix + activityID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrActivityNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		})
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateActivity replaces an existing activity. Role fields are fixed
// at creation; only descriptive fields may change.
func (s *Store) UpdateActivity(ctx context.Context, a *domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(activityPrefix + a.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrActivityNotFound
		} else if err != nil {
			return err
		}

		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// DeleteActivity removes an activity and its role index entry.
// Idempotent.
func (s *Store) DeleteActivity(ctx context.Context, activityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var a domain.Activity
		item, err := txn.Get([]byte(activityPrefix + activityID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &a)
		}); err != nil {
			return err
		}

		switch {
		case a.IsHighlight():
			if err := txn.Delete([]byte(highlightByProfile + a.HighlightProfileID)); err != nil {
				return err
			}
		case a.IsRace():
			if err := txn.Delete([]byte(raceByProfilePrefix + a.RaceProfileID + ":" + a.ID)); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(activityPrefix + a.ID))
	})
}

// GetHighlightRun returns the profile's highlight-run activity, or
// ErrHighlightNotFound if none is set.
func (s *Store) GetHighlightRun(ctx context.Context, profileID string) (*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var activityID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(highlightByProfile + profileID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrHighlightNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			activityID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetActivity(ctx, activityID)
}

// ListRacesByProfile returns all race activities for a profile.
func (s *Store) ListRacesByProfile(ctx context.Context, profileID string) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids, err := s.raceIDsByProfile(profileID)
	if err != nil {
		return nil, err
	}

	races := make([]*domain.Activity, 0, len(ids))
	for _, id := range ids {
		a, err := s.GetActivity(ctx, id)
		if err != nil {
			return nil, err
		}
		races = append(races, a)
	}
	return races, nil
}

// CountRacesByProfile returns the number of race activities a profile
// has. The migration gate checks this before populating legacy events.
func (s *Store) CountRacesByProfile(ctx context.Context, profileID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	ids, err := s.raceIDsByProfile(profileID)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

func (s *Store) raceIDsByProfile(profileID string) ([]string, error) {
	var ids []string
	prefix := []byte(raceByProfilePrefix + profileID + ":")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			ids = append(ids, key[len(prefix):])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
