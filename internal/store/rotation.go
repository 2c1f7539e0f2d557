package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// Key prefixes for shoe-rotation storage.
const (
	rotationPrefix          = "rotation:"              // rotation:{id} → ShoeRotation JSON
	rotationByProfilePrefix = "idx:rotations:profile:" // idx:rotations:profile:{profileID}:{rotationID} → empty
)

// CreateRotation stores a new rotation and its profile index entry.
func (s *Store) CreateRotation(ctx context.Context, r *domain.ShoeRotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(rotationPrefix + r.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(rotationByProfilePrefix+r.ProfileID+":"+r.ID), nil)
	})
}

// GetRotation retrieves a rotation by ID.
func (s *Store) GetRotation(ctx context.Context, rotationID string) (*domain.ShoeRotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r domain.ShoeRotation
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(rotationPrefix + rotationID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRotationNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRotation replaces an existing rotation.
func (s *Store) UpdateRotation(ctx context.Context, r *domain.ShoeRotation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(rotationPrefix + r.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrRotationNotFound
		} else if err != nil {
			return err
		}

		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// DeleteRotation removes a rotation and its profile index entry.
// Idempotent. Linked shoes are not touched; they remain owned records.
func (s *Store) DeleteRotation(ctx context.Context, rotationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var r domain.ShoeRotation
		item, err := txn.Get([]byte(rotationPrefix + rotationID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		}); err != nil {
			return err
		}

		if err := txn.Delete([]byte(rotationByProfilePrefix + r.ProfileID + ":" + r.ID)); err != nil {
			return err
		}
		return txn.Delete([]byte(rotationPrefix + r.ID))
	})
}

// ListRotationsByProfile returns all rotations belonging to a profile.
func (s *Store) ListRotationsByProfile(ctx context.Context, profileID string) ([]*domain.ShoeRotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	prefix := []byte(rotationByProfilePrefix + profileID + ":")
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

	rotations := make([]*domain.ShoeRotation, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetRotation(ctx, id)
		if err != nil {
			return nil, err
		}
		rotations = append(rotations, r)
	}
	return rotations, nil
}
