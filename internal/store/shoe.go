package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// Key prefixes for owned-shoe storage.
const (
	shoePrefix          = "shoe:"              // shoe:{id} → Shoe JSON
	shoeByProfilePrefix = "idx:shoes:profile:" // idx:shoes:profile:{profileID}:{shoeID} → empty
)

// CreateShoe stores a new owned shoe and its profile index entry.
func (s *Store) CreateShoe(ctx context.Context, shoe *domain.Shoe) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(shoePrefix + shoe.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(shoe)
		if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(shoeByProfilePrefix+shoe.ProfileID+":"+shoe.ID), nil)
	})
}

// GetShoe retrieves a shoe by ID.
func (s *Store) GetShoe(ctx context.Context, shoeID string) (*domain.Shoe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var shoe domain.Shoe
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(shoePrefix + shoeID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrShoeNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &shoe)
		})
	})
	if err != nil {
		return nil, err
	}
	return &shoe, nil
}

// UpdateShoe replaces an existing shoe. The profile a shoe belongs to
// never changes, so the index entry stays put.
func (s *Store) UpdateShoe(ctx context.Context, shoe *domain.Shoe) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(shoePrefix + shoe.ID)
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrShoeNotFound
		} else if err != nil {
			return err
		}

		data, err := json.Marshal(shoe)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// DeleteShoe removes a shoe and its profile index entry. Idempotent.
func (s *Store) DeleteShoe(ctx context.Context, shoeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		var shoe domain.Shoe
		item, err := txn.Get([]byte(shoePrefix + shoeID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &shoe)
		}); err != nil {
			return err
		}

		if err := txn.Delete([]byte(shoeByProfilePrefix + shoe.ProfileID + ":" + shoe.ID)); err != nil {
			return err
		}
		return txn.Delete([]byte(shoePrefix + shoe.ID))
	})
}

// ListShoesByProfile returns all shoes owned by a profile.
func (s *Store) ListShoesByProfile(ctx context.Context, profileID string) ([]*domain.Shoe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var ids []string
	prefix := []byte(shoeByProfilePrefix + profileID + ":")
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

	shoes := make([]*domain.Shoe, 0, len(ids))
	for _, id := range ids {
		shoe, err := s.GetShoe(ctx, id)
		if err != nil {
			return nil, err
		}
		shoes = append(shoes, shoe)
	}
	return shoes, nil
}
