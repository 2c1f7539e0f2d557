package store

import (
	"context"
	"encoding/json/v2"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// Key prefixes for profile storage. Slug and user indexes enforce one
// profile per slug and one profile per user at write time.
const (
	profilePrefix       = "profile:"           // profile:{id} → Profile JSON
	profileBySlugPrefix = "idx:profiles:slug:" // idx:profiles:slug:{slug} → profileID
	profileByUserPrefix = "idx:profiles:user:" // idx:profiles:user:{userID} → profileID
)

// CreateProfile stores a new profile. Fails if the slug is taken or the
// user already has a profile.
func (s *Store) CreateProfile(ctx context.Context, p *domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		slugKey := []byte(profileBySlugPrefix + p.Slug)
		if _, err := txn.Get(slugKey); err == nil {
			return ErrSlugTaken
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		userKey := []byte(profileByUserPrefix + p.UserID)
		if _, err := txn.Get(userKey); err == nil {
			return ErrProfileExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(profilePrefix+p.ID), data); err != nil {
			return err
		}
		if err := txn.Set(slugKey, []byte(p.ID)); err != nil {
			return err
		}
		return txn.Set(userKey, []byte(p.ID))
	})
	if err != nil {
		return err
	}

	s.indexProfile(ctx, p)
	return nil
}

// GetProfile retrieves a profile by ID.
func (s *Store) GetProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var p domain.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(profilePrefix + profileID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfileBySlug retrieves a profile by its public slug.
func (s *Store) GetProfileBySlug(ctx context.Context, slug string) (*domain.Profile, error) {
	return s.getProfileByIndex(ctx, profileBySlugPrefix+slug)
}

// GetProfileByUser retrieves the profile owned by a user.
func (s *Store) GetProfileByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.getProfileByIndex(ctx, profileByUserPrefix+userID)
}

func (s *Store) getProfileByIndex(ctx context.Context, indexKey string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profileID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(indexKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			profileID = string(val)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, profileID)
}

// UpdateProfile replaces a profile, moving the slug index if the slug
// changed. Fails with ErrSlugTaken if the new slug is in use.
func (s *Store) UpdateProfile(ctx context.Context, p *domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var old domain.Profile
		item, err := txn.Get([]byte(profilePrefix + p.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrProfileNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &old)
		}); err != nil {
			return err
		}

		if old.Slug != p.Slug {
			newSlugKey := []byte(profileBySlugPrefix + p.Slug)
			if _, err := txn.Get(newSlugKey); err == nil {
				return ErrSlugTaken
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete([]byte(profileBySlugPrefix + old.Slug)); err != nil {
				return err
			}
			if err := txn.Set(newSlugKey, []byte(p.ID)); err != nil {
				return err
			}
		}

		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		return txn.Set([]byte(profilePrefix+p.ID), data)
	})
	if err != nil {
		return err
	}

	s.indexProfile(ctx, p)
	return nil
}

// ListProfiles returns all profiles. Used by the migration CLI and the
// search reindex pass.
func (s *Store) ListProfiles(ctx context.Context) ([]*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var profiles []*domain.Profile
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(profilePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek([]byte(profilePrefix)); it.ValidForPrefix([]byte(profilePrefix)); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var p domain.Profile
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return err
			}
			profiles = append(profiles, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Store) indexProfile(ctx context.Context, p *domain.Profile) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexProfile(ctx, p); err != nil && s.logger != nil {
		s.logger.Warn("failed to index profile", "profile_id", p.ID, "error", err)
	}
}
