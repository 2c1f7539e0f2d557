// Package store persists vsrun entities in a Badger key-value database.
// Each entity type gets a primary key prefix plus secondary index keys;
// all writes happen inside single Update transactions.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// SearchIndexer keeps the profile directory search index in sync with
// store writes. Set after store creation to avoid a circular dependency
// between store and search.
type SearchIndexer interface {
	IndexProfile(ctx context.Context, p *domain.Profile) error
	DeleteProfile(ctx context.Context, profileID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexProfile is a no-op.
func (NoopSearchIndexer) IndexProfile(context.Context, *domain.Profile) error { return nil }

// DeleteProfile is a no-op.
func (NoopSearchIndexer) DeleteProfile(context.Context, string) error { return nil }

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	searchIndexer SearchIndexer

	// Generic entities
	Users    *Entity[domain.User]
	Sessions *Entity[domain.Session]
}

// New opens the database at path and initializes the typed sub-stores.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initUsers()
	store.initSessions()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer wires the search index in after store creation.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

// initUsers sets up the Users entity with a case-insensitive email index.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// initSessions sets up the Sessions entity, indexed by refresh token
// hash for lookup during token rotation and by user for bulk logout.
func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, "session:").
		WithIndex("refresh", func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		}).
		WithIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID + ":" + sess.ID}
		})
}
