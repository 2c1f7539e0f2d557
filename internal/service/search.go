package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vsrunapp/vsrun-server/internal/search"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

const defaultSearchLimit = 20

// SearchService answers profile directory queries.
type SearchService struct {
	store  *store.Store
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a search service and rebuilds the index from
// the store so it reflects profiles written while the index was offline.
func NewSearchService(ctx context.Context, st *store.Store, index *search.Index, logger *slog.Logger) (*SearchService, error) {
	profiles, err := st.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	if err := index.Reindex(ctx, profiles); err != nil {
		return nil, err
	}
	logger.Info("profile search index rebuilt", "profiles", len(profiles))
	return &SearchService{store: st, index: index, logger: logger}, nil
}

// Search finds profiles matching a free-text query. An empty query
// returns no results.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]search.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}
	return s.index.Search(ctx, query, limit)
}
