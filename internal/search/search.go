// Package search provides the public profile directory search, backed
// by a Bleve full-text index over profile names, slugs, and taglines.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// profileDocument is the indexed representation of a profile. Display
// fields are stored so search results render without a store lookup.
type profileDocument struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	DisplayName string `json:"display_name"`
	Tagline     string `json:"tagline,omitempty"`
}

// Result is one profile directory search hit.
type Result struct {
	ProfileID   string  `json:"profile_id"`
	Slug        string  `json:"slug"`
	DisplayName string  `json:"display_name"`
	Tagline     string  `json:"tagline,omitempty"`
	Score       float64 `json:"score"`
}

// Index wraps a Bleve index of public profiles. All methods are safe
// for concurrent use.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewIndex creates or opens the profile index under dataPath. A
// corrupted index is removed and recreated; callers should reindex from
// the store after startup.
func NewIndex(dataPath string, logger *slog.Logger) (*Index, error) {
	indexPath := filepath.Join(dataPath, "profiles.bleve")

	idx, err := bleve.Open(indexPath)
	if err != nil {
		if removeErr := os.RemoveAll(indexPath); removeErr != nil {
			return nil, fmt.Errorf("remove old index: %w", removeErr)
		}
		idx, err = bleve.New(indexPath, buildMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		logger.Info("created new profile search index", "path", indexPath)
	} else {
		logger.Info("opened existing profile search index", "path", indexPath)
	}

	return &Index{index: idx, logger: logger}, nil
}

func buildMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = en.AnalyzerName
	nameField.Store = true
	docMapping.AddFieldMappingsAt("display_name", nameField)

	slugField := bleve.NewTextFieldMapping()
	slugField.Analyzer = keyword.Name
	slugField.Store = true
	docMapping.AddFieldMappingsAt("slug", slugField)

	taglineField := bleve.NewTextFieldMapping()
	taglineField.Analyzer = en.AnalyzerName
	taglineField.Store = true
	docMapping.AddFieldMappingsAt("tagline", taglineField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Close closes the index and releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}

// IndexProfile adds or updates a profile in the index.
func (i *Index) IndexProfile(ctx context.Context, p *domain.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	doc := profileDocument{
		ID:          p.ID,
		Slug:        p.Slug,
		DisplayName: p.DisplayName,
		Tagline:     p.Tagline,
	}
	return i.index.Index(p.ID, doc)
}

// DeleteProfile removes a profile from the index.
func (i *Index) DeleteProfile(ctx context.Context, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.index.Delete(profileID)
}

// Reindex replaces the index contents with the given profiles. Used on
// startup to recover from a recreated index.
func (i *Index) Reindex(ctx context.Context, profiles []*domain.Profile) error {
	for _, p := range profiles {
		if err := i.IndexProfile(ctx, p); err != nil {
			return fmt.Errorf("index profile %s: %w", p.ID, err)
		}
	}
	i.logger.Info("profile search reindex complete", "profiles", len(profiles))
	return nil
}

// Search runs a directory query over display names, slugs, and
// taglines. Matches are fuzzy on the name so near-misses still rank.
func (i *Index) Search(ctx context.Context, queryString string, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	nameMatch := bleve.NewMatchQuery(queryString)
	nameMatch.SetField("display_name")
	nameMatch.SetFuzziness(1)
	nameMatch.SetBoost(2)

	namePrefix := bleve.NewPrefixQuery(queryString)
	namePrefix.SetField("display_name")

	slugMatch := bleve.NewTermQuery(queryString)
	slugMatch.SetField("slug")
	slugMatch.SetBoost(3)

	taglineMatch := bleve.NewMatchQuery(queryString)
	taglineMatch.SetField("tagline")

	q := bleve.NewDisjunctionQuery(nameMatch, namePrefix, slugMatch, taglineMatch)

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"slug", "display_name", "tagline"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := Result{ProfileID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["slug"].(string); ok {
			r.Slug = v
		}
		if v, ok := hit.Fields["display_name"].(string); ok {
			r.DisplayName = v
		}
		if v, ok := hit.Fields["tagline"].(string); ok {
			r.Tagline = v
		}
		results = append(results, r)
	}
	return results, nil
}
