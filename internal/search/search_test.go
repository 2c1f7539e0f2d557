package search

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

func setupIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func seedProfiles(t *testing.T, idx *Index) {
	t.Helper()
	ctx := context.Background()

	profiles := []*domain.Profile{
		{ID: "prof-1", Slug: "alex-runs", DisplayName: "Alex Rivera", Tagline: "Marathon hopeful"},
		{ID: "prof-2", Slug: "casey", DisplayName: "Casey Morgan", Tagline: "Trail runner"},
		{ID: "prof-3", Slug: "jordan", DisplayName: "Jordan Lee", Tagline: "Chasing a sub-3 marathon"},
	}
	for _, p := range profiles {
		require.NoError(t, idx.IndexProfile(ctx, p))
	}
}

func TestSearchByDisplayName(t *testing.T) {
	idx := setupIndex(t)
	seedProfiles(t, idx)

	results, err := idx.Search(context.Background(), "alex", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "prof-1", results[0].ProfileID)
	assert.Equal(t, "alex-runs", results[0].Slug)
	assert.Equal(t, "Alex Rivera", results[0].DisplayName)
}

func TestSearchBySlugExact(t *testing.T) {
	idx := setupIndex(t)
	seedProfiles(t, idx)

	results, err := idx.Search(context.Background(), "casey", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "prof-2", results[0].ProfileID)
}

func TestSearchByTagline(t *testing.T) {
	idx := setupIndex(t)
	seedProfiles(t, idx)

	results, err := idx.Search(context.Background(), "marathon", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestDeleteProfileRemovesHit(t *testing.T) {
	idx := setupIndex(t)
	seedProfiles(t, idx)
	ctx := context.Background()

	require.NoError(t, idx.DeleteProfile(ctx, "prof-2"))

	results, err := idx.Search(ctx, "casey", 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "prof-2", r.ProfileID)
	}
}

func TestReindex(t *testing.T) {
	idx := setupIndex(t)
	ctx := context.Background()

	err := idx.Reindex(ctx, []*domain.Profile{
		{ID: "prof-9", Slug: "sam", DisplayName: "Sam Blake"},
	})
	require.NoError(t, err)

	results, err := idx.Search(ctx, "sam", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "prof-9", results[0].ProfileID)
}
