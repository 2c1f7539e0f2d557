package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "store-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := New(dbPath, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func testProfile(id, userID, slug string) *domain.Profile {
	return domain.NewProfile(id, userID, slug, "Test Runner")
}

func TestCreateProfile(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	p := testProfile("prof-1", "user-1", "alex")
	require.NoError(t, s.CreateProfile(ctx, p))

	got, err := s.GetProfile(ctx, "prof-1")
	require.NoError(t, err)
	assert.Equal(t, "alex", got.Slug)

	bySlug, err := s.GetProfileBySlug(ctx, "alex")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	byUser, err := s.GetProfileByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byUser.ID)
}

func TestCreateProfile_SlugTaken(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateProfile(ctx, testProfile("prof-1", "user-1", "alex")))

	err := s.CreateProfile(ctx, testProfile("prof-2", "user-2", "alex"))
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreateProfile_OnePerUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateProfile(ctx, testProfile("prof-1", "user-1", "alex")))

	err := s.CreateProfile(ctx, testProfile("prof-2", "user-1", "alex-two"))
	assert.ErrorIs(t, err, ErrProfileExists)
}

func TestUpdateProfile_SlugChange(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	p := testProfile("prof-1", "user-1", "alex")
	require.NoError(t, s.CreateProfile(ctx, p))

	p.Slug = "alex-runs"
	require.NoError(t, s.UpdateProfile(ctx, p))

	_, err := s.GetProfileBySlug(ctx, "alex")
	assert.ErrorIs(t, err, ErrProfileNotFound, "old slug should be released")

	got, err := s.GetProfileBySlug(ctx, "alex-runs")
	require.NoError(t, err)
	assert.Equal(t, "prof-1", got.ID)

	// A second profile cannot take a slug that is in use.
	other := testProfile("prof-2", "user-2", "casey")
	require.NoError(t, s.CreateProfile(ctx, other))
	other.Slug = "alex-runs"
	assert.ErrorIs(t, s.UpdateProfile(ctx, other), ErrSlugTaken)
}

func TestShoeProfileScoping(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShoe(ctx, domain.NewShoe("shoe-1", "prof-1", "Saucony", "Ride 15", 82803, time.Now())))
	require.NoError(t, s.CreateShoe(ctx, domain.NewShoe("shoe-2", "prof-1", "New Balance", "Rebel v3", 160934, time.Now())))
	require.NoError(t, s.CreateShoe(ctx, domain.NewShoe("shoe-3", "prof-2", "Nike", "Pegasus 40", 0, time.Now())))

	shoes, err := s.ListShoesByProfile(ctx, "prof-1")
	require.NoError(t, err)
	assert.Len(t, shoes, 2)

	shoes, err = s.ListShoesByProfile(ctx, "prof-2")
	require.NoError(t, err)
	require.Len(t, shoes, 1)
	assert.Equal(t, "Nike", shoes[0].BrandName)
}

func TestDeleteShoe(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateShoe(ctx, domain.NewShoe("shoe-1", "prof-1", "Saucony", "Ride 15", 82803, time.Now())))
	require.NoError(t, s.DeleteShoe(ctx, "shoe-1"))

	_, err := s.GetShoe(ctx, "shoe-1")
	assert.ErrorIs(t, err, ErrShoeNotFound)

	shoes, err := s.ListShoesByProfile(ctx, "prof-1")
	require.NoError(t, err)
	assert.Empty(t, shoes)

	// Deleting again is a no-op.
	assert.NoError(t, s.DeleteShoe(ctx, "shoe-1"))
}

func TestRotationCRUD(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	r := domain.NewShoeRotation("rot-1", "prof-1", "Spring Block", time.Now())
	r.ShoeIDs = []string{"shoe-1"}
	require.NoError(t, s.CreateRotation(ctx, r))

	got, err := s.GetRotation(ctx, "rot-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shoe-1"}, got.ShoeIDs)

	got.LinkShoe("shoe-2")
	require.NoError(t, s.UpdateRotation(ctx, got))

	got, err = s.GetRotation(ctx, "rot-1")
	require.NoError(t, err)
	assert.Len(t, got.ShoeIDs, 2)

	rotations, err := s.ListRotationsByProfile(ctx, "prof-1")
	require.NoError(t, err)
	assert.Len(t, rotations, 1)

	require.NoError(t, s.DeleteRotation(ctx, "rot-1"))
	_, err = s.GetRotation(ctx, "rot-1")
	assert.ErrorIs(t, err, ErrRotationNotFound)
}

func TestHighlightUniquePerProfile(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	hl := domain.NewHighlightRun("act-1", "prof-1", "Dawn Loop", time.Now())
	require.NoError(t, s.CreateActivity(ctx, hl))

	got, err := s.GetHighlightRun(ctx, "prof-1")
	require.NoError(t, err)
	assert.Equal(t, "act-1", got.ID)

	// A second highlight for the same profile is rejected.
	second := domain.NewHighlightRun("act-2", "prof-1", "Another Run", time.Now())
	assert.ErrorIs(t, s.CreateActivity(ctx, second), ErrHighlightExists)

	// Other profiles are unaffected.
	other := domain.NewHighlightRun("act-3", "prof-2", "Dawn Loop", time.Now())
	assert.NoError(t, s.CreateActivity(ctx, other))

	// Deleting frees the slot.
	require.NoError(t, s.DeleteActivity(ctx, "act-1"))
	_, err = s.GetHighlightRun(ctx, "prof-1")
	assert.ErrorIs(t, err, ErrHighlightNotFound)
}

func TestRaceIndexAndCount(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateActivity(ctx, domain.NewRace("act-1", "prof-1", "Oakland Marathon", time.Now())))
	require.NoError(t, s.CreateActivity(ctx, domain.NewRace("act-2", "prof-1", "Bay Half", time.Now())))
	require.NoError(t, s.CreateActivity(ctx, domain.NewRace("act-3", "prof-2", "CIM", time.Now())))

	count, err := s.CountRacesByProfile(ctx, "prof-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	races, err := s.ListRacesByProfile(ctx, "prof-2")
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "CIM", races[0].Name)

	require.NoError(t, s.DeleteActivity(ctx, "act-1"))
	count, err = s.CountRacesByProfile(ctx, "prof-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserEmailIndexCaseInsensitive(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	u := &domain.User{
		ID:        "user-1",
		Email:     "Alex@Example.com",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.Users.Create(ctx, u.ID, u))

	got, err := s.GetUserByEmail(ctx, "alex@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	// Same email in different case conflicts.
	dup := &domain.User{ID: "user-2", Email: "ALEX@example.com"}
	assert.ErrorIs(t, s.Users.Create(ctx, dup.ID, dup), ErrAlreadyExists)
}

func TestSessionRefreshIndex(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sess := &domain.Session{
		ID:               "sess-1",
		UserID:           "user-1",
		RefreshTokenHash: "hash-abc",
		ExpiresAt:        time.Now().Add(24 * time.Hour),
		CreatedAt:        time.Now(),
		LastSeenAt:       time.Now(),
	}
	require.NoError(t, s.Sessions.Create(ctx, sess.ID, sess))

	got, err := s.GetSessionByRefreshHash(ctx, "hash-abc")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)

	require.NoError(t, s.DeleteUserSessions(ctx, "user-1"))
	_, err = s.GetSessionByRefreshHash(ctx, "hash-abc")
	assert.ErrorIs(t, err, ErrNotFound)
}
