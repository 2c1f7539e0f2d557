package reconcile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

func setupTest(t *testing.T) (*store.Store, *slog.Logger) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "reconcile-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	})

	return s, slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedProfile(t *testing.T, s *store.Store, slug string) *domain.Profile {
	t.Helper()
	p := domain.NewProfile("prof-"+slug, "user-"+slug, slug, "Test Runner")
	require.NoError(t, s.CreateProfile(context.Background(), p))
	return p
}

func TestHighlightRunMigrator_Idempotent(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyHighlightRun = &domain.LegacyHighlightRun{
		Name:       "Dawn Loop",
		StartDate:  time.Date(2023, 3, 19, 7, 0, 0, 0, time.UTC),
		Distance:   21097,
		MovingTime: 6530,
	}

	m := NewHighlightRunMigrator(s, log, MatchByName, false)

	created, err := m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.False(t, created, "second run must not create another highlight")

	hl, err := s.GetHighlightRun(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dawn Loop", hl.Name)
	assert.Equal(t, 21097.0, hl.DistanceMeters)
	assert.Equal(t, 6530, hl.MovingTimeSeconds)
}

func TestHighlightRunMigrator_AbsentLegacyField(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")

	m := NewHighlightRunMigrator(s, log, MatchByName, false)
	created, err := m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)

	_, err = s.GetHighlightRun(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrHighlightNotFound)
}

func TestHighlightRunMigrator_SkipsNamelessLegacy(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyHighlightRun = &domain.LegacyHighlightRun{Distance: 10000, MovingTime: 3600}

	m := NewHighlightRunMigrator(s, log, MatchByName, false)
	created, err := m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestHighlightRunMigrator_RenamedLegacy(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyHighlightRun = &domain.LegacyHighlightRun{Name: "Dawn Loop", Distance: 10000, MovingTime: 3600}

	byName := NewHighlightRunMigrator(s, log, MatchByName, false)
	_, err := byName.Migrate(ctx, p)
	require.NoError(t, err)

	// Legacy name changes after the first migration.
	p.LegacyHighlightRun.Name = "Sunset Loop"

	// Match-by-name attempts a second insert and hits the uniqueness
	// index; the conflict surfaces to the caller.
	_, err = byName.Migrate(ctx, p)
	assert.ErrorIs(t, err, store.ErrHighlightExists)

	// The strict policy treats any existing highlight as done.
	single := NewHighlightRunMigrator(s, log, SinglePerProfile, false)
	created, err := single.Migrate(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRaceEventMigrator_PopulatesEmptyProfile(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyEvents = []domain.LegacyEvent{
		{
			Name:       "Oakland Marathon",
			StartDate:  time.Date(2023, 3, 19, 0, 0, 0, 0, time.UTC),
			Distance:   42195,
			MovingTime: 13057,
		},
	}

	m := NewRaceEventMigrator(s, log, false)
	created, err := m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	races, err := s.ListRacesByProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, "Oakland Marathon", races[0].Name)
	assert.Equal(t, domain.WorkoutTypeRace, races[0].WorkoutType)
	assert.Equal(t, p.ID, races[0].RaceProfileID)
	assert.Equal(t, 42195.0, races[0].DistanceMeters)
	assert.Equal(t, 0.0, races[0].ElevationGainMeters, "absent elevation defaults to zero")

	// Second run: the gate sees the migrated races and does nothing.
	created, err = m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	races, err = s.ListRacesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, races, 1)
}

func TestRaceEventMigrator_GateBlocksOnAnyExistingRace(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyEvents = []domain.LegacyEvent{
		{Name: "Oakland Marathon", Distance: 42195, MovingTime: 13057},
		{Name: "Bay Half", Distance: 21097, MovingTime: 6530},
	}

	// One manually-added race blocks the entire legacy array.
	manual := domain.NewRace("act-manual", p.ID, "CIM", time.Now())
	require.NoError(t, s.CreateActivity(ctx, manual))

	m := NewRaceEventMigrator(s, log, false)
	created, err := m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	count, err := s.CountRacesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRaceEventMigrator_SkipsNamelessEvents(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyEvents = []domain.LegacyEvent{
		{Name: "", Distance: 5000},
		{Name: "Bay Half", Distance: 21097, MovingTime: 6530},
	}

	m := NewRaceEventMigrator(s, log, false)
	created, err := m.Migrate(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestShoeReconciler_LinksExistingShoe(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	existing := domain.NewShoe("shoe-1", p.ID, "Saucony", "Ride 15", 82803, time.Now())
	require.NoError(t, s.CreateShoe(ctx, existing))

	rot := domain.NewShoeRotation("rot-1", p.ID, "Spring Block", time.Now())
	rot.Shoes = []domain.LegacyShoe{{BrandName: "Saucony", ModelName: "Ride 15", Distance: 82803}}
	require.NoError(t, s.CreateRotation(ctx, rot))

	r := NewShoeReconciler(s, log, false)
	owned, err := r.WorkingSet(ctx, p.ID)
	require.NoError(t, err)

	created, linked, err := r.ReconcileRotation(ctx, p.ID, rot, owned)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, linked)

	shoes, err := s.ListShoesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, shoes, 1, "no duplicate shoe row")

	got, err := s.GetRotation(ctx, "rot-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"shoe-1"}, got.ShoeIDs)
}

func TestShoeReconciler_CreatesMissingShoe(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")

	rot := domain.NewShoeRotation("rot-1", p.ID, "Spring Block", time.Now())
	rot.Shoes = []domain.LegacyShoe{{BrandName: "New Balance", ModelName: "Rebel v3", Distance: 160934}}
	require.NoError(t, s.CreateRotation(ctx, rot))

	r := NewShoeReconciler(s, log, false)
	owned, err := r.WorkingSet(ctx, p.ID)
	require.NoError(t, err)

	created, linked, err := r.ReconcileRotation(ctx, p.ID, rot, owned)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, linked)

	shoes, err := s.ListShoesByProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, shoes, 1)
	assert.Equal(t, p.ID, shoes[0].ProfileID)
	assert.Equal(t, "New Balance", shoes[0].BrandName)
	assert.Equal(t, 160934.0, shoes[0].DistanceMeters)

	got, err := s.GetRotation(ctx, "rot-1")
	require.NoError(t, err)
	assert.Equal(t, []string{shoes[0].ID}, got.ShoeIDs)
}

func TestShoeReconciler_DuplicateEntriesWithinOnePass(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")

	rot := domain.NewShoeRotation("rot-1", p.ID, "Spring Block", time.Now())
	rot.Shoes = []domain.LegacyShoe{
		{BrandName: "Saucony", ModelName: "Ride 15", Distance: 82803},
		{BrandName: "Saucony", ModelName: "Ride 15", Distance: 82803},
	}
	require.NoError(t, s.CreateRotation(ctx, rot))

	r := NewShoeReconciler(s, log, false)
	owned, err := r.WorkingSet(ctx, p.ID)
	require.NoError(t, err)

	created, linked, err := r.ReconcileRotation(ctx, p.ID, rot, owned)
	require.NoError(t, err)
	assert.Equal(t, 1, created, "second identical entry finds the first's shoe")
	assert.Equal(t, 0, linked)

	shoes, err := s.ListShoesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, shoes, 1)
}

func TestShoeReconciler_DistanceMismatchCreatesNewShoe(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	existing := domain.NewShoe("shoe-1", p.ID, "Saucony", "Ride 15", 82803, time.Now())
	require.NoError(t, s.CreateShoe(ctx, existing))

	// Same brand and model, different distance: no tolerance band, so
	// this is a different shoe.
	rot := domain.NewShoeRotation("rot-1", p.ID, "Spring Block", time.Now())
	rot.Shoes = []domain.LegacyShoe{{BrandName: "Saucony", ModelName: "Ride 15", Distance: 82804}}
	require.NoError(t, s.CreateRotation(ctx, rot))

	r := NewShoeReconciler(s, log, false)
	owned, err := r.WorkingSet(ctx, p.ID)
	require.NoError(t, err)

	created, _, err := r.ReconcileRotation(ctx, p.ID, rot, owned)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	shoes, err := s.ListShoesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, shoes, 2)
}

func TestMigrator_DryRunWritesNothing(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyHighlightRun = &domain.LegacyHighlightRun{Name: "Dawn Loop", Distance: 10000, MovingTime: 3600}
	p.LegacyEvents = []domain.LegacyEvent{{Name: "Oakland Marathon", Distance: 42195, MovingTime: 13057}}
	require.NoError(t, s.UpdateProfile(ctx, p))

	rot := domain.NewShoeRotation("rot-1", p.ID, "Spring Block", time.Now())
	rot.Shoes = []domain.LegacyShoe{{BrandName: "Saucony", ModelName: "Ride 15", Distance: 82803}}
	require.NoError(t, s.CreateRotation(ctx, rot))

	m := NewMigrator(s, log, Options{DryRun: true})
	res, err := m.RunAll(ctx)
	require.NoError(t, err)

	// The run reports what it would do.
	assert.Equal(t, 1, res.HighlightsCreated)
	assert.Equal(t, 1, res.RacesCreated)
	assert.Equal(t, 1, res.ShoesCreated)

	// Nothing was written.
	_, err = s.GetHighlightRun(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrHighlightNotFound)

	count, err := s.CountRacesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	shoes, err := s.ListShoesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, shoes)

	got, err := s.GetRotation(ctx, "rot-1")
	require.NoError(t, err)
	assert.Empty(t, got.ShoeIDs)
}

func TestMigrator_EndToEnd(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	p := seedProfile(t, s, "alex")
	p.LegacyHighlightRun = &domain.LegacyHighlightRun{Name: "Dawn Loop", Distance: 10000, MovingTime: 3600}
	p.LegacyEvents = []domain.LegacyEvent{{
		Name:       "Oakland Marathon",
		StartDate:  time.Date(2023, 3, 19, 0, 0, 0, 0, time.UTC),
		Distance:   42195,
		MovingTime: 13057,
	}}
	require.NoError(t, s.UpdateProfile(ctx, p))

	rot := domain.NewShoeRotation("rot-1", p.ID, "Spring Block", time.Now())
	rot.Shoes = []domain.LegacyShoe{{BrandName: "New Balance", ModelName: "Rebel v3", Distance: 160934}}
	require.NoError(t, s.CreateRotation(ctx, rot))

	m := NewMigrator(s, log, Options{})

	res, err := m.RunAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Profiles)
	assert.Equal(t, 1, res.HighlightsCreated)
	assert.Equal(t, 1, res.RacesCreated)
	assert.Equal(t, 1, res.ShoesCreated)
	assert.Empty(t, res.Failed)

	// Second run with no other changes is a no-op.
	res, err = m.RunAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.HighlightsCreated)
	assert.Equal(t, 0, res.RacesCreated)
	assert.Equal(t, 0, res.ShoesCreated)
	assert.Equal(t, 0, res.ShoesLinked)

	races, err := s.ListRacesByProfile(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, 42195.0, races[0].DistanceMeters)

	hl, err := s.GetHighlightRun(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dawn Loop", hl.Name)

	shoes, err := s.ListShoesByProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, shoes, 1)
}

func TestMigrator_RunSlugsSelectsProfiles(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	a := seedProfile(t, s, "alex")
	a.LegacyEvents = []domain.LegacyEvent{{Name: "Oakland Marathon", Distance: 42195}}
	require.NoError(t, s.UpdateProfile(ctx, a))

	b := seedProfile(t, s, "casey")
	b.LegacyEvents = []domain.LegacyEvent{{Name: "CIM", Distance: 42195}}
	require.NoError(t, s.UpdateProfile(ctx, b))

	m := NewMigrator(s, log, Options{})
	res, err := m.RunSlugs(ctx, []string{"alex"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Profiles)

	count, err := s.CountRacesByProfile(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = s.CountRacesByProfile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "unselected profile untouched")

	_, err = m.RunSlugs(ctx, []string{"nobody"})
	assert.Error(t, err)
}

func TestMigrator_ProfileFailureDoesNotBlockOthers(t *testing.T) {
	s, log := setupTest(t)
	ctx := context.Background()

	// Profile "alex" will fail: its legacy highlight was migrated and
	// then renamed, so match-by-name hits the uniqueness index.
	a := seedProfile(t, s, "alex")
	a.LegacyHighlightRun = &domain.LegacyHighlightRun{Name: "Dawn Loop", Distance: 10000, MovingTime: 3600}
	require.NoError(t, s.UpdateProfile(ctx, a))

	m := NewMigrator(s, log, Options{HighlightPolicy: MatchByName})
	_, err := m.RunAll(ctx)
	require.NoError(t, err)

	a.LegacyHighlightRun.Name = "Sunset Loop"
	require.NoError(t, s.UpdateProfile(ctx, a))

	b := seedProfile(t, s, "casey")
	b.LegacyEvents = []domain.LegacyEvent{{Name: "CIM", Distance: 42195}}
	require.NoError(t, s.UpdateProfile(ctx, b))

	res, err := m.RunAll(ctx)
	assert.Error(t, err)
	assert.Equal(t, []string{"alex"}, res.Failed)
	assert.Equal(t, 1, res.RacesCreated, "other profile still migrated")

	count, err := s.CountRacesByProfile(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
