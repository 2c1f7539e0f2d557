package reconcile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// HighlightMatchPolicy controls when an existing highlight run blocks
// migration of the legacy embedded one.
type HighlightMatchPolicy int

const (
	// MatchByName skips migration only when an existing highlight run
	// has the same name as the legacy one. If the names differ the
	// migrator attempts a second insert, which the store's
	// one-highlight-per-profile index rejects; that conflict surfaces
	// to the caller rather than being swallowed.
	MatchByName HighlightMatchPolicy = iota
	// SinglePerProfile skips migration whenever the profile already has
	// any highlight run, regardless of name.
	SinglePerProfile
)

// HighlightRunMigrator populates a profile's canonical highlight-run
// activity from its legacy embedded field.
type HighlightRunMigrator struct {
	store  *store.Store
	logger *slog.Logger
	policy HighlightMatchPolicy
	dryRun bool
}

// NewHighlightRunMigrator creates a migrator with the given match policy.
func NewHighlightRunMigrator(st *store.Store, logger *slog.Logger, policy HighlightMatchPolicy, dryRun bool) *HighlightRunMigrator {
	return &HighlightRunMigrator{store: st, logger: logger, policy: policy, dryRun: dryRun}
}

// Migrate creates the highlight-run activity for one profile if the
// legacy field is present and no matching activity exists. Returns true
// if an activity was created (or would be, in dry-run mode).
func (m *HighlightRunMigrator) Migrate(ctx context.Context, p *domain.Profile) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	legacy := p.LegacyHighlightRun
	if legacy.IsZero() {
		return false, nil
	}
	if legacy.Name == "" {
		m.logger.Warn("skipping legacy highlight run with no name", "profile_id", p.ID)
		return false, nil
	}

	existing, err := m.store.GetHighlightRun(ctx, p.ID)
	if err != nil && !errors.Is(err, store.ErrHighlightNotFound) {
		return false, err
	}
	if existing != nil {
		if m.policy == SinglePerProfile || existing.Name == legacy.Name {
			return false, nil
		}
		// MatchByName with a renamed legacy run: fall through and let
		// the store's uniqueness index decide.
	}

	if m.dryRun {
		m.logger.Info("dry run: would create highlight run",
			"profile_id", p.ID, "name", legacy.Name)
		return true, nil
	}

	a := domain.NewHighlightRun(id.MustGenerate("act"), p.ID, legacy.Name, legacy.StartDate)
	a.DistanceMeters = legacy.Distance
	a.MovingTimeSeconds = legacy.MovingTime
	a.ElevationGainMeters = legacy.TotalElevationGain
	a.StartLatLng = legacy.StartLatLng
	a.EndLatLng = legacy.EndLatLng
	a.SummaryPolyline = legacy.SummaryPolyline
	a.Metadata = legacy.Metadata

	if err := m.store.CreateActivity(ctx, a); err != nil {
		return false, err
	}
	m.logger.Info("migrated legacy highlight run",
		"profile_id", p.ID, "activity_id", a.ID, "name", a.Name)
	return true, nil
}
