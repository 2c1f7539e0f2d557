package reconcile

import (
	"context"
	"log/slog"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// RaceEventMigrator populates a profile's race activities from its
// legacy embedded events array. The gate is all-or-nothing at the
// profile level: if any race activity already exists, the whole legacy
// array is skipped. A per-event merge keyed by name and date would be
// the alternative, but that changes observable behavior, so the
// population guard is kept as is.
type RaceEventMigrator struct {
	store  *store.Store
	logger *slog.Logger
	dryRun bool
}

// NewRaceEventMigrator creates a migrator.
func NewRaceEventMigrator(st *store.Store, logger *slog.Logger, dryRun bool) *RaceEventMigrator {
	return &RaceEventMigrator{store: st, logger: logger, dryRun: dryRun}
}

// Migrate bulk-creates race activities for one profile from its legacy
// events, only when the profile has no race activities yet. Returns the
// number of races created (or that would be, in dry-run mode).
func (m *RaceEventMigrator) Migrate(ctx context.Context, p *domain.Profile) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(p.LegacyEvents) == 0 {
		return 0, nil
	}

	count, err := m.store.CountRacesByProfile(ctx, p.ID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		m.logger.Info("profile already has races, skipping legacy events",
			"profile_id", p.ID, "existing", count, "legacy_events", len(p.LegacyEvents))
		return 0, nil
	}

	created := 0
	for _, event := range p.LegacyEvents {
		if event.Name == "" {
			m.logger.Warn("skipping legacy event with no name", "profile_id", p.ID)
			continue
		}

		if m.dryRun {
			m.logger.Info("dry run: would create race",
				"profile_id", p.ID, "name", event.Name, "distance_m", event.Distance)
			created++
			continue
		}

		a := domain.NewRace(id.MustGenerate("act"), p.ID, event.Name, event.StartDate)
		a.DistanceMeters = event.Distance
		a.MovingTimeSeconds = event.MovingTime
		a.ElevationGainMeters = event.TotalElevationGain

		if err := m.store.CreateActivity(ctx, a); err != nil {
			return created, err
		}
		created++
	}

	if created > 0 && !m.dryRun {
		m.logger.Info("migrated legacy events", "profile_id", p.ID, "created", created)
	}
	return created, nil
}
