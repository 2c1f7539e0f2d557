package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// Options configures a migration run.
type Options struct {
	// DryRun logs intended writes without performing them.
	DryRun bool
	// HighlightPolicy controls highlight-run duplicate matching.
	HighlightPolicy HighlightMatchPolicy
}

// Result summarizes one migration run.
type Result struct {
	Profiles          int
	HighlightsCreated int
	RacesCreated      int
	ShoesCreated      int
	ShoesLinked       int
	Failed            []string
}

// Migrator runs the legacy-data migration across profiles. Each profile
// is an independent unit of work: a failure is logged and recorded but
// does not abort or roll back other profiles, and a failed profile is
// safe to re-run because every step re-checks its target state from
// scratch.
type Migrator struct {
	store     *store.Store
	logger    *slog.Logger
	opts      Options
	highlight *HighlightRunMigrator
	races     *RaceEventMigrator
	shoes     *ShoeReconciler
}

// NewMigrator creates a migration runner.
func NewMigrator(st *store.Store, logger *slog.Logger, opts Options) *Migrator {
	return &Migrator{
		store:     st,
		logger:    logger,
		opts:      opts,
		highlight: NewHighlightRunMigrator(st, logger, opts.HighlightPolicy, opts.DryRun),
		races:     NewRaceEventMigrator(st, logger, opts.DryRun),
		shoes:     NewShoeReconciler(st, logger, opts.DryRun),
	}
}

// RunAll migrates every profile in the store.
func (m *Migrator) RunAll(ctx context.Context) (*Result, error) {
	profiles, err := m.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return m.run(ctx, profiles)
}

// RunSlugs migrates the named profiles only. Unknown slugs are an error.
func (m *Migrator) RunSlugs(ctx context.Context, slugs []string) (*Result, error) {
	profiles := make([]*domain.Profile, 0, len(slugs))
	for _, slug := range slugs {
		p, err := m.store.GetProfileBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", slug, err)
		}
		profiles = append(profiles, p)
	}
	return m.run(ctx, profiles)
}

func (m *Migrator) run(ctx context.Context, profiles []*domain.Profile) (*Result, error) {
	res := &Result{Profiles: len(profiles)}
	var errs []error

	for _, p := range profiles {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := m.migrateProfile(ctx, p, res); err != nil {
			m.logger.Error("profile migration failed",
				"profile_id", p.ID, "slug", p.Slug, "error", err)
			res.Failed = append(res.Failed, p.Slug)
			errs = append(errs, fmt.Errorf("profile %q: %w", p.Slug, err))
		}
	}

	m.logger.Info("migration finished",
		"profiles", res.Profiles,
		"highlights_created", res.HighlightsCreated,
		"races_created", res.RacesCreated,
		"shoes_created", res.ShoesCreated,
		"shoes_linked", res.ShoesLinked,
		"failed", len(res.Failed),
		"dry_run", m.opts.DryRun)

	return res, errors.Join(errs...)
}

func (m *Migrator) migrateProfile(ctx context.Context, p *domain.Profile, res *Result) error {
	created, err := m.highlight.Migrate(ctx, p)
	if err != nil {
		return fmt.Errorf("highlight run: %w", err)
	}
	if created {
		res.HighlightsCreated++
	}

	races, err := m.races.Migrate(ctx, p)
	if err != nil {
		return fmt.Errorf("race events: %w", err)
	}
	res.RacesCreated += races

	rotations, err := m.store.ListRotationsByProfile(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("list rotations: %w", err)
	}
	if len(rotations) == 0 {
		return nil
	}

	// One working set per profile, shared across its rotations.
	owned, err := m.shoes.WorkingSet(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("load shoes: %w", err)
	}
	for _, rot := range rotations {
		shoesCreated, shoesLinked, err := m.shoes.ReconcileRotation(ctx, p.ID, rot, owned)
		res.ShoesCreated += shoesCreated
		res.ShoesLinked += shoesLinked
		if err != nil {
			return fmt.Errorf("rotation %q: %w", rot.Name, err)
		}
	}
	return nil
}
