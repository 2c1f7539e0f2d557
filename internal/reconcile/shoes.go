// Package reconcile merges legacy embedded profile data and
// externally-sourced imports into the normalized owned records without
// creating duplicates. It backs both the one-shot migration CLI and the
// interactive "import shoe into rotation" path.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// ShoeKey identifies a shoe for de-duplication. Externally-sourced and
// legacy shoes arrive without a local ID, so identity is the exact
// (brand, model, distance) tuple. Distance is compared as stored, with
// no tolerance band.
type ShoeKey struct {
	Brand          string
	Model          string
	DistanceMeters float64
}

// KeyForShoe returns the de-duplication key of an owned shoe.
func KeyForShoe(s *domain.Shoe) ShoeKey {
	return ShoeKey{Brand: s.BrandName, Model: s.ModelName, DistanceMeters: s.DistanceMeters}
}

// KeyForLegacy returns the de-duplication key of a legacy shoe entry.
func KeyForLegacy(ls domain.LegacyShoe) ShoeKey {
	return ShoeKey{Brand: ls.BrandName, Model: ls.ModelName, DistanceMeters: ls.Distance}
}

// ShoeOutcome describes what reconciling one shoe entry did.
type ShoeOutcome int

const (
	// ShoeNoop means the shoe existed and was already linked.
	ShoeNoop ShoeOutcome = iota
	// ShoeLinked means an existing shoe was linked into the rotation.
	ShoeLinked
	// ShoeCreated means a new owned shoe was created and linked.
	ShoeCreated
)

// ShoeReconciler ensures every shoe a rotation intends to use has a
// matching owned Shoe record linked into the rotation, creating owned
// shoes only when no key match exists.
type ShoeReconciler struct {
	store  *store.Store
	logger *slog.Logger
	dryRun bool
}

// NewShoeReconciler creates a reconciler. In dry-run mode it logs
// intended writes without performing them.
func NewShoeReconciler(st *store.Store, logger *slog.Logger, dryRun bool) *ShoeReconciler {
	return &ShoeReconciler{store: st, logger: logger, dryRun: dryRun}
}

// WorkingSet loads a profile's owned shoes into a map keyed by the
// de-duplication tuple. The map is refreshed once per profile and
// mutated in place as shoes are created, so repeated identical entries
// within one pass link rather than duplicate.
func (r *ShoeReconciler) WorkingSet(ctx context.Context, profileID string) (map[ShoeKey]*domain.Shoe, error) {
	shoes, err := r.store.ListShoesByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	set := make(map[ShoeKey]*domain.Shoe, len(shoes))
	for _, s := range shoes {
		set[KeyForShoe(s)] = s
	}
	return set, nil
}

// ReconcileShoe processes one rotation shoe entry against the owned
// working set. It mutates owned and rotation in memory; the caller
// persists the rotation once its entries are processed. Created shoes
// are persisted immediately so a later failure never leaves a rotation
// pointing at a shoe that was never written.
func (r *ShoeReconciler) ReconcileShoe(ctx context.Context, profileID string, rotation *domain.ShoeRotation, entry domain.LegacyShoe, owned map[ShoeKey]*domain.Shoe) (*domain.Shoe, ShoeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, ShoeNoop, err
	}

	key := KeyForLegacy(entry)
	shoe, ok := owned[key]
	if !ok {
		created := domain.NewShoe(id.MustGenerate("shoe"), profileID, entry.BrandName, entry.ModelName, entry.Distance, entry.StartDate)
		if r.dryRun {
			r.logger.Info("dry run: would create shoe and link to rotation",
				"profile_id", profileID, "rotation_id", rotation.ID,
				"brand", entry.BrandName, "model", entry.ModelName, "distance_m", entry.Distance)
		} else {
			if err := r.store.CreateShoe(ctx, created); err != nil {
				return nil, ShoeNoop, err
			}
		}
		owned[key] = created
		rotation.LinkShoe(created.ID)
		return created, ShoeCreated, nil
	}

	if rotation.HasShoe(shoe.ID) {
		return shoe, ShoeNoop, nil
	}

	if r.dryRun {
		r.logger.Info("dry run: would link existing shoe to rotation",
			"profile_id", profileID, "rotation_id", rotation.ID, "shoe_id", shoe.ID)
	}
	rotation.LinkShoe(shoe.ID)
	return shoe, ShoeLinked, nil
}

// ReconcileRotation processes every legacy shoe entry of one rotation
// in order and persists the rotation if any links were added. Returns
// counts of created and newly linked shoes.
func (r *ShoeReconciler) ReconcileRotation(ctx context.Context, profileID string, rotation *domain.ShoeRotation, owned map[ShoeKey]*domain.Shoe) (created, linked int, err error) {
	changed := false
	for _, entry := range rotation.Shoes {
		if entry.BrandName == "" && entry.ModelName == "" {
			r.logger.Warn("skipping rotation shoe with no brand or model",
				"profile_id", profileID, "rotation_id", rotation.ID)
			continue
		}

		_, outcome, err := r.ReconcileShoe(ctx, profileID, rotation, entry, owned)
		if err != nil {
			return created, linked, err
		}
		switch outcome {
		case ShoeCreated:
			created++
			changed = true
		case ShoeLinked:
			linked++
			changed = true
		}
	}

	if changed && !r.dryRun {
		rotation.Touch()
		if err := r.store.UpdateRotation(ctx, rotation); err != nil {
			return created, linked, err
		}
	}
	return created, linked, nil
}
