package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/reconcile"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// RotationService manages shoe rotations.
type RotationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewRotationService creates a new rotation service.
func NewRotationService(st *store.Store, logger *slog.Logger) *RotationService {
	return &RotationService{store: st, logger: logger}
}

// RotationParams carries the writable rotation fields.
type RotationParams struct {
	Name        string
	StartDate   time.Time
	Description string
}

// Create adds a rotation to the user's profile.
func (s *RotationService) Create(ctx context.Context, userID string, params RotationParams) (*domain.ShoeRotation, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, apperrors.Validation("rotation name is required")
	}

	rot := domain.NewShoeRotation(id.MustGenerate("rot"), p.ID, params.Name, params.StartDate)
	rot.Description = params.Description

	if err := s.store.CreateRotation(ctx, rot); err != nil {
		return nil, err
	}
	return rot, nil
}

// Get returns one of the user's rotations.
func (s *RotationService) Get(ctx context.Context, userID, rotationID string) (*domain.ShoeRotation, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rot, err := s.store.GetRotation(ctx, rotationID)
	if err != nil {
		return nil, err
	}
	if rot.ProfileID != p.ID {
		return nil, store.ErrRotationNotFound
	}
	return rot, nil
}

// List returns all rotations on the user's profile.
func (s *RotationService) List(ctx context.Context, userID string) ([]*domain.ShoeRotation, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListRotationsByProfile(ctx, p.ID)
}

// Update replaces the writable fields of a rotation.
func (s *RotationService) Update(ctx context.Context, userID, rotationID string, params RotationParams) (*domain.ShoeRotation, error) {
	rot, err := s.Get(ctx, userID, rotationID)
	if err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, apperrors.Validation("rotation name is required")
	}

	rot.Name = params.Name
	rot.Description = params.Description
	if !params.StartDate.IsZero() {
		rot.StartDate = params.StartDate
	}
	rot.Touch()

	if err := s.store.UpdateRotation(ctx, rot); err != nil {
		return nil, err
	}
	return rot, nil
}

// Delete removes a rotation. The shoes it references are untouched.
func (s *RotationService) Delete(ctx context.Context, userID, rotationID string) error {
	rot, err := s.Get(ctx, userID, rotationID)
	if err != nil {
		return err
	}
	return s.store.DeleteRotation(ctx, rot.ID)
}

// ImportShoe reconciles a shoe entry into a rotation: an existing shoe
// with the same brand, model, and distance is linked, otherwise a new
// shoe is created and linked.
func (s *RotationService) ImportShoe(ctx context.Context, userID, rotationID string, entry domain.LegacyShoe) (*domain.Shoe, error) {
	rot, err := s.Get(ctx, userID, rotationID)
	if err != nil {
		return nil, err
	}
	if entry.BrandName == "" && entry.ModelName == "" {
		return nil, apperrors.Validation("shoe needs a brand or model name")
	}

	rec := reconcile.NewShoeReconciler(s.store, s.logger, false)
	owned, err := rec.WorkingSet(ctx, rot.ProfileID)
	if err != nil {
		return nil, err
	}
	shoe, outcome, err := rec.ReconcileShoe(ctx, rot.ProfileID, rot, entry, owned)
	if err != nil {
		return nil, err
	}
	if outcome != reconcile.ShoeNoop {
		rot.Touch()
		if err := s.store.UpdateRotation(ctx, rot); err != nil {
			return nil, err
		}
	}
	return shoe, nil
}

// LinkShoe attaches an existing shoe to a rotation by ID.
func (s *RotationService) LinkShoe(ctx context.Context, userID, rotationID, shoeID string) (*domain.ShoeRotation, error) {
	rot, err := s.Get(ctx, userID, rotationID)
	if err != nil {
		return nil, err
	}
	shoe, err := s.store.GetShoe(ctx, shoeID)
	if err != nil {
		return nil, err
	}
	if shoe.ProfileID != rot.ProfileID {
		return nil, store.ErrShoeNotFound
	}
	if rot.LinkShoe(shoe.ID) {
		rot.Touch()
		if err := s.store.UpdateRotation(ctx, rot); err != nil {
			return nil, err
		}
	}
	return rot, nil
}
