package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// ShoeService manages a profile's shoes.
type ShoeService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewShoeService creates a new shoe service.
func NewShoeService(st *store.Store, logger *slog.Logger) *ShoeService {
	return &ShoeService{store: st, logger: logger}
}

// ShoeParams carries the writable shoe fields.
type ShoeParams struct {
	BrandName      string
	ModelName      string
	DistanceMeters float64
	StartDate      time.Time
	Description    string
	Categories     []string
}

func validateCategories(categories []string) error {
	for _, c := range categories {
		if !domain.ValidShoeCategory(domain.ShoeCategory(c)) {
			return apperrors.Validationf("unknown shoe category %q", c)
		}
	}
	return nil
}

// Create adds a shoe to the user's profile.
func (s *ShoeService) Create(ctx context.Context, userID string, params ShoeParams) (*domain.Shoe, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if params.BrandName == "" && params.ModelName == "" {
		return nil, apperrors.Validation("shoe needs a brand or model name")
	}
	if err := validateCategories(params.Categories); err != nil {
		return nil, err
	}

	shoe := domain.NewShoe(id.MustGenerate("shoe"), p.ID, params.BrandName, params.ModelName, params.DistanceMeters, params.StartDate)
	shoe.Description = params.Description
	for _, c := range params.Categories {
		shoe.Categories = append(shoe.Categories, domain.ShoeCategory(c))
	}

	if err := s.store.CreateShoe(ctx, shoe); err != nil {
		return nil, err
	}
	return shoe, nil
}

// Get returns one of the user's shoes. Shoes belonging to other
// profiles are reported as not found.
func (s *ShoeService) Get(ctx context.Context, userID, shoeID string) (*domain.Shoe, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	shoe, err := s.store.GetShoe(ctx, shoeID)
	if err != nil {
		return nil, err
	}
	if shoe.ProfileID != p.ID {
		return nil, store.ErrShoeNotFound
	}
	return shoe, nil
}

// List returns all shoes on the user's profile.
func (s *ShoeService) List(ctx context.Context, userID string) ([]*domain.Shoe, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListShoesByProfile(ctx, p.ID)
}

// Update replaces the writable fields of a shoe.
func (s *ShoeService) Update(ctx context.Context, userID, shoeID string, params ShoeParams) (*domain.Shoe, error) {
	shoe, err := s.Get(ctx, userID, shoeID)
	if err != nil {
		return nil, err
	}
	if err := validateCategories(params.Categories); err != nil {
		return nil, err
	}

	shoe.BrandName = params.BrandName
	shoe.ModelName = params.ModelName
	shoe.DistanceMeters = params.DistanceMeters
	if !params.StartDate.IsZero() {
		shoe.StartDate = params.StartDate
	}
	shoe.Description = params.Description
	shoe.Categories = shoe.Categories[:0]
	for _, c := range params.Categories {
		shoe.Categories = append(shoe.Categories, domain.ShoeCategory(c))
	}
	shoe.Touch()

	if err := s.store.UpdateShoe(ctx, shoe); err != nil {
		return nil, err
	}
	return shoe, nil
}

// Delete removes a shoe and unlinks it from any rotations that
// reference it.
func (s *ShoeService) Delete(ctx context.Context, userID, shoeID string) error {
	shoe, err := s.Get(ctx, userID, shoeID)
	if err != nil {
		return err
	}

	rotations, err := s.store.ListRotationsByProfile(ctx, shoe.ProfileID)
	if err != nil {
		return err
	}
	for _, rot := range rotations {
		if !rot.HasShoe(shoe.ID) {
			continue
		}
		kept := rot.ShoeIDs[:0]
		for _, sid := range rot.ShoeIDs {
			if sid != shoe.ID {
				kept = append(kept, sid)
			}
		}
		rot.ShoeIDs = kept
		rot.Touch()
		if err := s.store.UpdateRotation(ctx, rot); err != nil {
			return err
		}
	}

	return s.store.DeleteShoe(ctx, shoe.ID)
}
