package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vsrunapp/vsrun-server/internal/color"
	"github.com/vsrunapp/vsrun-server/internal/domain"
	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/slug"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// ProfileService manages running profiles.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(st *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: st, logger: logger}
}

// PublicProfile is the assembled public page data for a profile:
// display fields plus the normalized collections, with credentials and
// legacy blobs stripped.
type PublicProfile struct {
	Profile      *domain.Profile        `json:"profile"`
	HighlightRun *domain.Activity       `json:"highlight_run,omitempty"`
	Races        []*domain.Activity     `json:"races"`
	Shoes        []*domain.Shoe         `json:"shoes"`
	Rotations    []*domain.ShoeRotation `json:"rotations"`
}

// Create creates a profile for a user. The slug defaults to a
// normalized form of the display name when empty.
func (s *ProfileService) Create(ctx context.Context, userID, displayName, rawSlug string) (*domain.Profile, error) {
	if rawSlug == "" {
		rawSlug = displayName
	}
	normalized := slug.Normalize(rawSlug)
	if !slug.Valid(normalized) {
		return nil, apperrors.Validationf("cannot derive a valid slug from %q", rawSlug)
	}

	p := domain.NewProfile(id.MustGenerate("prof"), userID, normalized, displayName)
	p.AvatarColor = color.ForProfile(p.ID)
	p.LegacySchemaVersion = domain.LegacySchemaV1

	if err := s.store.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("profile created", "profile_id", p.ID, "slug", p.Slug)
	return p, nil
}

// GetOwn returns the profile owned by a user.
func (s *ProfileService) GetOwn(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.store.GetProfileByUser(ctx, userID)
}

// UpdateParams are the optional fields an owner can change. Nil fields
// are left untouched.
type UpdateParams struct {
	DisplayName *string
	Tagline     *string
	Slug        *string
}

// Update applies partial updates to the user's profile. A slug change
// revalidates uniqueness.
func (s *ProfileService) Update(ctx context.Context, userID string, params UpdateParams) (*domain.Profile, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.DisplayName != nil {
		p.DisplayName = *params.DisplayName
	}
	if params.Tagline != nil {
		p.Tagline = *params.Tagline
	}
	if params.Slug != nil {
		normalized := slug.Normalize(*params.Slug)
		if !slug.Valid(normalized) {
			return nil, apperrors.Validationf("invalid slug %q", *params.Slug)
		}
		p.Slug = normalized
	}

	p.Touch()
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateWeeklyStats replaces the curated weekly stats block.
func (s *ProfileService) UpdateWeeklyStats(ctx context.Context, userID string, stats domain.WeeklyStats) (*domain.Profile, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p.WeeklyStats = stats
	p.Touch()
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetPublic assembles the public page data for a slug. A profile with
// no highlight run simply omits it.
func (s *ProfileService) GetPublic(ctx context.Context, slugValue string) (*PublicProfile, error) {
	p, err := s.store.GetProfileBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}

	pub := &PublicProfile{Profile: sanitizeProfile(p)}

	hl, err := s.store.GetHighlightRun(ctx, p.ID)
	if err != nil && !errors.Is(err, store.ErrHighlightNotFound) {
		return nil, err
	}
	pub.HighlightRun = hl

	if pub.Races, err = s.store.ListRacesByProfile(ctx, p.ID); err != nil {
		return nil, err
	}
	if pub.Shoes, err = s.store.ListShoesByProfile(ctx, p.ID); err != nil {
		return nil, err
	}
	if pub.Rotations, err = s.store.ListRotationsByProfile(ctx, p.ID); err != nil {
		return nil, err
	}
	return pub, nil
}

// sanitizeProfile strips fields that must not appear on the public
// page: Strava tokens and legacy migration blobs.
func sanitizeProfile(p *domain.Profile) *domain.Profile {
	clean := *p
	clean.LegacyHighlightRun = nil
	clean.LegacyEvents = nil
	clean.LegacyShoes = nil
	if p.Strava != nil {
		clean.Strava = &domain.StravaConnection{
			AthleteID:   p.Strava.AthleteID,
			ConnectedAt: p.Strava.ConnectedAt,
		}
	}
	return &clean
}
