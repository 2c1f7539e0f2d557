package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// ActivityService manages races and the highlight run.
type ActivityService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(st *store.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{store: st, logger: logger}
}

// ActivityParams carries the writable activity fields.
type ActivityParams struct {
	Name                string
	StartDate           time.Time
	Description         string
	DistanceMeters      float64
	MovingTimeSeconds   int
	ElevationGainMeters float64
	SummaryPolyline     string
}

func applyActivityParams(a *domain.Activity, params ActivityParams) {
	a.Name = params.Name
	a.StartDate = params.StartDate
	a.Description = params.Description
	a.DistanceMeters = params.DistanceMeters
	a.MovingTimeSeconds = params.MovingTimeSeconds
	a.ElevationGainMeters = params.ElevationGainMeters
	a.SummaryPolyline = params.SummaryPolyline
}

// CreateRace adds a race to the user's profile.
func (s *ActivityService) CreateRace(ctx context.Context, userID string, params ActivityParams) (*domain.Activity, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, apperrors.Validation("race name is required")
	}

	race := domain.NewRace(id.MustGenerate("act"), p.ID, params.Name, params.StartDate)
	applyActivityParams(race, params)

	if err := s.store.CreateActivity(ctx, race); err != nil {
		return nil, err
	}
	return race, nil
}

// GetRace returns one of the user's races.
func (s *ActivityService) GetRace(ctx context.Context, userID, activityID string) (*domain.Activity, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	a, err := s.store.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if a.RaceProfileID != p.ID {
		return nil, store.ErrActivityNotFound
	}
	return a, nil
}

// ListRaces returns all races on the user's profile.
func (s *ActivityService) ListRaces(ctx context.Context, userID string) ([]*domain.Activity, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListRacesByProfile(ctx, p.ID)
}

// UpdateRace replaces the writable fields of a race.
func (s *ActivityService) UpdateRace(ctx context.Context, userID, activityID string, params ActivityParams) (*domain.Activity, error) {
	a, err := s.GetRace(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, apperrors.Validation("race name is required")
	}

	applyActivityParams(a, params)
	a.Touch()
	if err := s.store.UpdateActivity(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteRace removes a race.
func (s *ActivityService) DeleteRace(ctx context.Context, userID, activityID string) error {
	a, err := s.GetRace(ctx, userID, activityID)
	if err != nil {
		return err
	}
	return s.store.DeleteActivity(ctx, a.ID)
}

// GetHighlight returns the profile's highlight run.
func (s *ActivityService) GetHighlight(ctx context.Context, userID string) (*domain.Activity, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.GetHighlightRun(ctx, p.ID)
}

// SetHighlight replaces the profile's highlight run. Each profile has
// at most one, so an existing highlight is removed first.
func (s *ActivityService) SetHighlight(ctx context.Context, userID string, params ActivityParams) (*domain.Activity, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if params.Name == "" {
		return nil, apperrors.Validation("highlight run name is required")
	}

	existing, err := s.store.GetHighlightRun(ctx, p.ID)
	if err != nil && !errors.Is(err, store.ErrHighlightNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := s.store.DeleteActivity(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	hl := domain.NewHighlightRun(id.MustGenerate("act"), p.ID, params.Name, params.StartDate)
	applyActivityParams(hl, params)

	if err := s.store.CreateActivity(ctx, hl); err != nil {
		return nil, err
	}
	return hl, nil
}

// ClearHighlight removes the profile's highlight run if one exists.
func (s *ActivityService) ClearHighlight(ctx context.Context, userID string) error {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return err
	}
	existing, err := s.store.GetHighlightRun(ctx, p.ID)
	if err != nil {
		if errors.Is(err, store.ErrHighlightNotFound) {
			return nil
		}
		return err
	}
	return s.store.DeleteActivity(ctx, existing.ID)
}
