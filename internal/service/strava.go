package service

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/reconcile"
	"github.com/vsrunapp/vsrun-server/internal/store"
	"github.com/vsrunapp/vsrun-server/internal/strava"
)

const (
	sourceStrava = "strava"

	// metadataStravaID keys the upstream activity ID on imported races so
	// repeated imports skip activities already present.
	metadataStravaID = "strava_id"

	importActivityPageSize = 100
)

// StravaService connects profiles to Strava and imports activities and
// gear as owned records.
type StravaService struct {
	store  *store.Store
	client *strava.Client
	logger *slog.Logger
}

// NewStravaService creates a new Strava service.
func NewStravaService(st *store.Store, client *strava.Client, logger *slog.Logger) *StravaService {
	return &StravaService{store: st, client: client, logger: logger}
}

// ImportResult summarizes what one import run changed.
type ImportResult struct {
	RacesImported int `json:"races_imported"`
	RacesSkipped  int `json:"races_skipped"`
	ShoesCreated  int `json:"shoes_created"`
	ShoesUpdated  int `json:"shoes_updated"`
}

// Connect exchanges an OAuth authorization code and stores the
// resulting tokens on the user's profile.
func (s *StravaService) Connect(ctx context.Context, userID, code string) (*domain.Profile, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	tok, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	p.Strava = &domain.StravaConnection{
		AthleteID:    tok.Athlete.ID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry(),
		ConnectedAt:  time.Now(),
	}
	p.Touch()
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("strava connected", "profile_id", p.ID, "athlete_id", tok.Athlete.ID)
	return p, nil
}

// Disconnect removes the Strava connection. Imported records stay.
func (s *StravaService) Disconnect(ctx context.Context, userID string) error {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return err
	}
	if p.Strava == nil {
		return nil
	}
	p.Strava = nil
	p.Touch()
	return s.store.UpdateProfile(ctx, p)
}

// accessToken returns a usable access token for the profile, refreshing
// and persisting rotated tokens when the current one is about to expire.
func (s *StravaService) accessToken(ctx context.Context, p *domain.Profile) (string, error) {
	if p.Strava == nil {
		return "", apperrors.Validation("profile is not connected to Strava")
	}
	if !p.Strava.NeedsRefresh(time.Now()) {
		return p.Strava.AccessToken, nil
	}

	tok, err := s.client.RefreshToken(ctx, p.Strava.RefreshToken)
	if err != nil {
		return "", err
	}
	p.Strava.AccessToken = tok.AccessToken
	p.Strava.RefreshToken = tok.RefreshToken
	p.Strava.ExpiresAt = tok.Expiry()
	p.Touch()
	if err := s.store.UpdateProfile(ctx, p); err != nil {
		return "", err
	}
	s.logger.Debug("strava token refreshed", "profile_id", p.ID)
	return p.Strava.AccessToken, nil
}

// ImportActivities pulls the athlete's recent activities and stores the
// ones tagged as races. Activities already imported, matched on the
// upstream ID, are skipped.
func (s *StravaService) ImportActivities(ctx context.Context, userID string) (*ImportResult, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := s.accessToken(ctx, p)
	if err != nil {
		return nil, err
	}

	activities, err := s.client.ListActivities(ctx, token, importActivityPageSize)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListRacesByProfile(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, race := range existing {
		if sid, ok := race.Metadata[metadataStravaID].(string); ok {
			seen[sid] = true
		}
	}

	res := &ImportResult{}
	for _, act := range activities {
		if !act.IsRace() {
			continue
		}
		sid := strconv.FormatInt(act.ID, 10)
		if seen[sid] {
			res.RacesSkipped++
			continue
		}

		race := domain.NewRace(id.MustGenerate("act"), p.ID, act.Name, act.StartDate)
		race.DistanceMeters = act.Distance
		race.MovingTimeSeconds = act.MovingTime
		race.ElevationGainMeters = act.TotalElevationGain
		race.StartLatLng = act.StartLatLng
		race.EndLatLng = act.EndLatLng
		race.SummaryPolyline = act.Map.SummaryPolyline
		race.Metadata = map[string]any{metadataStravaID: sid}

		if err := s.store.CreateActivity(ctx, race); err != nil {
			return res, err
		}
		seen[sid] = true
		res.RacesImported++
	}

	s.logger.Info("strava activities imported",
		"profile_id", p.ID, "imported", res.RacesImported, "skipped", res.RacesSkipped)
	return res, nil
}

// ImportShoes pulls the athlete's gear list and reconciles each entry
// into owned shoes. A gear entry already imported, matched on the
// upstream gear ID, gets its distance updated; otherwise the parsed
// brand and model are matched against owned shoes by the usual
// de-duplication key before a new shoe is created.
func (s *StravaService) ImportShoes(ctx context.Context, userID string) (*ImportResult, error) {
	p, err := s.store.GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := s.accessToken(ctx, p)
	if err != nil {
		return nil, err
	}

	gear, err := s.client.GetAthleteShoes(ctx, token)
	if err != nil {
		return nil, err
	}

	owned, err := s.store.ListShoesByProfile(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	byExternal := make(map[string]*domain.Shoe)
	byKey := make(map[reconcile.ShoeKey]*domain.Shoe, len(owned))
	for _, shoe := range owned {
		if shoe.External != nil && shoe.External.ExternalSource == sourceStrava {
			byExternal[shoe.External.ExternalID] = shoe
		}
		byKey[reconcile.KeyForShoe(shoe)] = shoe
	}

	res := &ImportResult{}
	for _, g := range gear {
		if existing, ok := byExternal[g.ID]; ok {
			if existing.DistanceMeters == g.Distance {
				continue
			}
			existing.DistanceMeters = g.Distance
			existing.Touch()
			if err := s.store.UpdateShoe(ctx, existing); err != nil {
				return res, err
			}
			res.ShoesUpdated++
			continue
		}

		brand, model := strava.ParseGearName(g.Name)
		key := reconcile.ShoeKey{Brand: brand, Model: model, DistanceMeters: g.Distance}
		if existing, ok := byKey[key]; ok {
			if existing.External == nil {
				existing.External = &domain.ExternalSource{ExternalID: g.ID, ExternalSource: sourceStrava}
				existing.Touch()
				if err := s.store.UpdateShoe(ctx, existing); err != nil {
					return res, err
				}
				byExternal[g.ID] = existing
				res.ShoesUpdated++
			}
			continue
		}

		shoe := domain.NewShoe(id.MustGenerate("shoe"), p.ID, brand, model, g.Distance, time.Time{})
		shoe.External = &domain.ExternalSource{ExternalID: g.ID, ExternalSource: sourceStrava}
		if err := s.store.CreateShoe(ctx, shoe); err != nil {
			return res, err
		}
		byExternal[g.ID] = shoe
		byKey[key] = shoe
		res.ShoesCreated++
	}

	s.logger.Info("strava shoes imported",
		"profile_id", p.ID, "created", res.ShoesCreated, "updated", res.ShoesUpdated)
	return res, nil
}
