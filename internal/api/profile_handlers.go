package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/search"
	"github.com/vsrunapp/vsrun-server/internal/service"
)

func (s *Server) registerPublicProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchProfiles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles",
		Summary:     "Search profiles",
		Description: "Searches the public profile directory",
		Tags:        []string{"Profiles"},
	}, s.handleSearchProfiles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPublicProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{slug}",
		Summary:     "Get public profile",
		Description: "Returns the public page data for a profile slug",
		Tags:        []string{"Profiles"},
	}, s.handleGetPublicProfile)
}

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getOwnProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get own profile",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetOwnProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "createProfile",
		Method:      http.MethodPost,
		Path:        "/api/v1/profile",
		Summary:     "Create profile",
		Description: "Creates the authenticated user's profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profile",
		Summary:     "Update profile",
		Description: "Updates the authenticated user's profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateWeeklyStats",
		Method:      http.MethodPut,
		Path:        "/api/v1/profile/stats",
		Summary:     "Update weekly stats",
		Description: "Replaces the curated weekly stats block",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateWeeklyStats)
}

// === DTOs ===

// ProfileResponse contains profile data in API responses.
type ProfileResponse struct {
	ID              string             `json:"id" doc:"Profile ID"`
	Slug            string             `json:"slug" doc:"URL-safe slug"`
	DisplayName     string             `json:"display_name" doc:"Display name"`
	Tagline         string             `json:"tagline,omitempty" doc:"Short bio line"`
	AvatarColor     string             `json:"avatar_color" doc:"Deterministic avatar color"`
	WeeklyStats     domain.WeeklyStats `json:"weekly_stats" doc:"Curated weekly stats"`
	StravaAthleteID int64              `json:"strava_athlete_id,omitempty" doc:"Connected Strava athlete ID"`
	CreatedAt       time.Time          `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time          `json:"updated_at" doc:"Last update time"`
}

func profileResponse(p *domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		DisplayName: p.DisplayName,
		Tagline:     p.Tagline,
		AvatarColor: p.AvatarColor,
		WeeklyStats: p.WeeklyStats,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Strava != nil {
		resp.StravaAthleteID = p.Strava.AthleteID
	}
	return resp
}

// ProfileOutput wraps the profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// GetOwnProfileInput contains parameters for fetching the own profile.
type GetOwnProfileInput struct {
	Authorization string `header:"Authorization"`
}

// CreateProfileRequest is the request body for creating a profile.
type CreateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100" doc:"Display name"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,max=100" doc:"Preferred slug; derived from the display name when empty"`
}

// CreateProfileInput wraps the create profile request for Huma.
type CreateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateProfileRequest
}

// UpdateProfileRequest is the request body for updating a profile.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100" doc:"Display name"`
	Tagline     *string `json:"tagline,omitempty" validate:"omitempty,max=200" doc:"Short bio line"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,min=1,max=100" doc:"New slug"`
}

// UpdateProfileInput wraps the update profile request for Huma.
type UpdateProfileInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateProfileRequest
}

// WeeklyStatsRequest is the request body for replacing weekly stats.
type WeeklyStatsRequest struct {
	Miles   float64 `json:"miles" validate:"min=0" doc:"Miles run this week"`
	Runs    int     `json:"runs" validate:"min=0" doc:"Number of runs this week"`
	Minutes int     `json:"minutes" validate:"min=0" doc:"Minutes run this week"`
}

// WeeklyStatsInput wraps the weekly stats request for Huma.
type WeeklyStatsInput struct {
	Authorization string `header:"Authorization"`
	Body          WeeklyStatsRequest
}

// GetPublicProfileInput contains parameters for the public page.
type GetPublicProfileInput struct {
	Slug string `path:"slug" doc:"Profile slug"`
}

// PublicProfileOutput wraps the assembled public page for Huma.
type PublicProfileOutput struct {
	Body PublicProfileResponse
}

// PublicProfileResponse is the assembled public page data.
type PublicProfileResponse struct {
	Profile      ProfileResponse        `json:"profile" doc:"Profile display data"`
	HighlightRun *ActivityResponse      `json:"highlight_run,omitempty" doc:"Highlight run, if set"`
	Races        []ActivityResponse     `json:"races" doc:"Races, newest first"`
	Shoes        []ShoeResponse         `json:"shoes" doc:"Owned shoes"`
	Rotations    []ShoeRotationResponse `json:"rotations" doc:"Shoe rotations"`
}

// SearchProfilesInput contains the directory search query.
type SearchProfilesInput struct {
	Query string `query:"q" doc:"Free-text search query"`
	Limit int    `query:"limit" default:"20" minimum:"1" maximum:"50" doc:"Maximum results"`
}

// SearchResultResponse is one directory search hit.
type SearchResultResponse struct {
	ProfileID   string  `json:"profile_id" doc:"Profile ID"`
	Slug        string  `json:"slug" doc:"Profile slug"`
	DisplayName string  `json:"display_name" doc:"Display name"`
	Tagline     string  `json:"tagline,omitempty" doc:"Short bio line"`
	Score       float64 `json:"score" doc:"Relevance score"`
}

// SearchProfilesResponse contains directory search results.
type SearchProfilesResponse struct {
	Results []SearchResultResponse `json:"results" doc:"Matching profiles"`
}

// SearchProfilesOutput wraps the search response for Huma.
type SearchProfilesOutput struct {
	Body SearchProfilesResponse
}

// === Handlers ===

func (s *Server) handleGetOwnProfile(ctx context.Context, input *GetOwnProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Profile.GetOwn(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profileResponse(p)}, nil
}

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Profile.Create(ctx, userID, input.Body.DisplayName, input.Body.Slug)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profileResponse(p)}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Profile.Update(ctx, userID, service.UpdateParams{
		DisplayName: input.Body.DisplayName,
		Tagline:     input.Body.Tagline,
		Slug:        input.Body.Slug,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profileResponse(p)}, nil
}

func (s *Server) handleUpdateWeeklyStats(ctx context.Context, input *WeeklyStatsInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Profile.UpdateWeeklyStats(ctx, userID, domain.WeeklyStats{
		Miles:   input.Body.Miles,
		Runs:    input.Body.Runs,
		Minutes: input.Body.Minutes,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profileResponse(p)}, nil
}

func (s *Server) handleGetPublicProfile(ctx context.Context, input *GetPublicProfileInput) (*PublicProfileOutput, error) {
	pub, err := s.services.Profile.GetPublic(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	resp := PublicProfileResponse{
		Profile:   profileResponse(pub.Profile),
		Races:     make([]ActivityResponse, len(pub.Races)),
		Shoes:     make([]ShoeResponse, len(pub.Shoes)),
		Rotations: make([]ShoeRotationResponse, len(pub.Rotations)),
	}
	if pub.HighlightRun != nil {
		hl := activityResponse(pub.HighlightRun)
		resp.HighlightRun = &hl
	}
	for i, race := range pub.Races {
		resp.Races[i] = activityResponse(race)
	}
	for i, shoe := range pub.Shoes {
		resp.Shoes[i] = shoeResponse(shoe)
	}
	for i, rot := range pub.Rotations {
		resp.Rotations[i] = rotationResponse(rot)
	}
	return &PublicProfileOutput{Body: resp}, nil
}

func (s *Server) handleSearchProfiles(ctx context.Context, input *SearchProfilesInput) (*SearchProfilesOutput, error) {
	results, err := s.services.Search.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchProfilesOutput{Body: SearchProfilesResponse{Results: searchResponses(results)}}, nil
}

func searchResponses(results []search.Result) []SearchResultResponse {
	resp := make([]SearchResultResponse, len(results))
	for i, r := range results {
		resp[i] = SearchResultResponse{
			ProfileID:   r.ProfileID,
			Slug:        r.Slug,
			DisplayName: r.DisplayName,
			Tagline:     r.Tagline,
			Score:       r.Score,
		}
	}
	return resp
}
