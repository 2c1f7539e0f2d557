package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/service"
	"github.com/vsrunapp/vsrun-server/internal/units"
)

func (s *Server) registerActivityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRaces",
		Method:      http.MethodGet,
		Path:        "/api/v1/races",
		Summary:     "List races",
		Description: "Returns all races on the authenticated user's profile",
		Tags:        []string{"Races"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRaces)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRace",
		Method:      http.MethodPost,
		Path:        "/api/v1/races",
		Summary:     "Create race",
		Description: "Adds a race to the authenticated user's profile",
		Tags:        []string{"Races"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRace)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRace",
		Method:      http.MethodPatch,
		Path:        "/api/v1/races/{id}",
		Summary:     "Update race",
		Description: "Updates a race",
		Tags:        []string{"Races"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRace)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRace",
		Method:      http.MethodDelete,
		Path:        "/api/v1/races/{id}",
		Summary:     "Delete race",
		Description: "Deletes a race",
		Tags:        []string{"Races"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRace)

	huma.Register(s.api, huma.Operation{
		OperationID: "setHighlightRun",
		Method:      http.MethodPut,
		Path:        "/api/v1/highlight-run",
		Summary:     "Set highlight run",
		Description: "Replaces the profile's single highlight run",
		Tags:        []string{"Highlight"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetHighlightRun)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearHighlightRun",
		Method:      http.MethodDelete,
		Path:        "/api/v1/highlight-run",
		Summary:     "Clear highlight run",
		Description: "Removes the profile's highlight run",
		Tags:        []string{"Highlight"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearHighlightRun)
}

// === DTOs ===

// ActivityResponse contains race or highlight run data.
type ActivityResponse struct {
	ID                  string    `json:"id" doc:"Activity ID"`
	Name                string    `json:"name" doc:"Activity name"`
	StartDate           time.Time `json:"start_date" doc:"Start date"`
	Description         string    `json:"description,omitempty" doc:"Free-form notes"`
	DistanceMeters      float64   `json:"distance_meters" doc:"Distance in meters"`
	DistanceMiles       float64   `json:"distance_miles" doc:"Distance in miles"`
	MovingTimeSeconds   int       `json:"moving_time_seconds" doc:"Moving time in seconds"`
	MovingTime          string    `json:"moving_time" doc:"Moving time as H:MM:SS"`
	ElevationGainMeters float64   `json:"elevation_gain_meters" doc:"Elevation gain in meters"`
	SummaryPolyline     string    `json:"summary_polyline,omitempty" doc:"Encoded route polyline"`
	CreatedAt           time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt           time.Time `json:"updated_at" doc:"Last update time"`
}

func activityResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:                  a.ID,
		Name:                a.Name,
		StartDate:           a.StartDate,
		Description:         a.Description,
		DistanceMeters:      a.DistanceMeters,
		DistanceMiles:       units.MetersToMiles(a.DistanceMeters),
		MovingTimeSeconds:   a.MovingTimeSeconds,
		MovingTime:          units.FormatDurationHMS(a.MovingTimeSeconds),
		ElevationGainMeters: a.ElevationGainMeters,
		SummaryPolyline:     a.SummaryPolyline,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// ActivityOutput wraps a single activity response for Huma.
type ActivityOutput struct {
	Body ActivityResponse
}

// ListRacesInput contains parameters for listing races.
type ListRacesInput struct {
	Authorization string `header:"Authorization"`
}

// ListRacesResponse contains a list of races.
type ListRacesResponse struct {
	Races []ActivityResponse `json:"races" doc:"Races, newest first"`
}

// ListRacesOutput wraps the list races response for Huma.
type ListRacesOutput struct {
	Body ListRacesResponse
}

// ActivityRequest is the request body for creating or updating a race
// or highlight run.
type ActivityRequest struct {
	Name                string    `json:"name" validate:"required,min=1,max=200" doc:"Activity name"`
	StartDate           time.Time `json:"start_date,omitzero" doc:"Start date"`
	Description         string    `json:"description,omitempty" validate:"max=2000" doc:"Free-form notes"`
	DistanceMeters      float64   `json:"distance_meters,omitempty" validate:"min=0" doc:"Distance in meters"`
	MovingTimeSeconds   int       `json:"moving_time_seconds,omitempty" validate:"min=0" doc:"Moving time in seconds"`
	ElevationGainMeters float64   `json:"elevation_gain_meters,omitempty" validate:"min=0" doc:"Elevation gain in meters"`
	SummaryPolyline     string    `json:"summary_polyline,omitempty" doc:"Encoded route polyline"`
}

// CreateRaceInput wraps the create race request for Huma.
type CreateRaceInput struct {
	Authorization string `header:"Authorization"`
	Body          ActivityRequest
}

// UpdateRaceInput wraps the update race request for Huma.
type UpdateRaceInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Race ID"`
	Body          ActivityRequest
}

// DeleteRaceInput contains parameters for deleting a race.
type DeleteRaceInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Race ID"`
}

// SetHighlightInput wraps the set highlight request for Huma.
type SetHighlightInput struct {
	Authorization string `header:"Authorization"`
	Body          ActivityRequest
}

// ClearHighlightInput contains parameters for clearing the highlight.
type ClearHighlightInput struct {
	Authorization string `header:"Authorization"`
}

// === Handlers ===

func activityParams(req ActivityRequest) service.ActivityParams {
	return service.ActivityParams{
		Name:                req.Name,
		StartDate:           req.StartDate,
		Description:         req.Description,
		DistanceMeters:      req.DistanceMeters,
		MovingTimeSeconds:   req.MovingTimeSeconds,
		ElevationGainMeters: req.ElevationGainMeters,
		SummaryPolyline:     req.SummaryPolyline,
	}
}

func (s *Server) handleListRaces(ctx context.Context, input *ListRacesInput) (*ListRacesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	races, err := s.services.Activity.ListRaces(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ActivityResponse, len(races))
	for i, race := range races {
		resp[i] = activityResponse(race)
	}
	return &ListRacesOutput{Body: ListRacesResponse{Races: resp}}, nil
}

func (s *Server) handleCreateRace(ctx context.Context, input *CreateRaceInput) (*ActivityOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	race, err := s.services.Activity.CreateRace(ctx, userID, activityParams(input.Body))
	if err != nil {
		return nil, err
	}
	return &ActivityOutput{Body: activityResponse(race)}, nil
}

func (s *Server) handleUpdateRace(ctx context.Context, input *UpdateRaceInput) (*ActivityOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	race, err := s.services.Activity.UpdateRace(ctx, userID, input.ID, activityParams(input.Body))
	if err != nil {
		return nil, err
	}
	return &ActivityOutput{Body: activityResponse(race)}, nil
}

func (s *Server) handleDeleteRace(ctx context.Context, input *DeleteRaceInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Activity.DeleteRace(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Race deleted"}}, nil
}

func (s *Server) handleSetHighlightRun(ctx context.Context, input *SetHighlightInput) (*ActivityOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	hl, err := s.services.Activity.SetHighlight(ctx, userID, activityParams(input.Body))
	if err != nil {
		return nil, err
	}
	return &ActivityOutput{Body: activityResponse(hl)}, nil
}

func (s *Server) handleClearHighlightRun(ctx context.Context, input *ClearHighlightInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Activity.ClearHighlight(ctx, userID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Highlight run cleared"}}, nil
}
