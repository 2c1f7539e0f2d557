package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerStravaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "connectStrava",
		Method:      http.MethodPost,
		Path:        "/api/v1/strava/connect",
		Summary:     "Connect Strava",
		Description: "Exchanges an OAuth authorization code and links the Strava account",
		Tags:        []string{"Strava"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleConnectStrava)

	huma.Register(s.api, huma.Operation{
		OperationID: "importStrava",
		Method:      http.MethodPost,
		Path:        "/api/v1/strava/import",
		Summary:     "Import from Strava",
		Description: "Imports recent race activities and gear from the connected Strava account",
		Tags:        []string{"Strava"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportStrava)

	huma.Register(s.api, huma.Operation{
		OperationID: "disconnectStrava",
		Method:      http.MethodDelete,
		Path:        "/api/v1/strava",
		Summary:     "Disconnect Strava",
		Description: "Removes the Strava connection, keeping imported records",
		Tags:        []string{"Strava"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDisconnectStrava)
}

// === DTOs ===

// ConnectStravaRequest is the request body for connecting Strava.
type ConnectStravaRequest struct {
	Code string `json:"code" validate:"required" doc:"OAuth authorization code"`
}

// ConnectStravaInput wraps the connect request for Huma.
type ConnectStravaInput struct {
	Authorization string `header:"Authorization"`
	Body          ConnectStravaRequest
}

// ImportStravaInput contains parameters for a Strava import run.
type ImportStravaInput struct {
	Authorization string `header:"Authorization"`
}

// DisconnectStravaInput contains parameters for disconnecting Strava.
type DisconnectStravaInput struct {
	Authorization string `header:"Authorization"`
}

// StravaImportResponse summarizes what an import run changed.
type StravaImportResponse struct {
	RacesImported int `json:"races_imported" doc:"Races created from activities"`
	RacesSkipped  int `json:"races_skipped" doc:"Activities already imported"`
	ShoesCreated  int `json:"shoes_created" doc:"Shoes created from gear"`
	ShoesUpdated  int `json:"shoes_updated" doc:"Existing shoes updated from gear"`
}

// StravaImportOutput wraps the import response for Huma.
type StravaImportOutput struct {
	Body StravaImportResponse
}

// === Handlers ===

func (s *Server) handleConnectStrava(ctx context.Context, input *ConnectStravaInput) (*ProfileOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Strava.Connect(ctx, userID, input.Body.Code)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profileResponse(p)}, nil
}

func (s *Server) handleImportStrava(ctx context.Context, input *ImportStravaInput) (*StravaImportOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	activities, err := s.services.Strava.ImportActivities(ctx, userID)
	if err != nil {
		return nil, err
	}
	shoes, err := s.services.Strava.ImportShoes(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &StravaImportOutput{Body: StravaImportResponse{
		RacesImported: activities.RacesImported,
		RacesSkipped:  activities.RacesSkipped,
		ShoesCreated:  shoes.ShoesCreated,
		ShoesUpdated:  shoes.ShoesUpdated,
	}}, nil
}

func (s *Server) handleDisconnectStrava(ctx context.Context, input *DisconnectStravaInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Strava.Disconnect(ctx, userID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Strava disconnected"}}, nil
}
