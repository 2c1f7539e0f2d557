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

func (s *Server) registerShoeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listShoes",
		Method:      http.MethodGet,
		Path:        "/api/v1/shoes",
		Summary:     "List shoes",
		Description: "Returns all shoes on the authenticated user's profile",
		Tags:        []string{"Shoes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShoes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createShoe",
		Method:      http.MethodPost,
		Path:        "/api/v1/shoes",
		Summary:     "Create shoe",
		Description: "Adds a shoe to the authenticated user's profile",
		Tags:        []string{"Shoes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateShoe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getShoe",
		Method:      http.MethodGet,
		Path:        "/api/v1/shoes/{id}",
		Summary:     "Get shoe",
		Description: "Returns a shoe by ID",
		Tags:        []string{"Shoes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetShoe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateShoe",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shoes/{id}",
		Summary:     "Update shoe",
		Description: "Updates a shoe",
		Tags:        []string{"Shoes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateShoe)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteShoe",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shoes/{id}",
		Summary:     "Delete shoe",
		Description: "Deletes a shoe and unlinks it from rotations",
		Tags:        []string{"Shoes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteShoe)
}

// === DTOs ===

// ShoeResponse contains shoe data in API responses.
type ShoeResponse struct {
	ID             string    `json:"id" doc:"Shoe ID"`
	BrandName      string    `json:"brand_name" doc:"Brand name"`
	ModelName      string    `json:"model_name" doc:"Model name"`
	DistanceMeters float64   `json:"distance_meters" doc:"Lifetime distance in meters"`
	DistanceMiles  float64   `json:"distance_miles" doc:"Lifetime distance in miles"`
	StartDate      time.Time `json:"start_date" doc:"First use date"`
	Description    string    `json:"description,omitempty" doc:"Free-form notes"`
	Categories     []string  `json:"categories,omitempty" doc:"Training categories"`
	ExternalSource string    `json:"external_source,omitempty" doc:"Source the shoe was imported from"`
	CreatedAt      time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt      time.Time `json:"updated_at" doc:"Last update time"`
}

func shoeResponse(shoe *domain.Shoe) ShoeResponse {
	resp := ShoeResponse{
		ID:             shoe.ID,
		BrandName:      shoe.BrandName,
		ModelName:      shoe.ModelName,
		DistanceMeters: shoe.DistanceMeters,
		DistanceMiles:  units.MetersToMiles(shoe.DistanceMeters),
		StartDate:      shoe.StartDate,
		Description:    shoe.Description,
		CreatedAt:      shoe.CreatedAt,
		UpdatedAt:      shoe.UpdatedAt,
	}
	for _, c := range shoe.Categories {
		resp.Categories = append(resp.Categories, string(c))
	}
	if shoe.External != nil {
		resp.ExternalSource = shoe.External.ExternalSource
	}
	return resp
}

// ShoeOutput wraps the shoe response for Huma.
type ShoeOutput struct {
	Body ShoeResponse
}

// ListShoesInput contains parameters for listing shoes.
type ListShoesInput struct {
	Authorization string `header:"Authorization"`
}

// ListShoesResponse contains a list of shoes.
type ListShoesResponse struct {
	Shoes []ShoeResponse `json:"shoes" doc:"Owned shoes"`
}

// ListShoesOutput wraps the list shoes response for Huma.
type ListShoesOutput struct {
	Body ListShoesResponse
}

// ShoeRequest is the request body for creating or updating a shoe.
type ShoeRequest struct {
	BrandName      string    `json:"brand_name" validate:"max=100" doc:"Brand name"`
	ModelName      string    `json:"model_name" validate:"max=100" doc:"Model name"`
	DistanceMeters float64   `json:"distance_meters,omitempty" validate:"min=0" doc:"Lifetime distance in meters"`
	StartDate      time.Time `json:"start_date,omitzero" doc:"First use date"`
	Description    string    `json:"description,omitempty" validate:"max=2000" doc:"Free-form notes"`
	Categories     []string  `json:"categories,omitempty" doc:"Training categories"`
}

// CreateShoeInput wraps the create shoe request for Huma.
type CreateShoeInput struct {
	Authorization string `header:"Authorization"`
	Body          ShoeRequest
}

// GetShoeInput contains parameters for getting a shoe.
type GetShoeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shoe ID"`
}

// UpdateShoeInput wraps the update shoe request for Huma.
type UpdateShoeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shoe ID"`
	Body          ShoeRequest
}

// DeleteShoeInput contains parameters for deleting a shoe.
type DeleteShoeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Shoe ID"`
}

// === Handlers ===

func shoeParams(req ShoeRequest) service.ShoeParams {
	return service.ShoeParams{
		BrandName:      req.BrandName,
		ModelName:      req.ModelName,
		DistanceMeters: req.DistanceMeters,
		StartDate:      req.StartDate,
		Description:    req.Description,
		Categories:     req.Categories,
	}
}

func (s *Server) handleListShoes(ctx context.Context, input *ListShoesInput) (*ListShoesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	shoes, err := s.services.Shoe.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ShoeResponse, len(shoes))
	for i, shoe := range shoes {
		resp[i] = shoeResponse(shoe)
	}
	return &ListShoesOutput{Body: ListShoesResponse{Shoes: resp}}, nil
}

func (s *Server) handleCreateShoe(ctx context.Context, input *CreateShoeInput) (*ShoeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	shoe, err := s.services.Shoe.Create(ctx, userID, shoeParams(input.Body))
	if err != nil {
		return nil, err
	}
	return &ShoeOutput{Body: shoeResponse(shoe)}, nil
}

func (s *Server) handleGetShoe(ctx context.Context, input *GetShoeInput) (*ShoeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	shoe, err := s.services.Shoe.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &ShoeOutput{Body: shoeResponse(shoe)}, nil
}

func (s *Server) handleUpdateShoe(ctx context.Context, input *UpdateShoeInput) (*ShoeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	shoe, err := s.services.Shoe.Update(ctx, userID, input.ID, shoeParams(input.Body))
	if err != nil {
		return nil, err
	}
	return &ShoeOutput{Body: shoeResponse(shoe)}, nil
}

func (s *Server) handleDeleteShoe(ctx context.Context, input *DeleteShoeInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shoe.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Shoe deleted"}}, nil
}
