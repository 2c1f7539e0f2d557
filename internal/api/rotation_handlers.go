package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vsrunapp/vsrun-server/internal/domain"
	"github.com/vsrunapp/vsrun-server/internal/service"
)

func (s *Server) registerRotationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRotations",
		Method:      http.MethodGet,
		Path:        "/api/v1/rotations",
		Summary:     "List rotations",
		Description: "Returns all shoe rotations on the authenticated user's profile",
		Tags:        []string{"Rotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRotations)

	huma.Register(s.api, huma.Operation{
		OperationID: "createRotation",
		Method:      http.MethodPost,
		Path:        "/api/v1/rotations",
		Summary:     "Create rotation",
		Description: "Creates a shoe rotation",
		Tags:        []string{"Rotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRotation",
		Method:      http.MethodGet,
		Path:        "/api/v1/rotations/{id}",
		Summary:     "Get rotation",
		Description: "Returns a rotation by ID",
		Tags:        []string{"Rotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRotation",
		Method:      http.MethodPatch,
		Path:        "/api/v1/rotations/{id}",
		Summary:     "Update rotation",
		Description: "Updates a rotation",
		Tags:        []string{"Rotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateRotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRotation",
		Method:      http.MethodDelete,
		Path:        "/api/v1/rotations/{id}",
		Summary:     "Delete rotation",
		Description: "Deletes a rotation, leaving its shoes intact",
		Tags:        []string{"Rotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRotation)

	huma.Register(s.api, huma.Operation{
		OperationID: "importRotationShoe",
		Method:      http.MethodPost,
		Path:        "/api/v1/rotations/{id}/shoes",
		Summary:     "Import shoe into rotation",
		Description: "Links a matching owned shoe into the rotation, creating the shoe first when no brand, model, and distance match exists",
		Tags:        []string{"Rotations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportRotationShoe)
}

// === DTOs ===

// ShoeRotationResponse contains rotation data in API responses.
type ShoeRotationResponse struct {
	ID          string    `json:"id" doc:"Rotation ID"`
	Name        string    `json:"name" doc:"Rotation name"`
	StartDate   time.Time `json:"start_date" doc:"When the rotation started"`
	Description string    `json:"description,omitempty" doc:"Free-form notes"`
	ShoeIDs     []string  `json:"shoe_ids" doc:"Linked shoe IDs"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func rotationResponse(rot *domain.ShoeRotation) ShoeRotationResponse {
	return ShoeRotationResponse{
		ID:          rot.ID,
		Name:        rot.Name,
		StartDate:   rot.StartDate,
		Description: rot.Description,
		ShoeIDs:     rot.ShoeIDs,
		CreatedAt:   rot.CreatedAt,
		UpdatedAt:   rot.UpdatedAt,
	}
}

// RotationOutput wraps the rotation response for Huma.
type RotationOutput struct {
	Body ShoeRotationResponse
}

// ListRotationsInput contains parameters for listing rotations.
type ListRotationsInput struct {
	Authorization string `header:"Authorization"`
}

// ListRotationsResponse contains a list of rotations.
type ListRotationsResponse struct {
	Rotations []ShoeRotationResponse `json:"rotations" doc:"Shoe rotations"`
}

// ListRotationsOutput wraps the list rotations response for Huma.
type ListRotationsOutput struct {
	Body ListRotationsResponse
}

// RotationRequest is the request body for creating or updating a rotation.
type RotationRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=100" doc:"Rotation name"`
	StartDate   time.Time `json:"start_date,omitzero" doc:"When the rotation started"`
	Description string    `json:"description,omitempty" validate:"max=2000" doc:"Free-form notes"`
}

// CreateRotationInput wraps the create rotation request for Huma.
type CreateRotationInput struct {
	Authorization string `header:"Authorization"`
	Body          RotationRequest
}

// GetRotationInput contains parameters for getting a rotation.
type GetRotationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Rotation ID"`
}

// UpdateRotationInput wraps the update rotation request for Huma.
type UpdateRotationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Rotation ID"`
	Body          RotationRequest
}

// DeleteRotationInput contains parameters for deleting a rotation.
type DeleteRotationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Rotation ID"`
}

// ImportShoeRequest is the request body for importing a shoe into a
// rotation by brand, model, and distance.
type ImportShoeRequest struct {
	BrandName      string    `json:"brand_name" validate:"max=100" doc:"Brand name"`
	ModelName      string    `json:"model_name" validate:"max=100" doc:"Model name"`
	DistanceMeters float64   `json:"distance_meters,omitempty" validate:"min=0" doc:"Lifetime distance in meters"`
	StartDate      time.Time `json:"start_date,omitzero" doc:"First use date"`
}

// ImportShoeInput wraps the import shoe request for Huma.
type ImportShoeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Rotation ID"`
	Body          ImportShoeRequest
}

// === Handlers ===

func (s *Server) handleListRotations(ctx context.Context, input *ListRotationsInput) (*ListRotationsOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	rotations, err := s.services.Rotation.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ShoeRotationResponse, len(rotations))
	for i, rot := range rotations {
		resp[i] = rotationResponse(rot)
	}
	return &ListRotationsOutput{Body: ListRotationsResponse{Rotations: resp}}, nil
}

func (s *Server) handleCreateRotation(ctx context.Context, input *CreateRotationInput) (*RotationOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	rot, err := s.services.Rotation.Create(ctx, userID, service.RotationParams{
		Name:        input.Body.Name,
		StartDate:   input.Body.StartDate,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &RotationOutput{Body: rotationResponse(rot)}, nil
}

func (s *Server) handleGetRotation(ctx context.Context, input *GetRotationInput) (*RotationOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	rot, err := s.services.Rotation.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &RotationOutput{Body: rotationResponse(rot)}, nil
}

func (s *Server) handleUpdateRotation(ctx context.Context, input *UpdateRotationInput) (*RotationOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	rot, err := s.services.Rotation.Update(ctx, userID, input.ID, service.RotationParams{
		Name:        input.Body.Name,
		StartDate:   input.Body.StartDate,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &RotationOutput{Body: rotationResponse(rot)}, nil
}

func (s *Server) handleDeleteRotation(ctx context.Context, input *DeleteRotationInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Rotation.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Rotation deleted"}}, nil
}

func (s *Server) handleImportRotationShoe(ctx context.Context, input *ImportShoeInput) (*ShoeOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}
	if err := s.validate.Validate(input.Body); err != nil {
		return nil, err
	}

	shoe, err := s.services.Rotation.ImportShoe(ctx, userID, input.ID, domain.LegacyShoe{
		BrandName: input.Body.BrandName,
		ModelName: input.Body.ModelName,
		Distance:  input.Body.DistanceMeters,
		StartDate: input.Body.StartDate,
	})
	if err != nil {
		return nil, err
	}
	return &ShoeOutput{Body: shoeResponse(shoe)}, nil
}
