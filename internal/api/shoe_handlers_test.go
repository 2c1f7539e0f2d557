package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoeCRUD(t *testing.T) {
	ts := setupTestServer(t, nil)
	token := ts.registerUser(t, "jane@example.com", "Jane Runner")

	resp := ts.api.Post("/api/v1/shoes",
		"Authorization: Bearer "+token,
		map[string]any{
			"brand_name":      "Saucony",
			"model_name":      "Ride 15",
			"distance_meters": 82803,
			"categories":      []string{"daily_trainer"},
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	shoe := decodeData[ShoeResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Saucony", shoe.BrandName)
	assert.InDelta(t, 51.45, shoe.DistanceMiles, 0.01)

	resp = ts.api.Get("/api/v1/shoes", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeData[ListShoesResponse](t, resp.Body.Bytes())
	require.Len(t, list.Shoes, 1)

	resp = ts.api.Patch("/api/v1/shoes/"+shoe.ID,
		"Authorization: Bearer "+token,
		map[string]any{
			"brand_name":      "Saucony",
			"model_name":      "Ride 16",
			"distance_meters": 1000,
		})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	shoe = decodeData[ShoeResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Ride 16", shoe.ModelName)

	resp = ts.api.Delete("/api/v1/shoes/"+shoe.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/shoes/"+shoe.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestShoeCategoryValidation(t *testing.T) {
	ts := setupTestServer(t, nil)
	token := ts.registerUser(t, "jane@example.com", "Jane Runner")

	resp := ts.api.Post("/api/v1/shoes",
		"Authorization: Bearer "+token,
		map[string]any{
			"brand_name": "Hoka",
			"model_name": "Clifton 9",
			"categories": []string{"recovery"},
		})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestShoesAreScopedToOwner(t *testing.T) {
	ts := setupTestServer(t, nil)
	janeToken := ts.registerUser(t, "jane@example.com", "Jane Runner")
	bobToken := ts.registerUser(t, "bob@example.com", "Bob Walker")

	resp := ts.api.Post("/api/v1/shoes",
		"Authorization: Bearer "+janeToken,
		map[string]any{"brand_name": "Saucony", "model_name": "Ride 15"})
	require.Equal(t, http.StatusOK, resp.Code)
	shoe := decodeData[ShoeResponse](t, resp.Body.Bytes())

	resp = ts.api.Get("/api/v1/shoes/"+shoe.ID, "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/shoes/"+shoe.ID, "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/shoes", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)
	list := decodeData[ListShoesResponse](t, resp.Body.Bytes())
	assert.Empty(t, list.Shoes)
}
