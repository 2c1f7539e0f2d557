package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stravaStub() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "at-1", "refresh_token": "rt-1", "expires_at": 1893456000,
			"athlete": {"id": 42, "username": "jane"}}`))
	})
	mux.HandleFunc("/api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 201, "name": "Oakland Marathon", "distance": 42195, "moving_time": 13057,
			 "start_date": "2024-03-17T08:00:00Z", "workout_type": 1},
			{"id": 202, "name": "Recovery Jog", "distance": 5000, "moving_time": 1800,
			 "start_date": "2024-03-19T07:00:00Z", "workout_type": 0}
		]`))
	})
	mux.HandleFunc("/api/v3/athlete", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "shoes": [{"id": "g1", "name": "Saucony Ride 15", "distance": 82803}]}`))
	})
	return mux
}

func TestStravaConnectImportDisconnect(t *testing.T) {
	ts := setupTestServer(t, stravaStub())
	token := ts.registerUser(t, "jane@example.com", "Jane Runner")

	resp := ts.api.Post("/api/v1/strava/connect",
		"Authorization: Bearer "+token,
		map[string]any{"code": "the-code"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	profile := decodeData[ProfileResponse](t, resp.Body.Bytes())
	assert.Equal(t, int64(42), profile.StravaAthleteID)

	resp = ts.api.Post("/api/v1/strava/import", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	result := decodeData[StravaImportResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, result.RacesImported)
	assert.Equal(t, 1, result.ShoesCreated)

	// A second import is a no-op.
	resp = ts.api.Post("/api/v1/strava/import", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	result = decodeData[StravaImportResponse](t, resp.Body.Bytes())
	assert.Equal(t, 0, result.RacesImported)
	assert.Equal(t, 1, result.RacesSkipped)
	assert.Equal(t, 0, result.ShoesCreated)

	resp = ts.api.Get("/api/v1/shoes", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	shoes := decodeData[ListShoesResponse](t, resp.Body.Bytes())
	require.Len(t, shoes.Shoes, 1)
	assert.Equal(t, "Saucony", shoes.Shoes[0].BrandName)
	assert.Equal(t, "strava", shoes.Shoes[0].ExternalSource)

	resp = ts.api.Delete("/api/v1/strava", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Imports fail once disconnected; the records stay.
	resp = ts.api.Post("/api/v1/strava/import", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Get("/api/v1/races", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	races := decodeData[ListRacesResponse](t, resp.Body.Bytes())
	assert.Len(t, races.Races, 1)
}
