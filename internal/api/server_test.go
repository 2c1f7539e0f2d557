package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsrunapp/vsrun-server/internal/auth"
	"github.com/vsrunapp/vsrun-server/internal/search"
	"github.com/vsrunapp/vsrun-server/internal/service"
	"github.com/vsrunapp/vsrun-server/internal/store"
	"github.com/vsrunapp/vsrun-server/internal/strava"
)

// testEnvelope mirrors the response envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int  `json:"v"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api humatest.TestAPI
	st  *store.Store
}

// setupTestServer creates a fully wired server over a temp store. The
// Strava client points at the given handler; pass nil when the test
// never talks to Strava.
func setupTestServer(t *testing.T, stravaHandler http.Handler) *testServer {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "vsrun-api-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := store.New(filepath.Join(tmpDir, "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	searchIndex, err := search.NewIndex(tmpDir, logger)
	require.NoError(t, err)
	t.Cleanup(func() { searchIndex.Close() })
	st.SetSearchIndexer(searchIndex)

	stravaURL := "http://127.0.0.1:0"
	if stravaHandler != nil {
		srv := httptest.NewServer(stravaHandler)
		t.Cleanup(srv.Close)
		stravaURL = srv.URL
	}
	stravaClient := strava.New(strava.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      stravaURL,
	}, logger)

	searchService, err := service.NewSearchService(context.Background(), st, searchIndex, logger)
	require.NoError(t, err)

	services := &Services{
		Auth:     service.NewAuthService(st, tokenService, logger),
		Profile:  service.NewProfileService(st, logger),
		Shoe:     service.NewShoeService(st, logger),
		Rotation: service.NewRotationService(st, logger),
		Activity: service.NewActivityService(st, logger),
		Strava:   service.NewStravaService(st, stravaClient, logger),
		Search:   searchService,
	}

	s := NewServer(st, services, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		st:     st,
	}
}

// registerUser registers a user plus profile and returns the bearer token.
func (ts *testServer) registerUser(t *testing.T, email, displayName string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "correct-horse-battery",
		"display_name": displayName,
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	token := envelope.Data.AccessToken

	resp = ts.api.Post("/api/v1/profile",
		"Authorization: Bearer "+token,
		map[string]any{"display_name": displayName})
	require.Equal(t, http.StatusOK, resp.Code, "profile create failed: %s", resp.Body.String())

	return token
}

func decodeData[T any](t *testing.T, body []byte) T {
	t.Helper()
	var envelope testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	data := decodeData[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", data.Status)
}

func TestEnvelopeShape(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Get("/health")
	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))

	assert.Equal(t, float64(1), raw["v"])
	assert.Equal(t, true, raw["success"])
	assert.Contains(t, raw, "data")
}
