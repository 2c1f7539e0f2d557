// Package strava is a rate-limited client for the Strava v3 API,
// covering OAuth token exchange/refresh and the reads the importer
// needs: recent activities and the athlete's shoes.
package strava

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/ratelimit"
)

const (
	defaultBaseURL = "https://www.strava.com"

	// Strava allows 100 requests per 15 minutes; stay well under.
	defaultRPS   = 0.1
	defaultBurst = 5

	defaultTimeout = 30 * time.Second
)

// Client errors.
var (
	ErrUnauthorized = apperrors.Unauthorized("strava token rejected")
	ErrRateLimited  = apperrors.Upstream("strava rate limit exceeded")
)

// Config holds client credentials and an optional base URL override
// for tests.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

// Client is a rate-limited Strava API client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	cfg     Config
}

// New creates a Strava client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
		cfg:     cfg,
	}
}

// ExchangeCode trades an OAuth authorization code for tokens. The
// response includes the athlete the tokens belong to.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	return c.token(ctx, url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
	})
}

// RefreshToken trades a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return c.token(ctx, url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	})
}

func (c *Client) token(ctx context.Context, form url.Values) (*TokenResponse, error) {
	if err := c.limiter.Wait(ctx, "token"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/oauth/token", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.URL.RawQuery = form.Encode()

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tok, nil
}

// ListActivities fetches the athlete's most recent activities.
func (c *Client) ListActivities(ctx context.Context, accessToken string, perPage int) ([]Activity, error) {
	query := url.Values{"per_page": {strconv.Itoa(perPage)}}
	body, err := c.get(ctx, accessToken, "/api/v3/athlete/activities", query)
	if err != nil {
		return nil, err
	}

	var activities []Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return activities, nil
}

// GetAthleteShoes fetches the athlete's shoe gear list.
func (c *Client) GetAthleteShoes(ctx context.Context, accessToken string) ([]Gear, error) {
	body, err := c.get(ctx, accessToken, "/api/v3/athlete", nil)
	if err != nil {
		return nil, err
	}

	var athlete Athlete
	if err := json.Unmarshal(body, &athlete); err != nil {
		return nil, fmt.Errorf("decode athlete: %w", err)
	}
	return athlete.Shoes, nil
}

func (c *Client) get(ctx context.Context, accessToken, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, "api"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "vsrun/1.0")

	c.logger.Debug("strava request", "method", req.Method, "path", req.URL.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, apperrors.Upstream(fmt.Sprintf("strava returned status %d", resp.StatusCode))
	}
}
