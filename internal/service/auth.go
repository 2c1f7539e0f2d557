// Package service holds the application services sitting between the
// HTTP API and the store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vsrunapp/vsrun-server/internal/auth"
	"github.com/vsrunapp/vsrun-server/internal/domain"
	apperrors "github.com/vsrunapp/vsrun-server/internal/errors"
	"github.com/vsrunapp/vsrun-server/internal/id"
	"github.com/vsrunapp/vsrun-server/internal/store"
)

// TokenPair is the credentials returned by register, login, and refresh.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthService handles registration, login, and session lifecycle.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st *store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{store: st, tokens: tokens, logger: logger}
}

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*domain.User, *TokenPair, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, apperrors.AlreadyExists("an account with this email already exists")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, apperrors.Validation(err.Error())
	}

	now := time.Now()
	user := &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		LastLoginAt:  now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users.Create(ctx, user.ID, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, apperrors.InvalidCredentials("invalid email or password")
	}
	if err != nil {
		return nil, nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, apperrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.createSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, pair, nil
}

// Refresh rotates a refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	sess, err := s.store.GetSessionByRefreshHash(ctx, auth.HashRefreshToken(refreshToken))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if sess.IsExpired(now) {
		_ = s.store.Sessions.Delete(ctx, sess.ID)
		return nil, apperrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.Users.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	// Rotate: old token stops working as soon as the session updates.
	sess.RefreshTokenHash = auth.HashRefreshToken(newRefresh)
	sess.ExpiresAt = now.Add(s.tokens.RefreshTokenDuration())
	sess.Touch()
	if err := s.store.Sessions.Update(ctx, sess.ID, sess); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresAt:    now.Add(s.tokens.AccessTokenDuration()),
	}, nil
}

// Logout invalidates the session behind a refresh token. Unknown tokens
// are a no-op so logout never fails visibly.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	sess, err := s.store.GetSessionByRefreshHash(ctx, auth.HashRefreshToken(refreshToken))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.Sessions.Delete(ctx, sess.ID)
}

// VerifyAccessToken validates an access token and returns its claims.
func (s *AuthService) VerifyAccessToken(token string) (*auth.AccessClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) createSession(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sess := &domain.Session{
		ID:               id.MustGenerate("sess"),
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.store.Sessions.Create(ctx, sess.ID, sess); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.tokens.AccessTokenDuration()),
	}, nil
}
