package store

import (
	"context"
	"strings"

	"github.com/vsrunapp/vsrun-server/internal/domain"
)

// normalizeEmail lowercases and trims an email address so the email
// index is case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// GetSessionByRefreshHash retrieves a session by its refresh token hash.
func (s *Store) GetSessionByRefreshHash(ctx context.Context, hash string) (*domain.Session, error) {
	return s.Sessions.GetByIndex(ctx, "refresh", hash)
}

// DeleteUserSessions removes every session belonging to a user.
func (s *Store) DeleteUserSessions(ctx context.Context, userID string) error {
	var ids []string
	for sess, err := range s.Sessions.List(ctx) {
		if err != nil {
			return err
		}
		if sess.UserID == userID {
			ids = append(ids, sess.ID)
		}
	}
	for _, id := range ids {
		if err := s.Sessions.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
