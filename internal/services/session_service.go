package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inventoryhub/backend/internal/models"
	"github.com/inventoryhub/backend/internal/repository"
	"github.com/inventoryhub/backend/internal/token"
)

var (
	// ErrUnauthorized covers missing, malformed and unknown tokens.
	// The three cases are deliberately indistinguishable.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSessionExpired means the token row exists but is past expiry.
	ErrSessionExpired = errors.New("session expired")
)

// SessionStore is the slice of the session repository the service needs.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	ByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// SessionService is the only writer of session rows.
type SessionService struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
}

func NewSessionService(store SessionStore, ttl time.Duration) *SessionService {
	return &SessionService{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create mints an opaque bearer token and persists it with the
// configured validity window.
func (s *SessionService) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	tok, err := token.NewSessionToken()
	if err != nil {
		return "", err
	}

	session := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     tok,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.Create(ctx, session); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return tok, nil
}

// Resolve maps a bearer token to its owning user id. Expiry is checked
// at read time; expired rows are left for the next delete-then-insert.
func (s *SessionService) Resolve(ctx context.Context, tok string) (uuid.UUID, error) {
	if tok == "" {
		return uuid.Nil, ErrUnauthorized
	}

	session, err := s.store.ByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, ErrUnauthorized
		}
		return uuid.Nil, err
	}

	if !session.ExpiresAt.After(s.now()) {
		return uuid.Nil, ErrSessionExpired
	}
	return session.UserID, nil
}

// Revoke is idempotent: revoking an unknown token is already-logged-out,
// not an error.
func (s *SessionService) Revoke(ctx context.Context, tok string) error {
	if tok == "" {
		return nil
	}
	return s.store.DeleteByToken(ctx, tok)
}

// RevokeAll drops every session for the user. Used on password login
// and on password-reset completion.
func (s *SessionService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.store.DeleteByUser(ctx, userID)
}
