// Package auth keeps the bearer token and logged-in user in the key-value store.
// Nothing is cached in memory: every read goes to the store, so a token written
// or purged elsewhere is seen by the next request.
package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/eshaffer321/foodapp-go/internal/storage"
	"github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Session describes the stored credentials
type Session struct {
	Token string `json:"token"`

	// ExpiresAt is read from the token's exp claim when the token is a JWT.
	// Zero when unknown; the backend's 401 stays the source of truth.
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session carries a known expiry in the past
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store reads and writes credentials in a storage.Store
type Store struct {
	store  storage.Store
	logger types.Logger
}

// NewStore creates a credential store backed by s
func NewStore(s storage.Store, logger types.Logger) *Store {
	return &Store{store: s, logger: logger}
}

// Token returns the stored bearer token, or "" when none is stored
func (c *Store) Token(ctx context.Context) (string, error) {
	token, err := c.store.Get(ctx, types.AuthTokenKey)
	if errors.Is(err, types.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read auth token")
	}
	return token, nil
}

// Clear removes the token and the user data together
func (c *Store) Clear(ctx context.Context) error {
	if err := c.store.MultiRemove(ctx, types.AuthTokenKey, types.UserDataKey); err != nil {
		return errors.Wrap(err, "failed to clear credentials")
	}

	if c.logger != nil {
		c.logger.Info("Credentials cleared")
	}
	return nil
}

// Save stores the token and, when user is non-nil, the user as JSON
func (c *Store) Save(ctx context.Context, token string, user interface{}) error {
	if token == "" {
		return errors.New("empty auth token")
	}

	if err := c.store.Set(ctx, types.AuthTokenKey, token); err != nil {
		return errors.Wrap(err, "failed to save auth token")
	}

	if user != nil {
		if err := c.SaveUser(ctx, user); err != nil {
			return err
		}
	}

	if c.logger != nil {
		c.logger.Info("Credentials saved")
	}
	return nil
}

// SaveUser replaces the stored user data
func (c *Store) SaveUser(ctx context.Context, user interface{}) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "failed to marshal user data")
	}

	if err := c.store.Set(ctx, types.UserDataKey, string(data)); err != nil {
		return errors.Wrap(err, "failed to save user data")
	}
	return nil
}

// User decodes the stored user data into out
func (c *Store) User(ctx context.Context, out interface{}) error {
	data, err := c.store.Get(ctx, types.UserDataKey)
	if errors.Is(err, types.ErrNotFound) {
		return types.ErrNotAuthenticated
	}
	if err != nil {
		return errors.Wrap(err, "failed to read user data")
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return errors.Wrap(err, "failed to unmarshal user data")
	}
	return nil
}

// Session returns the stored session or types.ErrNotAuthenticated
func (c *Store) Session(ctx context.Context) (*Session, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, types.ErrNotAuthenticated
	}

	s := &Session{Token: token}
	if exp, ok := TokenExpiry(token); ok {
		s.ExpiresAt = exp
	}
	return s, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Opaque tokens report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
