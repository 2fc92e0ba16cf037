package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eshaffer321/foodapp-go/internal/storage"
	"github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	storage.Store
	err error
}

func (f *failingStore) Get(context.Context, string) (string, error) { return "", f.err }

func (f *failingStore) MultiRemove(context.Context, ...string) error { return f.err }

func TestStore_TokenAbsent(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), nil)

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestStore_SaveAndClear(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := NewStore(kv, nil)

	user := map[string]string{"id": "u-1", "name": "Ada"}
	require.NoError(t, s.Save(ctx, "tok-1", user))

	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	var got map[string]string
	require.NoError(t, s.User(ctx, &got))
	assert.Equal(t, "Ada", got["name"])

	require.NoError(t, s.Clear(ctx))

	_, err = kv.Get(ctx, types.AuthTokenKey)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = kv.Get(ctx, types.UserDataKey)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.ErrorIs(t, s.User(ctx, &got), types.ErrNotAuthenticated)
}

func TestStore_SaveRejectsEmptyToken(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), nil)
	assert.Error(t, s.Save(context.Background(), "", nil))
}

func TestStore_ReadFailureIsWrapped(t *testing.T) {
	s := NewStore(&failingStore{err: errors.New("disk gone")}, nil)

	_, err := s.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read auth token")

	err = s.Clear(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestStore_Session(t *testing.T) {
	ctx := context.Background()
	s := NewStore(storage.NewMemoryStore(), nil)

	_, err := s.Session(ctx)
	assert.ErrorIs(t, err, types.ErrNotAuthenticated)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, token, nil))

	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.True(t, exp.Equal(session.ExpiresAt))
	assert.False(t, session.Expired(time.Now()))
	assert.True(t, session.Expired(exp.Add(time.Minute)))
}

func TestTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}
