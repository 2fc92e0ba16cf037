package foodapp

import (
	"context"
	"testing"

	internalTypes "github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	client, mockTransport, store := newMockClient()
	ctx := context.Background()

	mockResponse := `{
		"status": "success",
		"message": "Welcome back",
		"token": "tok-123",
		"user": {"id": "u-1", "email": "ana@example.com", "name": "Ana"}
	}`

	mockTransport.On("DoWithColdStartRetry", mock.Anything, "POST", "/auth/login",
		&LoginParams{Email: "ana@example.com", Password: "secret"},
	).Return(jsonResponse(200, mockResponse), nil)

	result := client.Auth.Login(ctx, "ana@example.com", "secret")

	require.True(t, result.Success)
	assert.Equal(t, "Welcome back", result.Message)
	assert.Equal(t, "tok-123", result.Data.Token)

	token, err := store.Get(ctx, internalTypes.AuthTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	user, err := client.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.True(t, client.Auth.IsAuthenticated(ctx))

	mockTransport.AssertExpectations(t)
}

func TestAuthService_LoginRejected(t *testing.T) {
	client, mockTransport, store := newMockClient()
	ctx := context.Background()

	mockTransport.On("DoWithColdStartRetry", mock.Anything, "POST", "/auth/login", mock.Anything).
		Return(jsonResponse(200, `{"status":"error","message":"Wrong email or password"}`), nil)

	result := client.Auth.Login(ctx, "ana@example.com", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "Wrong email or password", result.Message)
	assert.Equal(t, StatusError, result.Status)

	_, err := store.Get(ctx, internalTypes.AuthTokenKey)
	assert.ErrorIs(t, err, internalTypes.ErrNotFound)
	assert.False(t, client.Auth.IsAuthenticated(ctx))
}

func TestAuthService_LoginValidation(t *testing.T) {
	client, mockTransport, _ := newMockClient()

	result := client.Auth.Login(context.Background(), "not-an-email", "")

	assert.False(t, result.Success)
	assert.Equal(t, StatusUnknownError, result.Status)
	assert.Equal(t, "Email must be a valid email address, Password is required", result.Message)
	mockTransport.AssertNotCalled(t, "DoWithColdStartRetry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_RestaurantLogin(t *testing.T) {
	client, mockTransport, _ := newMockClient()
	ctx := context.Background()

	mockTransport.On("DoWithColdStartRetry", mock.Anything, "POST", "/restaurants/login", mock.Anything).
		Return(jsonResponse(200, `{"status":"success","token":"rest-tok","user":{"id":"r-1","role":"restaurant"}}`), nil)

	result := client.Auth.RestaurantLogin(ctx, "owner@noodles.com", "secret")
	require.True(t, result.Success)
	assert.Equal(t, MessageRequestSuccessful, result.Message)

	user, err := client.Auth.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "restaurant", user.Role)
}

func TestAuthService_Register(t *testing.T) {
	client, mockTransport, _ := newMockClient()
	ctx := context.Background()

	params := &RegisterParams{
		Name:            "Ana",
		Email:           "ana@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}

	mockTransport.On("DoWithColdStartRetry", mock.Anything, "POST", "/auth/register", params).
		Return(jsonResponse(201, `{"status":"success","message":"Account created","token":"new-tok"}`), nil)

	result := client.Auth.Register(ctx, params)
	require.True(t, result.Success)
	assert.Equal(t, "Account created", result.Message)
	assert.True(t, client.Auth.IsAuthenticated(ctx))

	// the token is stored without user data
	_, err := client.Auth.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	nilResult := client.Auth.Register(ctx, nil)
	assert.Equal(t, StatusUnknownError, nilResult.Status)
}

func TestAuthService_Logout(t *testing.T) {
	client, _, store := newMockClient()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, internalTypes.AuthTokenKey, "tok"))
	require.NoError(t, store.Set(ctx, internalTypes.UserDataKey, `{"id":"u-1"}`))

	require.NoError(t, client.Auth.Logout(ctx))

	assert.False(t, client.Auth.IsAuthenticated(ctx))
	_, err := client.Auth.CurrentUser(ctx)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
