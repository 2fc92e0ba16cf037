package foodapp

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// authService implements the AuthService interface
type authService struct {
	client *Client
}

// Login signs a customer in
func (s *authService) Login(ctx context.Context, email, password string) *Result[LoginResponse] {
	return s.login(ctx, "/auth/login", &LoginParams{Email: email, Password: password})
}

// RestaurantLogin signs a restaurant in
func (s *authService) RestaurantLogin(ctx context.Context, email, password string) *Result[LoginResponse] {
	return s.login(ctx, "/restaurants/login", &LoginParams{Email: email, Password: password})
}

// Register creates a customer account
func (s *authService) Register(ctx context.Context, params *RegisterParams) *Result[LoginResponse] {
	if params == nil {
		return failed[LoginResponse](ctx, s.client, http.MethodPost, "/auth/register", errors.New("register params are required"))
	}
	if err := s.client.validateParams(params); err != nil {
		return failed[LoginResponse](ctx, s.client, http.MethodPost, "/auth/register", err)
	}

	result := Post[LoginResponse](ctx, s.client, "/auth/register", params)
	s.remember(ctx, result)
	return result
}

func (s *authService) login(ctx context.Context, path string, params *LoginParams) *Result[LoginResponse] {
	if err := s.client.validateParams(params); err != nil {
		return failed[LoginResponse](ctx, s.client, http.MethodPost, path, err)
	}

	result := Post[LoginResponse](ctx, s.client, path, params)
	s.remember(ctx, result)
	return result
}

// remember stores the session of a successful login. The result stays a
// success when the store fails; the next request just goes out without a token.
func (s *authService) remember(ctx context.Context, result *Result[LoginResponse]) {
	if !result.Success || result.Data == nil || result.Data.Token == "" {
		return
	}

	var user interface{}
	if result.Data.User != nil {
		user = result.Data.User
	}

	if err := s.client.sessions.Save(ctx, result.Data.Token, user); err != nil {
		if l := s.client.logger(); l != nil {
			l.Error("Failed to store session", "error", err)
		}
	}
}

// Logout clears the stored session
func (s *authService) Logout(ctx context.Context) error {
	return s.client.credentials.Clear(ctx)
}

// CurrentUser returns the user stored at login
func (s *authService) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.sessions.User(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// IsAuthenticated reports whether a token is stored
func (s *authService) IsAuthenticated(ctx context.Context) bool {
	token, err := s.client.credentials.Token(ctx)
	return err == nil && token != ""
}
