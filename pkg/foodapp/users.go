package foodapp

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const profilePath = "/users/profile"

// userService implements the UserService interface
type userService struct {
	client *Client
}

// GetProfile retrieves the signed-in user's profile
func (s *userService) GetProfile(ctx context.Context) *Result[User] {
	return GetWith(ctx, s.client, profilePath, DecodeObject[User]("user"))
}

// UpdateProfile changes the profile and refreshes the stored user on success
func (s *userService) UpdateProfile(ctx context.Context, params *UpdateProfileParams) *Result[User] {
	if params == nil {
		return failed[User](ctx, s.client, http.MethodPut, profilePath, errors.New("profile params are required"))
	}
	if err := s.client.validateParams(params); err != nil {
		return failed[User](ctx, s.client, http.MethodPut, profilePath, err)
	}

	result := PutWith(ctx, s.client, profilePath, params, DecodeObject[User]("user"))
	if result.Success && result.Data != nil {
		if err := s.client.sessions.SaveUser(ctx, result.Data); err != nil {
			if l := s.client.logger(); l != nil {
				l.Warn("Failed to update stored user", "error", err)
			}
		}
	}
	return result
}
