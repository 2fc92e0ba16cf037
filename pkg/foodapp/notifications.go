package foodapp

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// notificationService implements the NotificationService interface
type notificationService struct {
	client *Client
}

// List retrieves the signed-in user's notifications
func (s *notificationService) List(ctx context.Context) *Result[[]*Notification] {
	return GetWith(ctx, s.client, "/notifications", DecodeList[*Notification]("notifications"))
}

// MarkRead marks a notification as read
func (s *notificationService) MarkRead(ctx context.Context, notificationID string) *Result[Notification] {
	path := "/notifications/" + url.PathEscape(notificationID) + "/read"
	return PutWith(ctx, s.client, path, nil, DecodeObject[Notification]("notification"))
}

// Delete removes a notification
func (s *notificationService) Delete(ctx context.Context, notificationID string) *Result[struct{}] {
	return DeleteWith(ctx, s.client, "/notifications/"+url.PathEscape(notificationID), ignoreBody)
}

// UnreadCount returns the badge count
func (s *notificationService) UnreadCount(ctx context.Context) (int, error) {
	result := s.List(ctx)
	if !result.Success {
		return 0, errors.Errorf("failed to list notifications: %s", result.Message)
	}

	count := 0
	for _, n := range result.Value() {
		if n != nil && !n.Read {
			count++
		}
	}
	return count, nil
}
