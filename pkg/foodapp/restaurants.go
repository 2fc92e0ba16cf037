package foodapp

import (
	"context"
	"net/url"
)

// restaurantService implements the RestaurantService interface
type restaurantService struct {
	client *Client
}

// List retrieves all restaurants
func (s *restaurantService) List(ctx context.Context) *Result[[]*Restaurant] {
	return GetWith(ctx, s.client, "/restaurants", DecodeList[*Restaurant]("restaurants"))
}

// Get retrieves a single restaurant by ID
func (s *restaurantService) Get(ctx context.Context, restaurantID string) *Result[Restaurant] {
	return GetWith(ctx, s.client, "/restaurants/"+url.PathEscape(restaurantID), DecodeObject[Restaurant]("restaurant"))
}

// Meals lists the menu of a restaurant
func (s *restaurantService) Meals(ctx context.Context, restaurantID string) *Result[[]*Meal] {
	path := "/restaurants/" + url.PathEscape(restaurantID) + "/meals"
	return GetWith(ctx, s.client, path, DecodeList[*Meal]("meals"))
}
