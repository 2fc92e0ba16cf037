package foodapp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// mealService implements the MealService interface
type mealService struct {
	client *Client
}

// List retrieves all meals
func (s *mealService) List(ctx context.Context) *Result[[]*Meal] {
	return GetWith(ctx, s.client, "/meals", DecodeList[*Meal]("meals"))
}

// Get retrieves a single meal by ID
func (s *mealService) Get(ctx context.Context, mealID string) *Result[Meal] {
	return GetWith(ctx, s.client, "/meals/"+url.PathEscape(mealID), DecodeObject[Meal]("meal"))
}

// Search finds meals matching query
func (s *mealService) Search(ctx context.Context, query string) *Result[[]*Meal] {
	path := "/meals/search?" + url.Values{"q": {query}}.Encode()
	return GetWith(ctx, s.client, path, DecodeList[*Meal]("meals", "results"))
}

// Create adds a meal to the signed-in restaurant's menu
func (s *mealService) Create(ctx context.Context, params *CreateMealParams) *Result[MealResponse] {
	if params == nil {
		return failed[MealResponse](ctx, s.client, http.MethodPost, "/meals", errors.New("meal params are required"))
	}
	if err := s.client.validateParams(params); err != nil {
		return failed[MealResponse](ctx, s.client, http.MethodPost, "/meals", err)
	}
	return Post[MealResponse](ctx, s.client, "/meals", params)
}

// Update changes a meal
func (s *mealService) Update(ctx context.Context, mealID string, params *UpdateMealParams) *Result[Meal] {
	path := "/meals/" + url.PathEscape(mealID)
	if params == nil {
		return failed[Meal](ctx, s.client, http.MethodPut, path, errors.New("meal params are required"))
	}
	return PutWith(ctx, s.client, path, params, DecodeObject[Meal]("meal"))
}

// Delete removes a meal
func (s *mealService) Delete(ctx context.Context, mealID string) *Result[struct{}] {
	return DeleteWith(ctx, s.client, "/meals/"+url.PathEscape(mealID), ignoreBody)
}

// ignoreBody accepts any body, for endpoints whose answer carries nothing
// beyond the status
func ignoreBody([]byte) (struct{}, error) {
	return struct{}{}, nil
}
