package main

import (
	"context"
	"fmt"

	"github.com/eshaffer321/foodapp-go/pkg/foodapp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// foodTools holds the food app client and implements all tool handlers
type foodTools struct {
	client *foodapp.Client
}

// resultError turns a failed result into a tool error carrying the user-facing message
func resultError[T any](action string, result *foodapp.Result[T]) error {
	return fmt.Errorf("failed to %s: %s (%s)", action, result.Message, result.Status)
}

// ListRestaurants tool
type ListRestaurantsInput struct {
	OpenOnly bool `json:"openOnly,omitempty" jsonschema:"Only return restaurants that are open now (optional)"`
}

type RestaurantEntry struct {
	ID      string  `json:"id" jsonschema:"Restaurant ID"`
	Name    string  `json:"name" jsonschema:"Restaurant name"`
	Cuisine string  `json:"cuisine,omitempty" jsonschema:"Cuisine type"`
	Rating  float64 `json:"rating,omitempty" jsonschema:"Average rating"`
	IsOpen  bool    `json:"isOpen" jsonschema:"Whether the restaurant is open"`
}

type ListRestaurantsOutput struct {
	Restaurants []RestaurantEntry `json:"restaurants" jsonschema:"List of restaurants"`
	Count       int               `json:"count" jsonschema:"Number of restaurants returned"`
}

func (t *foodTools) ListRestaurants(ctx context.Context, req *mcp.CallToolRequest, input ListRestaurantsInput) (*mcp.CallToolResult, ListRestaurantsOutput, error) {
	result := t.client.Restaurants.List(ctx)
	if !result.Success {
		return nil, ListRestaurantsOutput{}, resultError("fetch restaurants", result)
	}

	entries := []RestaurantEntry{}
	for _, r := range result.Value() {
		if r == nil || (input.OpenOnly && !r.IsOpen) {
			continue
		}
		entries = append(entries, RestaurantEntry{
			ID:      r.ID,
			Name:    r.Name,
			Cuisine: r.Cuisine,
			Rating:  r.Rating,
			IsOpen:  r.IsOpen,
		})
	}

	return nil, ListRestaurantsOutput{Restaurants: entries, Count: len(entries)}, nil
}

type MealEntry struct {
	ID        string `json:"id" jsonschema:"Meal ID"`
	Name      string `json:"name" jsonschema:"Meal name"`
	Price     string `json:"price" jsonschema:"Price with two decimals"`
	Category  string `json:"category,omitempty" jsonschema:"Menu category"`
	Available bool   `json:"available" jsonschema:"Whether the meal can be ordered"`
}

type MealsOutput struct {
	Meals []MealEntry `json:"meals" jsonschema:"List of meals"`
	Count int         `json:"count" jsonschema:"Number of meals returned"`
}

func mealEntries(meals []*foodapp.Meal) MealsOutput {
	entries := []MealEntry{}
	for _, m := range meals {
		if m == nil {
			continue
		}
		entries = append(entries, MealEntry{
			ID:        m.ID,
			Name:      m.Name,
			Price:     m.Price.StringFixed(2),
			Category:  m.Category,
			Available: m.Available,
		})
	}
	return MealsOutput{Meals: entries, Count: len(entries)}
}

// GetMenu tool
type GetMenuInput struct {
	RestaurantID string `json:"restaurantId" jsonschema:"Restaurant ID from list_restaurants"`
}

func (t *foodTools) GetMenu(ctx context.Context, req *mcp.CallToolRequest, input GetMenuInput) (*mcp.CallToolResult, MealsOutput, error) {
	if input.RestaurantID == "" {
		return nil, MealsOutput{}, fmt.Errorf("restaurantId is required")
	}

	result := t.client.Restaurants.Meals(ctx, input.RestaurantID)
	if !result.Success {
		return nil, MealsOutput{}, resultError("fetch menu", result)
	}
	return nil, mealEntries(result.Value()), nil
}

// SearchMeals tool
type SearchMealsInput struct {
	Query string `json:"query" jsonschema:"Text to search for"`
}

func (t *foodTools) SearchMeals(ctx context.Context, req *mcp.CallToolRequest, input SearchMealsInput) (*mcp.CallToolResult, MealsOutput, error) {
	if input.Query == "" {
		return nil, MealsOutput{}, fmt.Errorf("query is required")
	}

	result := t.client.Meals.Search(ctx, input.Query)
	if !result.Success {
		return nil, MealsOutput{}, resultError("search meals", result)
	}
	return nil, mealEntries(result.Value()), nil
}

// ListOrders tool
type ListOrdersInput struct {
	Status string `json:"status,omitempty" jsonschema:"Only return orders in this status (optional)"`
}

type OrderEntry struct {
	ID     string `json:"id" jsonschema:"Order ID"`
	Status string `json:"status" jsonschema:"Order status"`
	Total  string `json:"total" jsonschema:"Order total with two decimals"`
	Items  int    `json:"items" jsonschema:"Number of meals in the order"`
}

type ListOrdersOutput struct {
	Orders []OrderEntry `json:"orders" jsonschema:"List of orders"`
	Count  int          `json:"count" jsonschema:"Number of orders returned"`
}

func (t *foodTools) ListOrders(ctx context.Context, req *mcp.CallToolRequest, input ListOrdersInput) (*mcp.CallToolResult, ListOrdersOutput, error) {
	result := t.client.Orders.List(ctx)
	if !result.Success {
		return nil, ListOrdersOutput{}, resultError("fetch orders", result)
	}

	entries := []OrderEntry{}
	for _, o := range result.Value() {
		if o == nil || (input.Status != "" && string(o.Status) != input.Status) {
			continue
		}

		count := 0
		for _, item := range o.Items {
			if item != nil {
				count += item.Quantity
			}
		}

		entries = append(entries, OrderEntry{
			ID:     o.ID,
			Status: string(o.Status),
			Total:  o.Total.StringFixed(2),
			Items:  count,
		})
	}

	return nil, ListOrdersOutput{Orders: entries, Count: len(entries)}, nil
}

// GetCart tool
type GetCartInput struct {
	// No input parameters needed
}

type CartEntry struct {
	MealID   string `json:"mealId" jsonschema:"Meal ID"`
	Name     string `json:"name" jsonschema:"Meal name"`
	Quantity int    `json:"quantity" jsonschema:"Quantity in the cart"`
	Subtotal string `json:"subtotal" jsonschema:"Price times quantity"`
}

type GetCartOutput struct {
	Items []CartEntry `json:"items" jsonschema:"Cart contents"`
	Total string      `json:"total" jsonschema:"Cart total with two decimals"`
}

func (t *foodTools) GetCart(ctx context.Context, req *mcp.CallToolRequest, input GetCartInput) (*mcp.CallToolResult, GetCartOutput, error) {
	items, err := t.client.Cart.Items(ctx)
	if err != nil {
		return nil, GetCartOutput{}, fmt.Errorf("failed to read cart: %w", err)
	}

	total, err := t.client.Cart.Total(ctx)
	if err != nil {
		return nil, GetCartOutput{}, fmt.Errorf("failed to total cart: %w", err)
	}

	entries := []CartEntry{}
	for _, item := range items {
		entries = append(entries, CartEntry{
			MealID:   item.Meal.ID,
			Name:     item.Meal.Name,
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
		})
	}

	return nil, GetCartOutput{Items: entries, Total: total.StringFixed(2)}, nil
}

// AddToCart tool
type AddToCartInput struct {
	MealID   string `json:"mealId" jsonschema:"Meal ID from get_menu or search_meals"`
	Quantity int    `json:"quantity,omitempty" jsonschema:"How many to add (default: 1)"`
}

func (t *foodTools) AddToCart(ctx context.Context, req *mcp.CallToolRequest, input AddToCartInput) (*mcp.CallToolResult, GetCartOutput, error) {
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	meal := t.client.Meals.Get(ctx, input.MealID)
	if !meal.Success {
		return nil, GetCartOutput{}, resultError("fetch meal", meal)
	}

	if err := t.client.Cart.Add(ctx, meal.Data, quantity); err != nil {
		return nil, GetCartOutput{}, fmt.Errorf("failed to add to cart: %w", err)
	}

	return t.GetCart(ctx, req, GetCartInput{})
}
