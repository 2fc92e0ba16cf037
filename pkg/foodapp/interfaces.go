package foodapp

import (
	"context"

	"github.com/shopspring/decimal"
)

// AuthService handles login, registration and the local session
type AuthService interface {
	// Login signs a customer in and stores the session on success
	Login(ctx context.Context, email, password string) *Result[LoginResponse]

	// RestaurantLogin signs a restaurant in and stores the session on success
	RestaurantLogin(ctx context.Context, email, password string) *Result[LoginResponse]

	// Register creates a customer account and stores the session on success
	Register(ctx context.Context, params *RegisterParams) *Result[LoginResponse]

	// Logout clears the stored session
	Logout(ctx context.Context) error

	// CurrentUser returns the stored user
	CurrentUser(ctx context.Context) (*User, error)

	// IsAuthenticated reports whether a token is stored
	IsAuthenticated(ctx context.Context) bool
}

// UserService handles the signed-in user's profile
type UserService interface {
	GetProfile(ctx context.Context) *Result[User]
	UpdateProfile(ctx context.Context, params *UpdateProfileParams) *Result[User]
}

// MealService handles meals
type MealService interface {
	List(ctx context.Context) *Result[[]*Meal]
	Get(ctx context.Context, mealID string) *Result[Meal]
	Search(ctx context.Context, query string) *Result[[]*Meal]
	Create(ctx context.Context, params *CreateMealParams) *Result[MealResponse]
	Update(ctx context.Context, mealID string, params *UpdateMealParams) *Result[Meal]
	Delete(ctx context.Context, mealID string) *Result[struct{}]
}

// RestaurantService handles restaurants
type RestaurantService interface {
	List(ctx context.Context) *Result[[]*Restaurant]
	Get(ctx context.Context, restaurantID string) *Result[Restaurant]

	// Meals lists the menu of a restaurant
	Meals(ctx context.Context, restaurantID string) *Result[[]*Meal]
}

// OrderService handles orders
type OrderService interface {
	// Checkout places an order for the cart contents and clears the cart on success
	Checkout(ctx context.Context, address, notes string) *Result[OrderResponse]

	// Place sends an order built by the caller
	Place(ctx context.Context, params *CheckoutParams) *Result[OrderResponse]

	List(ctx context.Context) *Result[[]*Order]
	Get(ctx context.Context, orderID string) *Result[Order]
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) *Result[Order]
	Cancel(ctx context.Context, orderID string) *Result[struct{}]
}

// NotificationService handles notifications
type NotificationService interface {
	List(ctx context.Context) *Result[[]*Notification]
	MarkRead(ctx context.Context, notificationID string) *Result[Notification]
	Delete(ctx context.Context, notificationID string) *Result[struct{}]

	// UnreadCount returns the number of unread notifications
	UnreadCount(ctx context.Context) (int, error)
}

// CartService keeps the cart in the local store
type CartService interface {
	Add(ctx context.Context, meal *Meal, quantity int) error
	Remove(ctx context.Context, mealID string) error
	SetQuantity(ctx context.Context, mealID string, quantity int) error
	Items(ctx context.Context) ([]*CartItem, error)
	Total(ctx context.Context) (decimal.Decimal, error)
	Clear(ctx context.Context) error
}
