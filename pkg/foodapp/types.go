package foodapp

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a customer or restaurant account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Role      string    `json:"role,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// LoginParams represents credentials for a login
type LoginParams struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterParams represents a new account
type RegisterParams struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
}

// LoginResponse is the body of a successful login or registration
type LoginResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// UpdateProfileParams represents profile changes. Empty fields are left as they are.
type UpdateProfileParams struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// Meal represents a dish offered by a restaurant
type Meal struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	RestaurantID string          `json:"restaurantId,omitempty"`
	Available    bool            `json:"available"`
}

// CreateMealParams represents a new meal on a restaurant's menu
type CreateMealParams struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	Category    string          `json:"category,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Available   bool            `json:"available"`
}

// UpdateMealParams represents changes to a meal
type UpdateMealParams struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"imageUrl,omitempty"`
	Available   *bool            `json:"available,omitempty"`
}

// Restaurant represents a restaurant
type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	Cuisine     string  `json:"cuisine,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	IsOpen      bool    `json:"isOpen"`
}

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// Order represents a placed order
type Order struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId,omitempty"`
	RestaurantID string          `json:"restaurantId,omitempty"`
	Items        []*OrderItem    `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	Address      string          `json:"address,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}

// OrderItem represents one line of an order
type OrderItem struct {
	MealID   string          `json:"mealId" validate:"required"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=1"`
}

// CheckoutParams represents the order sent at checkout
type CheckoutParams struct {
	Items   []*OrderItem    `json:"items" validate:"required,min=1,dive,required"`
	Total   decimal.Decimal `json:"total"`
	Address string          `json:"address" validate:"required"`
	Notes   string          `json:"notes,omitempty"`
}

// OrderResponse is the body of a successful checkout
type OrderResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Order   *Order `json:"order"`
}

// MealResponse is the body of a successful meal creation
type MealResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Meal    *Meal  `json:"meal"`
}

// Notification represents an in-app notification
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Type      string    `json:"type,omitempty"`
	Read      bool      `json:"read"`
	OrderID   string    `json:"orderId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// CartItem is one meal in the local cart
type CartItem struct {
	Meal     *Meal `json:"meal"`
	Quantity int   `json:"quantity"`
}

// Subtotal returns price times quantity
func (i *CartItem) Subtotal() decimal.Decimal {
	if i == nil || i.Meal == nil {
		return decimal.Zero
	}
	return i.Meal.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
