package foodapp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// orderService implements the OrderService interface
type orderService struct {
	client *Client
}

// statusUpdate is the body of an order status change
type statusUpdate struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending confirmed preparing ready delivered cancelled"`
}

// Checkout places an order for what is in the cart
func (s *orderService) Checkout(ctx context.Context, address, notes string) *Result[OrderResponse] {
	items, err := s.client.Cart.Items(ctx)
	if err != nil {
		return failed[OrderResponse](ctx, s.client, http.MethodPost, "/orders", err)
	}

	params := &CheckoutParams{
		Items:   make([]*OrderItem, 0, len(items)),
		Address: address,
		Notes:   notes,
	}
	for _, item := range items {
		params.Items = append(params.Items, &OrderItem{
			MealID:   item.Meal.ID,
			Name:     item.Meal.Name,
			Price:    item.Meal.Price,
			Quantity: item.Quantity,
		})
		params.Total = params.Total.Add(item.Subtotal())
	}

	result := s.Place(ctx, params)
	if result.Success {
		if err := s.client.Cart.Clear(ctx); err != nil {
			if l := s.client.logger(); l != nil {
				l.Warn("Failed to clear cart after checkout", "error", err)
			}
		}
	}
	return result
}

// Place sends an order built by the caller
func (s *orderService) Place(ctx context.Context, params *CheckoutParams) *Result[OrderResponse] {
	if params == nil {
		return failed[OrderResponse](ctx, s.client, http.MethodPost, "/orders", errors.New("order params are required"))
	}
	if err := s.client.validateParams(params); err != nil {
		return failed[OrderResponse](ctx, s.client, http.MethodPost, "/orders", err)
	}
	return Post[OrderResponse](ctx, s.client, "/orders", params)
}

// List retrieves the signed-in user's orders
func (s *orderService) List(ctx context.Context) *Result[[]*Order] {
	return GetWith(ctx, s.client, "/orders", DecodeList[*Order]("orders"))
}

// Get retrieves a single order by ID
func (s *orderService) Get(ctx context.Context, orderID string) *Result[Order] {
	return GetWith(ctx, s.client, "/orders/"+url.PathEscape(orderID), DecodeObject[Order]("order"))
}

// UpdateStatus moves an order to status
func (s *orderService) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) *Result[Order] {
	path := "/orders/" + url.PathEscape(orderID) + "/status"
	body := &statusUpdate{Status: status}
	if err := s.client.validateParams(body); err != nil {
		return failed[Order](ctx, s.client, http.MethodPut, path, err)
	}
	return PutWith(ctx, s.client, path, body, DecodeObject[Order]("order"))
}

// Cancel cancels an order
func (s *orderService) Cancel(ctx context.Context, orderID string) *Result[struct{}] {
	return DeleteWith(ctx, s.client, "/orders/"+url.PathEscape(orderID), ignoreBody)
}
