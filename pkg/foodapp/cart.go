package foodapp

import (
	"context"
	"encoding/json"
	"sync"

	internalTypes "github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// cartService implements the CartService interface. The cart lives in the
// client's store under the cart key, so it survives restarts with a durable store.
type cartService struct {
	client *Client
	mu     sync.Mutex
}

// Add puts quantity of meal in the cart, adding to what is already there
func (s *cartService) Add(ctx context.Context, meal *Meal, quantity int) error {
	if meal == nil || meal.ID == "" {
		return errors.New("meal with an ID is required")
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.Meal.ID == meal.ID {
			item.Quantity += quantity
			item.Meal = meal
			return s.save(ctx, items)
		}
	}

	return s.save(ctx, append(items, &CartItem{Meal: meal, Quantity: quantity}))
}

// Remove takes a meal out of the cart. Removing an absent meal is a no-op.
func (s *cartService) Remove(ctx context.Context, mealID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.Meal.ID != mealID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return s.save(ctx, kept)
}

// SetQuantity replaces the quantity of a meal already in the cart
func (s *cartService) SetQuantity(ctx context.Context, mealID string, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.Meal.ID == mealID {
			item.Quantity = quantity
			return s.save(ctx, items)
		}
	}
	return ErrItemNotInCart
}

// Items returns the cart contents in the order they were added
func (s *cartService) Items(ctx context.Context) ([]*CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Total sums price times quantity over the cart
func (s *cartService) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total, nil
}

// Clear empties the cart
func (s *cartService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.client.store.Remove(ctx, internalTypes.CartKey); err != nil {
		return errors.Wrap(err, "failed to clear cart")
	}
	return nil
}

func (s *cartService) load(ctx context.Context) ([]*CartItem, error) {
	data, err := s.client.store.Get(ctx, internalTypes.CartKey)
	if errors.Is(err, internalTypes.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cart")
	}

	var items []*CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal cart")
	}

	// drop entries an older build may have written without a meal
	valid := items[:0]
	for _, item := range items {
		if item != nil && item.Meal != nil {
			valid = append(valid, item)
		}
	}
	return valid, nil
}

func (s *cartService) save(ctx context.Context, items []*CartItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "failed to marshal cart")
	}
	if err := s.client.store.Set(ctx, internalTypes.CartKey, string(data)); err != nil {
		return errors.Wrap(err, "failed to save cart")
	}
	return nil
}
