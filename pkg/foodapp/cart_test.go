package foodapp

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eshaffer321/foodapp-go/internal/storage"
	internalTypes "github.com/eshaffer321/foodapp-go/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService(t *testing.T) {
	client, _, _ := newMockClient()
	cart := client.Cart
	ctx := context.Background()

	ramen := &Meal{ID: "m-1", Name: "Ramen", Price: decimal.RequireFromString("14.00")}
	gyoza := &Meal{ID: "m-2", Name: "Gyoza", Price: decimal.RequireFromString("6.25")}

	require.NoError(t, cart.Add(ctx, ramen, 1))
	require.NoError(t, cart.Add(ctx, gyoza, 2))
	require.NoError(t, cart.Add(ctx, ramen, 1))

	items, err := cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "m-1", items[0].Meal.ID)
	assert.Equal(t, 2, items[0].Quantity)

	total, err := cart.Total(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("40.50").Equal(total))

	require.NoError(t, cart.SetQuantity(ctx, "m-2", 1))
	total, err = cart.Total(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("34.25").Equal(total))

	require.NoError(t, cart.Remove(ctx, "m-1"))
	require.NoError(t, cart.Remove(ctx, "m-1"))
	items, err = cart.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "m-2", items[0].Meal.ID)

	require.NoError(t, cart.Clear(ctx))
	items, err = cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_Errors(t *testing.T) {
	client, _, store := newMockClient()
	cart := client.Cart
	ctx := context.Background()

	assert.ErrorIs(t, cart.Add(ctx, &Meal{ID: "m-1"}, 0), ErrInvalidQuantity)
	assert.Error(t, cart.Add(ctx, nil, 1))
	assert.Error(t, cart.Add(ctx, &Meal{}, 1))
	assert.ErrorIs(t, cart.SetQuantity(ctx, "m-1", 3), ErrItemNotInCart)
	assert.ErrorIs(t, cart.SetQuantity(ctx, "m-1", 0), ErrInvalidQuantity)

	require.NoError(t, store.Set(ctx, internalTypes.CartKey, "{broken"))
	_, err := cart.Items(ctx)
	assert.Error(t, err)
}

func TestCartService_PersistsAcrossClients(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cart.db")

	store, err := storage.OpenSQLiteStore(ctx, path)
	require.NoError(t, err)

	first, err := NewClient(&ClientOptions{Store: store})
	require.NoError(t, err)
	require.NoError(t, first.Cart.Add(ctx, &Meal{ID: "m-1", Price: decimal.NewFromInt(8)}, 3))
	require.NoError(t, store.Close())

	reopened, err := storage.OpenSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	second, err := NewClient(&ClientOptions{Store: reopened})
	require.NoError(t, err)

	total, err := second.Cart.Total(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(24).Equal(total))
}
