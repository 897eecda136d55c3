package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaxretail/storefront/internal/api"
)

func TestCartLifecycle(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	cart, err := client.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	ssd := env.Seeded[2] // Kingston A400, 39.90
	cart, err = client.AddItem(ctx, ssd.ID.String(), 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, ssd.Name, cart.Items[0].Product.Name)
	assert.InDelta(t, 79.8, cart.Subtotal, 0.001)
	assert.InDelta(t, cart.Subtotal+cart.Tax, cart.Total, 0.001)
	assert.Equal(t, 2, cart.ItemCount())

	// Adding the same product again merges lines server-side.
	cart, err = client.AddItem(ctx, ssd.ID.String(), 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	cart, err = client.UpdateItem(ctx, ssd.ID.String(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	cart, err = client.RemoveItem(ctx, ssd.ID.String())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.ItemCount())
}

func TestCartQuantityClampedToStock(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	laptop := env.Seeded[1] // ThinkPad E14, stock 8
	cart, err := client.AddItem(ctx, laptop.ID.String(), 50)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, laptop.Stock, cart.Items[0].Quantity, "server clamps the quantity to available stock")
}

func TestCartRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	_, err := client.AddItem(ctx, env.Seeded[0].ID.String(), 0)
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Status)

	_, err = client.RemoveItem(ctx, env.Seeded[0].ID.String())
	require.Error(t, err, "removing a product that is not in the cart")
	apiErr, ok = err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
}

func TestClearCartIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	_, err := client.AddItem(ctx, env.Seeded[0].ID.String(), 1)
	require.NoError(t, err)

	cart, err := client.ClearCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Clearing an already empty cart succeeds again.
	cart, err = client.ClearCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.ItemCount())
}

func TestCartRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()

	_, err := client.GetCart(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
}
