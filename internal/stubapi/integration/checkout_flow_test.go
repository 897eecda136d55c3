package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaxretail/storefront/internal/api"
	"github.com/imaxretail/storefront/internal/stubapi/models"
)

func TestCheckoutPlacesOrderAndEmptiesCart(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	ram := env.Seeded[3] // Crucial 16GB DDR4, 44.50, stock 35
	_, err := client.AddItem(ctx, ram.ID.String(), 2)
	require.NoError(t, err)

	order, err := client.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "placed", order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, ram.Price, order.Items[0].Price, 0.001, "order keeps the price at checkout time")
	assert.InDelta(t, 96.12, order.Total, 0.001) // 89.00 subtotal + 8% tax

	cart, err := client.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Stock was decremented inside the checkout transaction.
	var stored models.Product
	require.NoError(t, env.DB.First(&stored, "id = ?", ram.ID).Error)
	assert.Equal(t, ram.Stock-2, stored.Stock)

	orders, err := client.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()

	env.signUp(client)

	_, err := client.Checkout(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "cart is empty", apiErr.Message)
}

func TestCheckoutFailsWhenStockRanOut(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	env.signUp(client)

	laptop := env.Seeded[1]
	_, err := client.AddItem(ctx, laptop.ID.String(), 3)
	require.NoError(t, err)

	// Another sale drains the stock between add and checkout.
	require.NoError(t, env.DB.Model(&models.Product{}).
		Where("id = ?", laptop.ID).
		Update("stock", 1).Error)

	_, err = client.Checkout(ctx)
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.Status)

	// Nothing was committed: cart intact, stock untouched.
	cart, err := client.GetCart(ctx)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, "id = ?", laptop.ID).Error)
	assert.Equal(t, 1, stored.Stock)
}
