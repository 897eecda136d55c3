package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaxretail/storefront/internal/api"
)

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	// The catalog is public, no session needed.
	products, total, err := client.Products(ctx, api.ProductQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, len(env.Seeded), total)
	assert.Len(t, products, len(env.Seeded))
}

func TestProductSearchAndFilters(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	products, total, err := client.Products(ctx, api.ProductQuery{Search: "thinkpad"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "ThinkPad E14", products[0].Name)

	products, _, err = client.Products(ctx, api.ProductQuery{Category: "laptops"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, "laptops", p.Category)
	}

	// Description text matches too.
	products, _, err = client.Products(ctx, api.ProductQuery{Search: "ssd"})
	require.NoError(t, err)
	require.NotEmpty(t, products)

	products, total, err = client.Products(ctx, api.ProductQuery{Search: "no such thing"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, products)
}

func TestProductListPagination(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	first, total, err := client.Products(ctx, api.ProductQuery{Page: 1, Limit: 4})
	require.NoError(t, err)
	assert.EqualValues(t, len(env.Seeded), total)
	assert.Len(t, first, 4)

	second, _, err := client.Products(ctx, api.ProductQuery{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, second, len(env.Seeded)-4)
	assert.NotEqual(t, first[0].ID, second[0].ID)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient()
	ctx := context.Background()

	want := env.Seeded[0]
	got, err := client.Product(ctx, want.ID.String())
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Price, got.Price)

	_, err = client.Product(ctx, uuid.NewString())
	require.Error(t, err)
	apiErr, ok := err.(*api.APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.Status)
}
