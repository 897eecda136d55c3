package api

import (
	"context"
	"net/http"

	"github.com/imaxretail/storefront/internal/models"
)

type cartResponse struct {
	Success bool        `json:"success"`
	Cart    models.Cart `json:"cart"`
}

func (c *Client) GetCart(ctx context.Context) (*models.Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

func (c *Client) AddItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPost, "/cart", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

func (c *Client) UpdateItem(ctx context.Context, productID string, quantity int) (*models.Cart, error) {
	body := map[string]any{"productId": productID, "quantity": quantity}
	var resp cartResponse
	if err := c.do(ctx, http.MethodPut, "/cart", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

func (c *Client) RemoveItem(ctx context.Context, productID string) (*models.Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodDelete, "/cart/"+productID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}

func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	var resp cartResponse
	if err := c.do(ctx, http.MethodDelete, "/cart", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Cart, nil
}
