package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/imaxretail/storefront/internal/models"
)

// ProductQuery narrows a catalog listing. Zero values are omitted from the
// request.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

type productListResponse struct {
	Success  bool             `json:"success"`
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

func (c *Client) Products(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	vals := url.Values{}
	if q.Search != "" {
		vals.Set("search", q.Search)
	}
	if q.Category != "" {
		vals.Set("category", q.Category)
	}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		vals.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/products"
	if len(vals) > 0 {
		path += "?" + vals.Encode()
	}

	var resp productListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Products, resp.Total, nil
}

func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var resp struct {
		Success bool           `json:"success"`
		Product models.Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

type orderResponse struct {
	Success bool         `json:"success"`
	Order   models.Order `json:"order"`
}

// Checkout turns the current cart into an order. The server empties the
// cart as part of the same operation.
func (c *Client) Checkout(ctx context.Context) (*models.Order, error) {
	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var resp struct {
		Success bool           `json:"success"`
		Orders  []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

type AppointmentRequest struct {
	Service     string    `json:"service"`
	DeviceInfo  string    `json:"deviceInfo"`
	Notes       string    `json:"notes,omitempty"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func (c *Client) BookAppointment(ctx context.Context, req AppointmentRequest) (*models.Appointment, error) {
	var resp struct {
		Success     bool               `json:"success"`
		Appointment models.Appointment `json:"appointment"`
	}
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Appointment, nil
}

func (c *Client) Appointments(ctx context.Context) ([]models.Appointment, error) {
	var resp struct {
		Success      bool                 `json:"success"`
		Appointments []models.Appointment `json:"appointments"`
	}
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Appointments, nil
}

type TicketRequest struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
}

func (c *Client) OpenTicket(ctx context.Context, req TicketRequest) (*models.Ticket, error) {
	var resp struct {
		Success bool          `json:"success"`
		Ticket  models.Ticket `json:"ticket"`
	}
	if err := c.do(ctx, http.MethodPost, "/tickets", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

func (c *Client) Tickets(ctx context.Context) ([]models.Ticket, error) {
	var resp struct {
		Success bool            `json:"success"`
		Tickets []models.Ticket `json:"tickets"`
	}
	if err := c.do(ctx, http.MethodGet, "/tickets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tickets, nil
}
