package models

import "time"

const (
	RoleCustomer   = "customer"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// Identity is the authenticated user record as the backend reports it.
// A nil *Identity means unauthenticated.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// CartLine is one cart position. The embedded product carries whatever the
// server resolved at read time (name, current price, stock).
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the server-authoritative cart snapshot. All pricing fields are
// computed server-side; the client never derives them.
type Cart struct {
	Items    []CartLine `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
}

// ItemCount sums line quantities across the snapshot.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, line := range c.Items {
		n += line.Quantity
	}
	return n
}

type OrderItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"createdAt"`
}

type Appointment struct {
	ID          string    `json:"id"`
	Service     string    `json:"service"`
	DeviceInfo  string    `json:"deviceInfo"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

type Ticket struct {
	ID          string    `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
