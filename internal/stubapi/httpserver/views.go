package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/models"
)

// Wire views match the shapes the storefront client decodes; stored rows
// use snake_case internally, the contract is camelCase.

func userView(u *models.User) echo.Map {
	return echo.Map{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  u.Role,
	}
}

const taxRate = 0.08

type cartLineView struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

type cartView struct {
	Items    []cartLineView `json:"items"`
	Subtotal float64        `json:"subtotal"`
	Tax      float64        `json:"tax"`
	Total    float64        `json:"total"`
}

// buildCartView composes the authoritative cart snapshot: lines joined with
// their current product records plus server-computed pricing.
func buildCartView(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*cartView, error) {
	var items []models.CartItem
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	view := &cartView{Items: make([]cartLineView, 0, len(items))}
	for _, item := range items {
		var product models.Product
		if err := db.WithContext(ctx).First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product withdrawn from catalog; drop the orphaned line.
				continue
			}
			return nil, err
		}
		view.Items = append(view.Items, cartLineView{Product: product, Quantity: item.Quantity})
		view.Subtotal += product.Price * float64(item.Quantity)
	}

	view.Tax = round2(view.Subtotal * taxRate)
	view.Subtotal = round2(view.Subtotal)
	view.Total = round2(view.Subtotal + view.Tax)
	return view, nil
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

type orderItemView struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Price    float64        `json:"price"`
}

type orderView struct {
	ID        uuid.UUID       `json:"id"`
	Status    string          `json:"status"`
	Items     []orderItemView `json:"items"`
	Total     float64         `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

func buildOrderView(ctx context.Context, db *gorm.DB, order *models.Order) (*orderView, error) {
	view := &orderView{
		ID:        order.ID,
		Status:    order.Status,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
		Items:     make([]orderItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		var product models.Product
		if err := db.WithContext(ctx).First(&product, "id = ?", item.ProductID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		view.Items = append(view.Items, orderItemView{Product: product, Quantity: item.Quantity, Price: item.Price})
	}
	return view, nil
}

type appointmentView struct {
	ID          uuid.UUID `json:"id"`
	Service     string    `json:"service"`
	DeviceInfo  string    `json:"deviceInfo"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func toAppointmentView(a *models.Appointment) appointmentView {
	return appointmentView{
		ID:          a.ID,
		Service:     a.Service,
		DeviceInfo:  a.DeviceInfo,
		Notes:       a.Notes,
		Status:      a.Status,
		ScheduledAt: a.ScheduledAt,
	}
}

type ticketView struct {
	ID          uuid.UUID `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toTicketView(t *models.Ticket) ticketView {
	return ticketView{
		ID:          t.ID,
		Subject:     t.Subject,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

// currentUserID reads the id RequireSession stored on the context.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}
	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}
	return userID, nil
}
