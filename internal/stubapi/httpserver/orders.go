package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/events"
	"github.com/imaxretail/storefront/internal/stubapi/models"
	"github.com/imaxretail/storefront/pkg/logging"
)

type OrderHTTP struct {
	DB       *gorm.DB
	Producer *events.Producer
}

var errCartEmpty = fmt.Errorf("cart is empty")

type outOfStockError struct {
	name string
}

func (e *outOfStockError) Error() string {
	return "insufficient stock for " + e.name
}

// Checkout converts the cart into an order in one transaction: stock is
// checked and decremented, order lines are priced at current catalog
// prices, and the cart is emptied.
func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_checkout")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var order models.Order
	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return errCartEmpty
		}

		order = models.Order{UserID: userID, Status: "placed"}
		var subtotal float64
		orderItems := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < item.Quantity {
				return &outOfStockError{name: product.Name}
			}
			product.Stock -= item.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
			subtotal += product.Price * float64(item.Quantity)
		}

		order.Total = round2(subtotal * (1 + taxRate))
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}
		order.Items = orderItems

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		var oos *outOfStockError
		switch {
		case errors.Is(err, errCartEmpty):
			return fail(c, http.StatusBadRequest, "cart is empty")
		case errors.As(err, &oos):
			return fail(c, http.StatusConflict, oos.Error())
		default:
			l.Error("checkout_error", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, "could not place order")
		}
	}

	if err := h.Producer.Publish(ctx, events.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":    "order_placed",
		"orderID": order.ID,
		"userID":  userID,
		"total":   order.Total,
	}); err != nil {
		l.Warn("event_publish_failed", "topic", events.TopicOrderEvents, "error", err)
	}

	view, err := buildOrderView(ctx, h.DB, &order)
	if err != nil {
		l.Error("checkout_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	l.Info("order_placed", "order_id", order.ID, "total", order.Total)
	return ok(c, http.StatusCreated, echo.Map{"order": view})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order_list")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var orders []models.Order
	if err := h.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		l.Error("order_list_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	views := make([]*orderView, 0, len(orders))
	for i := range orders {
		view, err := buildOrderView(ctx, h.DB, &orders[i])
		if err != nil {
			l.Error("order_list_error", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, "internal error")
		}
		views = append(views, view)
	}

	return ok(c, http.StatusOK, echo.Map{"orders": views})
}
