package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/events"
	"github.com/imaxretail/storefront/internal/stubapi/models"
	"github.com/imaxretail/storefront/pkg/logging"
)

type CartHTTP struct {
	DB       *gorm.DB
	Producer *events.Producer
}

// respondCart rebuilds and returns the full snapshot; every cart endpoint
// answers with it so the client can replace state wholesale.
func (h *CartHTTP) respondCart(c echo.Context, status int, userID uuid.UUID) error {
	view, err := buildCartView(c.Request().Context(), h.DB, userID)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("cart_view_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	return ok(c, status, echo.Map{"cart": view})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}
	return h.respondCart(c, http.StatusOK, userID)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var req struct {
		ProductID uuid.UUID `json:"productId"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_add_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		return fail(c, http.StatusBadRequest, "productId is required")
	}
	if req.Quantity < 1 {
		return fail(c, http.StatusBadRequest, "quantity must be at least 1")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "product not found")
		}
		l.Error("cart_add_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if product.Stock < 1 {
		return fail(c, http.StatusConflict, "product is out of stock")
	}

	var item models.CartItem
	tx := h.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item)
	switch {
	case tx.Error == nil:
		item.Quantity = clampQuantity(item.Quantity+req.Quantity, product.Stock)
		if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
			l.Error("cart_add_error", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, "internal error")
		}
	case errors.Is(tx.Error, gorm.ErrRecordNotFound):
		item = models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  clampQuantity(req.Quantity, product.Stock),
		}
		if err := h.DB.WithContext(ctx).Create(&item).Error; err != nil {
			l.Error("cart_add_error", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, "internal error")
		}
	default:
		l.Error("cart_add_error", "status", 500, "error", tx.Error)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})

	return h.respondCart(c, http.StatusOK, userID)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_update")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	var req struct {
		ProductID uuid.UUID `json:"productId"`
		Quantity  int       `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("cart_update_error", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProductID == uuid.Nil {
		return fail(c, http.StatusBadRequest, "productId is required")
	}
	if req.Quantity < 1 {
		return fail(c, http.StatusBadRequest, "quantity must be at least 1")
	}

	var item models.CartItem
	if err := h.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "item not in cart")
		}
		l.Error("cart_update_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, "id = ?", req.ProductID).Error; err != nil {
		l.Error("cart_update_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	item.Quantity = clampQuantity(req.Quantity, product.Stock)
	if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
		l.Error("cart_update_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_updated",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})

	return h.respondCart(c, http.StatusOK, userID)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_remove")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	result := h.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		l.Error("cart_remove_error", "status", 500, "error", result.Error)
		return fail(c, http.StatusInternalServerError, "internal error")
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "item not in cart")
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})

	return h.respondCart(c, http.StatusOK, userID)
}

// ClearCart empties the cart; clearing an already empty cart succeeds.
func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_clear")

	userID, err := currentUserID(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "not authenticated")
	}

	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		l.Error("cart_clear_error", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return h.respondCart(c, http.StatusOK, userID)
}

func clampQuantity(q, stock int) int {
	if q > stock {
		return stock
	}
	return q
}

func (h *CartHTTP) publish(c echo.Context, event map[string]any) {
	ctx := c.Request().Context()
	key, _ := event["userID"].(uuid.UUID)
	if err := h.Producer.Publish(ctx, events.TopicCartEvents, key.String(), event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", events.TopicCartEvents, "error", err)
	}
}
