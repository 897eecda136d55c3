package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/imaxretail/storefront/internal/stubapi/models"
	"github.com/imaxretail/storefront/internal/stubapi/search"
	"github.com/imaxretail/storefront/pkg/logging"
)

type CatalogHTTP struct {
	DB     *gorm.DB
	Search *search.ProductSearch
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}

	res, err := h.Search.Search(ctx, c.QueryParam("search"), c.QueryParam("category"), (page-1)*limit, limit)
	if err != nil {
		logging.FromContext(ctx).Error("product_list_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return ok(c, http.StatusOK, echo.Map{
		"products": res.Items,
		"total":    res.Total,
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "product not found")
		}
		logging.FromContext(ctx).Error("product_get_error", "error", err)
		return fail(c, http.StatusInternalServerError, "internal error")
	}

	return ok(c, http.StatusOK, echo.Map{"product": product})
}
