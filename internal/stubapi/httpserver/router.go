package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/imaxretail/storefront/internal/stubapi/auth"
)

type Deps struct {
	Auth    *AuthHTTP
	Cart    *CartHTTP
	Catalog *CatalogHTTP
	Orders  *OrderHTTP
	Support *SupportHTTP
	Secret  []byte
}

// Register mounts the storefront API under /api: public auth and catalog
// routes, everything else behind the session cookie.
func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)

	api.GET("/products", d.Catalog.ListProducts)
	api.GET("/products/:id", d.Catalog.GetProduct)

	sessionMw := &auth.SessionAuth{Secret: d.Secret}
	private := api.Group("", sessionMw.RequireSession)

	private.GET("/auth/me", d.Auth.Me)
	private.POST("/auth/logout", d.Auth.Logout)

	private.GET("/cart", d.Cart.GetCart)
	private.POST("/cart", d.Cart.AddToCart)
	private.PUT("/cart", d.Cart.UpdateItem)
	private.DELETE("/cart", d.Cart.ClearCart)
	private.DELETE("/cart/:productId", d.Cart.RemoveItem)

	private.POST("/orders", d.Orders.Checkout)
	private.GET("/orders", d.Orders.ListOrders)

	private.POST("/appointments", d.Support.BookAppointment)
	private.GET("/appointments", d.Support.ListAppointments)

	private.POST("/tickets", d.Support.OpenTicket)
	private.GET("/tickets", d.Support.ListTickets)
}
