package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type SessionAuth struct {
	Secret []byte
}

// RequireSession rejects requests without a valid session cookie and stores
// user_id/role on the echo context for handlers.
func (m *SessionAuth) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
		}

		claims, err := ClaimsFromToken(cookie.Value, m.Secret)
		if err != nil || claims == nil {
			c.SetCookie(DeleteSessionCookie())
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
		}

		c.Set("user_id", claims.Subject)
		c.Set("role", claims.Role)

		return next(c)
	}
}
