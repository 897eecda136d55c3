package httpserver

import "github.com/labstack/echo/v4"

// Every response carries the {success, ...} envelope the storefront client
// unwraps; failures add a user-displayable message.

func ok(c echo.Context, status int, fields echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	return c.JSON(status, body)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}
