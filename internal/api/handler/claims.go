package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxAddress returns the wallet address injected by the Auth middleware.
// An empty value means the middleware did not run.
func ctxAddress(c echo.Context) (string, error) {
	address, _ := c.Get("address").(string)
	if address == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return address, nil
}
