package middleware

// identity.go defines helper functions shared across middleware files. It
// provides the operator-identifier extraction used by the cache and rate
// limit key strategies. When no session is present, "guest" is returned so
// anonymous storefront traffic shares one bucket per IP.

import "github.com/labstack/echo/v4"

// userID extracts the operator identifier stored by SessionAuth. It returns
// "guest" when the request carries no authenticated session.
func userID(c echo.Context) string {
    if v, ok := c.Get("username").(string); ok && v != "" {
        return v
    }
    return "guest"
}
