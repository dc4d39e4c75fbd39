package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireSuper returns a middleware that rejects requests whose session
// does not carry super privilege. It assumes SessionAuth ran earlier and
// stored the flag under "is_super". The service layer re-checks privilege
// immediately before each destructive operation; this middleware just
// fails fast at the HTTP boundary.
func RequireSuper() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            v := c.Get("is_super")
            isSuper, ok := v.(bool)
            if !ok || !isSuper {
                return c.JSON(http.StatusForbidden, map[string]string{"error": "super admin privilege required"})
            }
            return next(c)
        }
    }
}
