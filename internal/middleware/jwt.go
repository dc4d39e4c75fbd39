package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "github.com/bluemoon1528/clusters/internal/utils"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and injects the operator identity into the request context. The
// provided secret must match the one used when issuing tokens. This
// middleware wraps the back-office routes so handlers can access the
// authenticated operator via `c.Get("username")` and `c.Get("is_super")`.
// The core service performs its own privilege checks on destructive
// operations; this layer only keeps unauthenticated traffic out of the
// back office entirely.
func SessionAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Read the Authorization header. A valid header starts with
            // "Bearer " followed by the session token.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            sess, err := utils.ParseSessionToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            // Store the identity in the context for downstream middleware
            // and handlers.
            c.Set("username", sess.Username)
            c.Set("is_super", sess.IsSuper)
            return next(c)
        }
    }
}
