package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/bluemoon1528/clusters/internal/config"     // cache and rate limit configuration
	"github.com/bluemoon1528/clusters/internal/handler"    // handlers that implement the endpoints
	"github.com/bluemoon1528/clusters/internal/middleware" // session and role middleware
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterStorefront registers the public storefront endpoints: catalog
// browsing, booking creation, the sales aggregates and the payment QR.
// GET endpoints are cached and the booking form is rate limited when a
// Redis client is available; both middlewares degrade to no-ops otherwise.
func RegisterStorefront(e *echo.Echo, b *handler.BookingHandler, cat *handler.CatalogHandler, adm *handler.AdminHandler, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	browse := e.Group("/v1")
	browse.Use(middleware.NewRedisCache(cacheCfg, rdb))
	browse.GET("/movies", cat.List)
	browse.GET("/stats", b.Stats)
	browse.GET("/qr", b.TheatreQR)

	// Booking submissions are rate limited, never cached.
	e.POST("/v1/bookings", b.Create, middleware.NewTokenBucket(rlCfg, rdb))

	// The QR update lives outside the authenticated group because it
	// supports a one-time credential challenge when no session is active;
	// the service enforces the privilege either way.
	e.PUT("/v1/qr", adm.SaveTheatreQR)
}

// RegisterAuth registers the session endpoints. Login and logout are open;
// /v1/me requires a valid session token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.SessionAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterAdmin registers the back-office endpoints under /v1/admin. All of
// them require a valid session token; the destructive ones additionally
// require super privilege, which the core service re-checks before acting.
func RegisterAdmin(e *echo.Echo, adm *handler.AdminHandler, sy *handler.SyncHandler, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.SessionAuth(jwtSecret))

	// Dashboard reads and non-destructive management.
	g.GET("/bookings", adm.ListBookings)
	g.GET("/accounts", adm.ListAccounts)
	g.POST("/accounts", adm.AddAccount)
	g.POST("/sync/enable", sy.Enable)
	g.POST("/sync/disable", sy.Disable)
	g.GET("/sync/status", sy.Status)
	g.POST("/movies", cat.Save)
	g.PUT("/movies", cat.Save)
	g.DELETE("/movies/:id", cat.Delete)

	// Destructive operations: fail fast at the boundary, re-checked in the
	// service.
	super := g.Group("", middleware.RequireSuper())
	super.DELETE("/bookings/:id", adm.DeleteBooking)
	super.DELETE("/bookings", adm.ClearBookings)
	super.PUT("/accounts/:username/password", adm.RotatePassword)
	super.DELETE("/accounts/:username", adm.DeleteAccount)
	super.POST("/sync/push", sy.Push)
	super.POST("/sync/pull", sy.Pull)
}
