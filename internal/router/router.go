package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/spott-events/spott/internal/handler"    // import the handlers that implement business logic
	"github.com/spott-events/spott/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, db *sqlx.DB) {
	// Load balancers and monitoring systems poll this endpoint; it also
	// verifies the database connection.
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers all account routes.  Token-issuing operations live
// under /v1/auth and pass through the rate limiter; profile endpoints live
// under /v1/me and require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Logout revokes the posted refresh token, or every session of the
	// bearer when no body is sent.
	g.POST("/logout", a.Logout, middleware.OptionalAuth(jwtSecret))

	auth := middleware.JWTAuth(jwtSecret)
	e.GET("/v1/me", a.Me, auth)
	e.POST("/v1/me/onboarding", a.CompleteOnboarding, auth)
}
