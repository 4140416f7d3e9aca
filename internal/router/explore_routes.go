package router

import (
	"github.com/labstack/echo/v4"

	"github.com/spott-events/spott/internal/handler"
	"github.com/spott-events/spott/internal/middleware"
)

// RegisterExplore registers the public discovery endpoints.  A bearer
// token is optional: when present the caller's interests and location
// personalise the result.  cache wraps every route and is a pass-through
// unless the Redis response cache is enabled.
func RegisterExplore(e *echo.Echo, x *handler.ExploreHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/explore", middleware.OptionalAuth(jwtSecret), cache)
	g.GET("/featured", x.Featured)
	g.GET("/location", x.ByLocation)
	g.GET("/popular", x.Popular)
	g.GET("/categories", x.CategoryCounts)
	g.GET("/categories/:category", x.ByCategory)

	e.GET("/v1/search/events", x.Search, cache)
}
