// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/handler"
	"github.com/skillswap/skill-exchange/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication and no
// other middleware. Currently that is only the health check, used by load
// balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints and the
// session-introspection endpoint. Unauthenticated operations live under
// /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout lives outside the JWT middleware: it accepts either a Bearer
	// access token (revoke all sessions) or a refresh_token body (revoke
	// one session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// active skill catalog and public profiles. The optional middleware chain
// (response cache, rate limiting) applies to these routes only, so the
// hot guest-facing reads are the ones that get cached and throttled.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/skills", p.ListSkills)
	g.GET("/skills/:id", p.GetSkill)
	g.GET("/users/:id/profile", p.GetProfile)
}
