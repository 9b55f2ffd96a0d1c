package router

import (
	"github.com/labstack/echo/v4"

	"github.com/skillswap/skill-exchange/internal/handler"
	"github.com/skillswap/skill-exchange/internal/middleware"
)

// RegisterMember registers the authenticated member endpoints under /v1.
// Every route requires a valid access token; per-resource authorization
// (skill ownership, trade actor rights) is enforced in the handlers and
// the storage layer.
func RegisterMember(e *echo.Echo, sk *handler.SkillHandler, sv *handler.SavedHandler, tr *handler.TradeHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Skill management.
	g.POST("/skills", sk.Create)
	g.PATCH("/skills/:id", sk.Update)
	g.DELETE("/skills/:id", sk.Delete)
	g.GET("/my-skills", sk.ListMine)

	// Saved-skill bookmarks.
	g.GET("/saved-skills", sv.ListSkills)
	g.GET("/saved-skills/ids", sv.ListIDs)
	g.POST("/skills/:id/save", sv.Save)
	g.DELETE("/skills/:id/save", sv.Unsave)

	// Trade request lifecycle.
	g.POST("/skills/:id/trade-requests", tr.Create)
	g.GET("/my-trade-requests", tr.ListMine)
	g.GET("/incoming-trade-requests", tr.ListIncoming)
	g.GET("/notifications/summary", tr.NotificationSummary)
	g.POST("/trade-requests/:id/accept", tr.Accept)
	g.POST("/trade-requests/:id/decline", tr.Decline)
	g.POST("/trade-requests/:id/cancel", tr.Cancel)
	g.POST("/trade-requests/:id/complete", tr.Complete)
}
