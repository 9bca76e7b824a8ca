package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Public Routes ===
	group.POST("", h.Create)
	group.GET("/track/:token", h.Track)

	// === Administration Routes ===
	adminGroup := group.Group("")
	adminGroup.Use(authMiddleware)
	{
		adminGroup.GET("", h.List)
		adminGroup.GET("/:id", h.Get)
		adminGroup.GET("/:id/history", h.History)
		adminGroup.PATCH("/:id/status", h.UpdateStatus)
	}
}
