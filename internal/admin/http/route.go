package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/admin")

	// === Public Routes ===
	group.POST("/login", h.Login)
}
