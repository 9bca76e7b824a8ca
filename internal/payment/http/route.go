package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/payments")

	// Signature-verified, no session auth: the processor calls this.
	group.POST("/webhook", h.Webhook)
}
