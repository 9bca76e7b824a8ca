package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tuneuplab/tuneup-booking-backend/internal/admin"
	"github.com/tuneuplab/tuneup-booking-backend/internal/pkg/response"
)

type Handler struct {
	service admin.Service
}

func NewHandler(service admin.Service) *Handler {
	return &Handler{service: service}
}

// Login exchanges admin credentials for an access token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Admin:       NewAdminResponse(a),
	})
}
