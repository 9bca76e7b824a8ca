package auth

import "github.com/gin-gonic/gin"

// GetAdminID returns the authenticated admin's ID or empty string.
func GetAdminID(c *gin.Context) string {
	if v, ok := c.Get("adminID"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetAdminEmail returns the authenticated admin's email or empty string.
func GetAdminEmail(c *gin.Context) string {
	if v, ok := c.Get("adminEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
