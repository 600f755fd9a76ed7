package middleware

import (
	"net/http"

	"manvan/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireAdmin ensures that the authenticated user has the admin flag
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}
		if !user.IsAdmin {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// RequireVanOwner ensures that the authenticated user may manage listings
func RequireVanOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}
		if !user.IsVanOwner {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "Only van owners can perform this action")
			return
		}
		c.Next()
	}
}
