package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/pkg/auth"
)

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(jwt *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxClaims, claims)
		c.Next()
	}
}

// RequireSuperAdmin gates platform-operator endpoints. It must run after Auth.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(ctxClaims)
		claims, castOK := v.(*auth.Claims)
		if !ok || !castOK || claims.Role != model.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
