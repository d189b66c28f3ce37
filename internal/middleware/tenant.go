package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/salonsuite/salon-api/internal/tenancy"
)

// Tenant resolves the request host to a tenant and stores the result on the
// context. A miss is not fatal here; operations that need a tenant reject
// the request themselves.
func Tenant(resolver *tenancy.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, ok := resolver.Resolve(c.Request.Context(), c.Request.Host)
		c.Set(ctxResolution, res)
		c.Set(ctxResolved, ok)
		c.Next()
	}
}
