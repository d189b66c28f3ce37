package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/salonsuite/salon-api/internal/tenancy"
	"github.com/salonsuite/salon-api/pkg/auth"
)

// Keys under which middleware stores request state on the gin context.
const (
	ctxRequestID  = "request_id"
	ctxClaims     = "auth_claims"
	ctxResolution = "tenant_resolution"
	ctxResolved   = "tenant_resolved"
)

// IdentityFrom assembles the request identity from whatever the tenant and
// auth middleware stored. Either part may be absent.
func IdentityFrom(c *gin.Context) tenancy.Identity {
	var claims *auth.Claims
	if v, ok := c.Get(ctxClaims); ok {
		claims, _ = v.(*auth.Claims)
	}

	var resolution tenancy.Resolution
	resolved := false
	if v, ok := c.Get(ctxResolution); ok {
		if res, castOK := v.(tenancy.Resolution); castOK {
			resolution = res
			resolved = c.GetBool(ctxResolved)
		}
	}

	return tenancy.NewIdentity(claims, resolution, resolved)
}

// RequestIDFrom returns the id assigned by the RequestID middleware.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}
