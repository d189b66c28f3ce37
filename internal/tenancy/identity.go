package tenancy

import (
	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/pkg/apperr"
	"github.com/salonsuite/salon-api/pkg/auth"
)

// ErrMissingTenant is returned when an operation requires a tenant but the
// request resolved none. It surfaces to callers as an authorization failure.
var ErrMissingTenant = apperr.Forbidden("request is not bound to a tenant", nil)

// Identity is the request-scoped identity: the authenticated principal's
// claims merged with the host-derived tenant resolution. It is built once
// per request and passed down the call chain explicitly; it must never be
// cached or shared across requests.
//
// A token's tenant claim always wins over the host-derived tenant, so an
// authenticated user cannot act on another tenant by hitting its domain.
// The host-derived tenant still serves pre-authentication endpoints.
type Identity struct {
	claims   *auth.Claims
	resolved Resolution
	hasHost  bool
}

// Anonymous is the identity of a request with no token and no resolved host.
var Anonymous = Identity{}

func NewIdentity(claims *auth.Claims, resolved Resolution, hostResolved bool) Identity {
	return Identity{claims: claims, resolved: resolved, hasHost: hostResolved}
}

// TenantID returns the effective tenant of the request: the token claim
// when present, else the host-derived tenant.
func (id Identity) TenantID() (uuid.UUID, bool) {
	if id.claims != nil && id.claims.TenantID != nil {
		return *id.claims.TenantID, true
	}
	if id.hasHost {
		return id.resolved.TenantID, true
	}
	return uuid.Nil, false
}

// RequireTenantID returns the effective tenant or ErrMissingTenant.
func (id Identity) RequireTenantID() (uuid.UUID, error) {
	tid, ok := id.TenantID()
	if !ok {
		return uuid.Nil, ErrMissingTenant
	}
	return tid, nil
}

// HostTenantID returns the tenant derived from the request host only,
// ignoring token claims. The login flow uses it to cross-validate
// credentials against the domain they were presented on.
func (id Identity) HostTenantID() (uuid.UUID, bool) {
	if !id.hasHost {
		return uuid.Nil, false
	}
	return id.resolved.TenantID, true
}

// IsSuperAdmin reports whether the request carries the platform operator role.
func (id Identity) IsSuperAdmin() bool {
	return id.claims != nil && id.claims.IsSuperAdmin()
}

// Authenticated reports whether a validated token backs this identity.
func (id Identity) Authenticated() bool {
	return id.claims != nil
}

// UserID returns the authenticated principal's id, if any.
func (id Identity) UserID() (uuid.UUID, bool) {
	if id.claims == nil {
		return uuid.Nil, false
	}
	return id.claims.UserID, true
}

// Subdomain returns the subdomain the request arrived on, if resolved.
func (id Identity) Subdomain() string {
	return id.resolved.Subdomain
}
