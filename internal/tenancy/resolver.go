package tenancy

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/model"
)

// Reserved subdomains tried when a request hits the platform apex domain.
var apexFallbacks = []string{"default", "www"}

// Resolution identifies the tenant a request host belongs to.
type Resolution struct {
	TenantID  uuid.UUID
	Subdomain string
}

// TenantLookup is the slice of the tenant repository the resolver needs.
// Both lookups return (nil, nil) on a miss.
type TenantLookup interface {
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error)
}

// Resolver derives a tenant from an inbound request's Host header. It has
// no side effects beyond logging; storing the result on the request is the
// middleware's job.
type Resolver struct {
	lookup     TenantLookup
	rootDomain string
	cache      *cache.Cache
	logger     zerolog.Logger
}

func NewResolver(lookup TenantLookup, rootDomain string, logger zerolog.Logger) *Resolver {
	return &Resolver{
		lookup:     lookup,
		rootDomain: rootDomain,
		cache:      cache.New(time.Minute, 5*time.Minute),
		logger:     logger.With().Str("component", "tenant_resolver").Logger(),
	}
}

// Resolve maps a Host header value to a tenant. A miss is not an error:
// requests without a resolvable tenant proceed tenant-less and it is up to
// the authorization layer to reject them where a tenant is required.
func (r *Resolver) Resolve(ctx context.Context, host string) (Resolution, bool) {
	if host == "" {
		return Resolution{}, false
	}

	// Strip port suffix (localhost:8080 -> localhost).
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	host = strings.ToLower(host)

	if cached, found := r.cache.Get(host); found {
		return cached.(Resolution), true
	}

	res, ok := r.resolve(ctx, host)
	if ok {
		r.cache.Set(host, res, cache.DefaultExpiration)
	}
	return res, ok
}

func (r *Resolver) resolve(ctx context.Context, host string) (Resolution, bool) {
	// 1. Custom domain, exact match.
	tenant, err := r.lookup.GetByCustomDomain(ctx, host)
	if err != nil {
		r.logger.Warn().Err(err).Str("host", host).Msg("custom domain lookup failed")
	} else if tenant != nil {
		r.logger.Debug().Str("host", host).Str("subdomain", tenant.Subdomain).Msg("resolved by custom domain")
		return Resolution{TenantID: tenant.ID, Subdomain: tenant.Subdomain}, true
	}

	// 2. Platform apex (or its www variant) falls back to the reserved
	// "default" and "www" subdomains.
	if host == r.rootDomain || host == "www."+r.rootDomain {
		for _, sub := range apexFallbacks {
			if res, ok := r.bySubdomain(ctx, sub); ok {
				return res, true
			}
		}
	}

	// 3. Subdomain of the platform root.
	if suffix := "." + r.rootDomain; strings.HasSuffix(host, suffix) {
		subdomain := strings.TrimPrefix(strings.TrimSuffix(host, suffix), "www.")
		if subdomain != "" {
			if res, ok := r.bySubdomain(ctx, subdomain); ok {
				r.logger.Debug().Str("host", host).Str("subdomain", subdomain).Msg("resolved by subdomain")
				return res, true
			}
		}
	}

	// 4. Local development hosts are never guessed.
	if host == "localhost" || strings.HasPrefix(host, "127.0.0.1") || strings.HasPrefix(host, "192.168.") {
		r.logger.Debug().Str("host", host).Msg("local host, skipping tenant resolution")
		return Resolution{}, false
	}

	r.logger.Warn().Str("host", host).Msg("no tenant for host")
	return Resolution{}, false
}

func (r *Resolver) bySubdomain(ctx context.Context, subdomain string) (Resolution, bool) {
	tenant, err := r.lookup.GetBySubdomain(ctx, subdomain)
	if err != nil {
		r.logger.Warn().Err(err).Str("subdomain", subdomain).Msg("subdomain lookup failed")
		return Resolution{}, false
	}
	if tenant == nil {
		return Resolution{}, false
	}
	return Resolution{TenantID: tenant.ID, Subdomain: tenant.Subdomain}, true
}
