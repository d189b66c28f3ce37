package tenancy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
)

type fakeLookup struct {
	bySubdomain    map[string]*model.Tenant
	byCustomDomain map[string]*model.Tenant
	calls          int
	err            error
}

func (f *fakeLookup) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.bySubdomain[subdomain], nil
}

func (f *fakeLookup) GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byCustomDomain[domain], nil
}

func tenantFixture(subdomain string) *model.Tenant {
	t := &model.Tenant{Subdomain: subdomain}
	t.ID = uuid.New()
	return t
}

func TestResolverResolve(t *testing.T) {
	glam := tenantFixture("glamour")
	dflt := tenantFixture("default")
	custom := tenantFixture("bella")

	lookup := &fakeLookup{
		bySubdomain: map[string]*model.Tenant{
			"glamour": glam,
			"default": dflt,
		},
		byCustomDomain: map[string]*model.Tenant{
			"bellasalon.com": custom,
		},
	}

	tests := []struct {
		name   string
		host   string
		wantID uuid.UUID
		wantOK bool
	}{
		{"subdomain", "glamour.salonsuite.app", glam.ID, true},
		{"subdomain with port", "glamour.salonsuite.app:8080", glam.ID, true},
		{"subdomain uppercase", "GLAMOUR.Salonsuite.APP", glam.ID, true},
		{"www prefixed subdomain", "www.glamour.salonsuite.app", glam.ID, true},
		{"custom domain", "bellasalon.com", custom.ID, true},
		{"apex falls back to default", "salonsuite.app", dflt.ID, true},
		{"www apex falls back to default", "www.salonsuite.app", dflt.ID, true},
		{"unknown subdomain", "nobody.salonsuite.app", uuid.Nil, false},
		{"localhost", "localhost:3000", uuid.Nil, false},
		{"loopback", "127.0.0.1:8080", uuid.Nil, false},
		{"private network", "192.168.1.50", uuid.Nil, false},
		{"unrelated domain", "example.org", uuid.Nil, false},
		{"empty host", "", uuid.Nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(lookup, "salonsuite.app", zerolog.Nop())
			res, ok := r.Resolve(context.Background(), tt.host)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, res.TenantID)
			}
		})
	}
}

func TestResolverApexFallbackOrder(t *testing.T) {
	// Without a "default" tenant the apex falls through to "www".
	www := tenantFixture("www")
	lookup := &fakeLookup{bySubdomain: map[string]*model.Tenant{"www": www}}

	r := NewResolver(lookup, "salonsuite.app", zerolog.Nop())
	res, ok := r.Resolve(context.Background(), "salonsuite.app")
	require.True(t, ok)
	assert.Equal(t, www.ID, res.TenantID)
}

func TestResolverCachesHits(t *testing.T) {
	glam := tenantFixture("glamour")
	lookup := &fakeLookup{bySubdomain: map[string]*model.Tenant{"glamour": glam}}

	r := NewResolver(lookup, "salonsuite.app", zerolog.Nop())

	_, ok := r.Resolve(context.Background(), "glamour.salonsuite.app")
	require.True(t, ok)
	callsAfterFirst := lookup.calls

	_, ok = r.Resolve(context.Background(), "glamour.salonsuite.app")
	require.True(t, ok)
	assert.Equal(t, callsAfterFirst, lookup.calls, "second resolve should come from cache")
}

func TestResolverDoesNotCacheMisses(t *testing.T) {
	lookup := &fakeLookup{}
	r := NewResolver(lookup, "salonsuite.app", zerolog.Nop())

	_, ok := r.Resolve(context.Background(), "ghost.salonsuite.app")
	require.False(t, ok)
	first := lookup.calls

	_, ok = r.Resolve(context.Background(), "ghost.salonsuite.app")
	require.False(t, ok)
	assert.Greater(t, lookup.calls, first, "misses must hit the store again")
}

func TestResolverLookupErrorIsMiss(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("db down")}
	r := NewResolver(lookup, "salonsuite.app", zerolog.Nop())

	_, ok := r.Resolve(context.Background(), "glamour.salonsuite.app")
	assert.False(t, ok)
}
