package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/pkg/auth"
)

func TestIdentityTenantPrecedence(t *testing.T) {
	claimTenant := uuid.New()
	hostTenant := uuid.New()

	id := NewIdentity(
		&auth.Claims{UserID: uuid.New(), Role: model.RoleTenantAdmin, TenantID: &claimTenant},
		Resolution{TenantID: hostTenant, Subdomain: "glamour"},
		true,
	)

	got, ok := id.TenantID()
	require.True(t, ok)
	assert.Equal(t, claimTenant, got, "token claim wins over host")

	host, ok := id.HostTenantID()
	require.True(t, ok)
	assert.Equal(t, hostTenant, host)
}

func TestIdentityHostOnly(t *testing.T) {
	hostTenant := uuid.New()
	id := NewIdentity(nil, Resolution{TenantID: hostTenant}, true)

	got, ok := id.TenantID()
	require.True(t, ok)
	assert.Equal(t, hostTenant, got)
	assert.False(t, id.Authenticated())
}

func TestIdentitySuperAdminWithoutTenant(t *testing.T) {
	id := NewIdentity(&auth.Claims{UserID: uuid.New(), Role: model.RoleSuperAdmin}, Resolution{}, false)

	assert.True(t, id.IsSuperAdmin())
	_, ok := id.TenantID()
	assert.False(t, ok)

	_, err := id.RequireTenantID()
	assert.ErrorIs(t, err, ErrMissingTenant)
}

func TestAnonymousIdentity(t *testing.T) {
	_, ok := Anonymous.TenantID()
	assert.False(t, ok)
	assert.False(t, Anonymous.Authenticated())
	assert.False(t, Anonymous.IsSuperAdmin())

	_, err := Anonymous.RequireTenantID()
	assert.ErrorIs(t, err, ErrMissingTenant)
}
