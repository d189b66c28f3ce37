package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/tenancy"
	"github.com/salonsuite/salon-api/pkg/auth"
)

type staticLookup struct {
	tenant *model.Tenant
}

func (s *staticLookup) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	if s.tenant != nil && s.tenant.Subdomain == subdomain {
		return s.tenant, nil
	}
	return nil, nil
}

func (s *staticLookup) GetByCustomDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	return nil, nil
}

func TestTenantMiddlewareAndIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tenant := &model.Tenant{Subdomain: "glamour"}
	tenant.ID = uuid.New()
	resolver := tenancy.NewResolver(&staticLookup{tenant: tenant}, "salonsuite.app", zerolog.Nop())

	var captured tenancy.Identity
	router := gin.New()
	router.Use(Tenant(resolver))
	router.GET("/", func(c *gin.Context) {
		captured = IdentityFrom(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "glamour.salonsuite.app"
	router.ServeHTTP(httptest.NewRecorder(), req)

	got, ok := captured.TenantID()
	require.True(t, ok)
	assert.Equal(t, tenant.ID, got)
	assert.Equal(t, "glamour", captured.Subdomain())
	assert.False(t, captured.Authenticated())
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwt := auth.NewJWTService("test-secret", time.Hour)
	tenantID := uuid.New()
	user := &model.User{
		TenantID: &tenantID,
		Email:    "ana@glamour.test",
		Role:     model.RoleTenantAdmin,
	}
	user.ID = uuid.New()
	token, err := jwt.GenerateToken(user)
	require.NoError(t, err)

	var captured tenancy.Identity
	router := gin.New()
	router.Use(Auth(jwt))
	router.GET("/", func(c *gin.Context) {
		captured = IdentityFrom(c)
		c.Status(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, captured.Authenticated())
		got, ok := captured.TenantID()
		require.True(t, ok)
		assert.Equal(t, tenantID, got)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireSuperAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwt := auth.NewJWTService("test-secret", time.Hour)
	admin := &model.User{Email: "root@platform.test", Role: model.RoleSuperAdmin}
	admin.ID = uuid.New()
	adminToken, err := jwt.GenerateToken(admin)
	require.NoError(t, err)

	tenantID := uuid.New()
	staff := &model.User{TenantID: &tenantID, Email: "ana@glamour.test", Role: model.RoleStaff}
	staff.ID = uuid.New()
	staffToken, err := jwt.GenerateToken(staff)
	require.NoError(t, err)

	router := gin.New()
	router.Use(Auth(jwt), RequireSuperAdmin())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("super admin allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("staff forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+staffToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
