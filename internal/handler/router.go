package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/salonsuite/salon-api/internal/config"
	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/tenancy"
	"github.com/salonsuite/salon-api/pkg/auth"
	"github.com/salonsuite/salon-api/pkg/metrics"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Tenants      *TenantHandler
	Clients      *ClientHandler
	Catalog      *CatalogHandler
	Appointments *AppointmentHandler
	Invoices     *InvoiceHandler
	Settings     *SettingsHandler
	Health       *HealthHandler
}

// NewRouter wires the middleware chain and all routes.
func NewRouter(
	cfg *config.Config,
	h Handlers,
	resolver *tenancy.Resolver,
	jwt *auth.JWTService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger, m),
		middleware.RateLimit(cfg.RateLimit),
		middleware.Tenant(resolver),
	)

	router.GET("/healthz", h.Health.Live)
	router.GET("/readyz", h.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Public surface: signup and login resolve their tenant from the host.
	v1.POST("/auth/login", h.Auth.Login)
	v1.POST("/tenants", h.Tenants.Create)

	authed := v1.Group("")
	authed.Use(middleware.Auth(jwt))
	{
		tenant := authed.Group("/tenant")
		{
			tenant.GET("", h.Tenants.Current)
			tenant.PUT("", h.Tenants.UpdateCurrent)
			tenant.POST("/onboarding", h.Tenants.FinishOnboarding)
		}

		clients := authed.Group("/clients")
		{
			clients.POST("", h.Clients.Create)
			clients.GET("", h.Clients.List)
			clients.GET("/:id", h.Clients.Get)
			clients.PUT("/:id", h.Clients.Update)
			clients.DELETE("/:id", h.Clients.Delete)
		}

		services := authed.Group("/services")
		{
			services.POST("", h.Catalog.Create)
			services.GET("", h.Catalog.List)
			services.GET("/:id", h.Catalog.Get)
			services.PUT("/:id", h.Catalog.Update)
			services.DELETE("/:id", h.Catalog.Delete)
		}

		appointments := authed.Group("/appointments")
		{
			appointments.POST("", h.Appointments.Create)
			appointments.GET("", h.Appointments.List)
			appointments.GET("/:id", h.Appointments.Get)
			appointments.PUT("/:id", h.Appointments.Update)
			appointments.DELETE("/:id", h.Appointments.Delete)
		}

		invoices := authed.Group("/invoices")
		{
			invoices.GET("", h.Invoices.List)
			invoices.GET("/:id", h.Invoices.Get)
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.RequireSuperAdmin())
		{
			admin.GET("/tenants", h.Tenants.List)
			admin.GET("/tenants/:id", h.Tenants.Get)
			admin.POST("/tenants/:id/activate", h.Tenants.Activate)
			admin.POST("/tenants/:id/suspend", h.Tenants.Suspend)
			admin.GET("/notification-settings", h.Settings.Get)
			admin.PUT("/notification-settings", h.Settings.Update)
		}
	}

	return router
}
