package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/model"
	tenantsvc "github.com/salonsuite/salon-api/internal/service/tenant"
)

type TenantHandler struct {
	tenants *tenantsvc.Service
}

func NewTenantHandler(tenants *tenantsvc.Service) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// Create provisions a tenant. Open endpoint: this is the signup flow.
func (h *TenantHandler) Create(c *gin.Context) {
	var req model.CreateTenantRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tenant, err := h.tenants.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

// List returns every tenant, optionally filtered by ?status=. Platform
// operators only.
func (h *TenantHandler) List(c *gin.Context) {
	tenants, err := h.tenants.List(c.Request.Context(), model.TenantStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenants)
}

// Get returns one tenant by id. Platform operators only.
func (h *TenantHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	tenant, err := h.tenants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// Activate moves a tenant to the active status. Platform operators only.
func (h *TenantHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	tenant, err := h.tenants.Activate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

type suspendRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// Suspend blocks a tenant. Platform operators only.
func (h *TenantHandler) Suspend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant id"})
		return
	}

	var req suspendRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tenant, err := h.tenants.Suspend(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// Current returns the tenant of the authenticated request.
func (h *TenantHandler) Current(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	tenant, err := h.tenants.Get(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// UpdateCurrent updates the tenant of the authenticated request.
func (h *TenantHandler) UpdateCurrent(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	var req model.UpdateTenantRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tenant, err := h.tenants.Update(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// FinishOnboarding marks the authenticated tenant's setup done.
func (h *TenantHandler) FinishOnboarding(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.tenants.FinishOnboarding(c.Request.Context(), tenantID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
