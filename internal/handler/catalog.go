package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/model"
	"github.com/salonsuite/salon-api/internal/repository"
	"github.com/salonsuite/salon-api/pkg/apperr"
)

// CatalogHandler manages the salon's bookable service offerings.
type CatalogHandler struct {
	services repository.ServiceRepository
}

func NewCatalogHandler(services repository.ServiceRepository) *CatalogHandler {
	return &CatalogHandler{services: services}
}

func (h *CatalogHandler) Create(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	var req model.CreateServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	svc := &model.Service{
		TenantID:        tenantID,
		Name:            req.Name,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if req.Description != "" {
		svc.Description = &req.Description
	}

	if err := h.services.Create(c.Request.Context(), svc); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) List(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	services, err := h.services.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	svc, ok := h.ownedService(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	svc, ok := h.ownedService(c)
	if !ok {
		return
	}

	var req model.UpdateServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.PriceCents != nil {
		svc.PriceCents = *req.PriceCents
	}
	if req.DurationMinutes != nil {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := h.services.Update(c.Request.Context(), svc); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	svc, ok := h.ownedService(c)
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), svc.ID); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ownedService(c *gin.Context) (*model.Service, bool) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return nil, false
	}

	svc, err := h.services.Get(c.Request.Context(), id)
	if err != nil || svc.TenantID != tenantID {
		respondError(c, apperr.NotFound("service", nil))
		return nil, false
	}
	return svc, true
}
