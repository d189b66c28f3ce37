package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/model"
	billingsvc "github.com/salonsuite/salon-api/internal/service/billing"
)

type InvoiceHandler struct {
	billing *billingsvc.Service
}

func NewInvoiceHandler(billing *billingsvc.Service) *InvoiceHandler {
	return &InvoiceHandler{billing: billing}
}

func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	filters := &model.InvoiceFilters{}
	if raw := c.Query("status"); raw != "" {
		filters.Status = model.InvoiceStatus(raw)
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		filters.Year = year
	}

	invoices, err := h.billing.List(c.Request.Context(), tenantID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	inv, err := h.billing.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
