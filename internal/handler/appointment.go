package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/model"
	apptsvc "github.com/salonsuite/salon-api/internal/service/appointment"
)

type AppointmentHandler struct {
	appointments *apptsvc.Service
}

func NewAppointmentHandler(appointments *apptsvc.Service) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	var req model.CreateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	appt, err := h.appointments.Create(c.Request.Context(), tenantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	filters := &model.AppointmentFilters{}
	if raw := c.Query("status"); raw != "" {
		filters.Status = model.AppointmentStatus(raw)
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		filters.ClientID = id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from timestamp"})
			return
		}
		filters.StartDate = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to timestamp"})
			return
		}
		filters.EndDate = t
	}

	appts, err := h.appointments.List(c.Request.Context(), tenantID, filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.pathIDs(c)
	if !ok {
		return
	}

	appt, err := h.appointments.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.pathIDs(c)
	if !ok {
		return
	}

	var req model.UpdateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	appt, err := h.appointments.Update(c.Request.Context(), tenantID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.pathIDs(c)
	if !ok {
		return
	}

	if err := h.appointments.Delete(c.Request.Context(), tenantID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AppointmentHandler) pathIDs(c *gin.Context) (tenantID, id uuid.UUID, ok bool) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err = uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid appointment id"})
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
