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

type ClientHandler struct {
	clients repository.ClientRepository
}

func NewClientHandler(clients repository.ClientRepository) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	var req model.CreateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}

	client := &model.Client{
		TenantID: tenantID,
		Name:     req.Name,
	}
	if req.Email != "" {
		client.Email = &req.Email
	}
	if req.Phone != "" {
		client.Phone = &req.Phone
	}
	if req.Notes != "" {
		client.Notes = &req.Notes
	}

	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return
	}

	clients, err := h.clients.List(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, ok := h.ownedClient(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	client, ok := h.ownedClient(c)
	if !ok {
		return
	}

	var req model.UpdateClientRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	if err := h.clients.Update(c.Request.Context(), client); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	client, ok := h.ownedClient(c)
	if !ok {
		return
	}

	if err := h.clients.Delete(c.Request.Context(), client.ID); err != nil {
		respondError(c, apperr.Internal(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// ownedClient loads the path client and verifies it belongs to the request
// tenant, responding itself on failure.
func (h *ClientHandler) ownedClient(c *gin.Context) (*model.Client, bool) {
	tenantID, err := middleware.IdentityFrom(c).RequireTenantID()
	if err != nil {
		respondError(c, err)
		return nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return nil, false
	}

	client, err := h.clients.Get(c.Request.Context(), id)
	if err != nil || client.TenantID != tenantID {
		respondError(c, apperr.NotFound("client", nil))
		return nil, false
	}
	return client, true
}
