package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonsuite/salon-api/internal/notify"
)

// SettingsHandler exposes the notification settings. Platform operators only.
type SettingsHandler struct {
	store *notify.SettingsStore
}

func NewSettingsHandler(store *notify.SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get())
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var req notify.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updated, err := h.store.Update(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
