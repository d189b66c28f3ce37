package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonsuite/salon-api/internal/middleware"
	"github.com/salonsuite/salon-api/internal/model"
	authsvc "github.com/salonsuite/salon-api/internal/service/auth"
)

type AuthHandler struct {
	auth *authsvc.Service
}

func NewAuthHandler(auth *authsvc.Service) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates against the tenant the request host resolved to.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), middleware.IdentityFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
