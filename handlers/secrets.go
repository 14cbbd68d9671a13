package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgvault/orgvault/internal/secrets"
	"github.com/orgvault/orgvault/pkg/logger"
	"github.com/orgvault/orgvault/pkg/middleware"
)

// SecretsHandler exposes the org-scoped secret store over HTTP.
type SecretsHandler struct {
	svc *secrets.Service
}

func NewSecretsHandler(svc *secrets.Service) *SecretsHandler {
	return &SecretsHandler{svc: svc}
}

// Register routes. Both endpoints require an authenticated principal.
func (h *SecretsHandler) Register(r *gin.Engine) {
	r.GET("/secrets", middleware.RequirePrincipal(), h.List)
	r.POST("/secrets", middleware.RequirePrincipal(), h.Create)
}

// List returns every secret owned by the caller's organization.
func (h *SecretsHandler) List(c *gin.Context) {
	p, _ := middleware.GetPrincipal(c)
	list, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create persists a new secret owned by the caller's organization.
func (h *SecretsHandler) Create(c *gin.Context) {
	var req struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key and value are required"})
		return
	}
	p, _ := middleware.GetPrincipal(c)
	secret, err := h.svc.Create(c.Request.Context(), p, req.Key, req.Value)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, secret)
}

// renderError maps service errors to client-safe responses. Storage errors
// are logged but never forwarded verbatim.
func (h *SecretsHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, secrets.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, secrets.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Key and value are required"})
	default:
		logger.Errorf("secret store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
