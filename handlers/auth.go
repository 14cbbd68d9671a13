package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orgvault/orgvault/internal/bridge"
	"github.com/orgvault/orgvault/internal/config"
	"github.com/orgvault/orgvault/internal/identity"
	"github.com/orgvault/orgvault/internal/models"
	"github.com/orgvault/orgvault/internal/provider"
	"github.com/orgvault/orgvault/internal/websession"
	"github.com/orgvault/orgvault/pkg/logger"
	"github.com/orgvault/orgvault/pkg/metrics"
	"github.com/orgvault/orgvault/pkg/middleware"
)

// AuthHandler drives the login flows: the browser OAuth dance and the
// out-of-band CLI bridge on top of it.
type AuthHandler struct {
	cfg      *config.Config
	provider provider.Provider
	dir      *identity.Service
	broker   *bridge.Broker
	sessions *websession.Service
}

func NewAuthHandler(cfg *config.Config, p provider.Provider, dir *identity.Service, broker *bridge.Broker, sessions *websession.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: p, dir: dir, broker: broker, sessions: sessions}
}

// Register routes. Login endpoints are public; /dashboard relies on the
// session cookie resolved by the auth middleware.
func (h *AuthHandler) Register(r *gin.Engine) {
	r.GET("/", h.Landing)
	r.GET("/auth/:provider", h.Start)
	r.GET("/auth/:provider/callback", h.Callback)
	r.GET("/cli-token/:token", h.ResolveCLIToken)
	r.GET("/dashboard", h.Dashboard)
}

// Landing is a minimal login page.
func (h *AuthHandler) Landing(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<a href="/auth/%s">Login with %s</a>`, h.provider.Name(), h.provider.Name())
}

// Start begins the provider flow. ?cli=true flags the login as CLI-initiated;
// the flag travels in the signed state parameter so the callback can recover
// it without server-side state.
func (h *AuthHandler) Start(c *gin.Context) {
	if c.Param("provider") != h.provider.Name() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}
	isCLI := c.Query("cli") == "true"
	state, err := provider.SignState(h.cfg.Session.Secret, isCLI)
	if err != nil {
		logger.Errorf("failed to sign oauth state: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// Callback is the provider redirect target. It completes the exchange,
// resolves the local user and hands off to the CLI bridge or the browser
// session depending on how the login started.
func (h *AuthHandler) Callback(c *gin.Context) {
	if c.Param("provider") != h.provider.Name() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}
	isCLI, err := provider.ParseState(h.cfg.Session.Secret, c.Query("state"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired login state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ident, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Errorf("provider exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "authentication failed"})
		return
	}

	user, err := h.dir.ResolveExternal(c.Request.Context(), ident)
	if err != nil {
		logger.Errorf("user resolution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	principal := models.Principal{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Username:       user.Username,
	}

	if isCLI {
		token, err := h.broker.Issue(principal)
		if err != nil {
			logger.Errorf("bridge token issuance failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}
		metrics.Logins.WithLabelValues("cli").Inc()
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "CLI Login successful. Token: %s", token)
		return
	}

	cookie, err := h.sessions.Create(c.Request.Context(), principal, h.cfg.Session.TTL)
	if err != nil {
		logger.Errorf("session creation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}
	metrics.Logins.WithLabelValues("browser").Inc()
	secure := h.cfg.Server.Environment == "production"
	c.SetCookie(websession.CookieName, cookie, int(h.cfg.Session.TTL.Seconds()), "/", "", secure, true)
	c.Redirect(http.StatusFound, "/dashboard")
}

// ResolveCLIToken maps a pasted bridge token back to the identity it was
// issued for. Unknown and expired tokens are indistinguishable.
func (h *AuthHandler) ResolveCLIToken(c *gin.Context) {
	p, err := h.broker.Resolve(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":          c.Param("token"),
		"userId":         p.UserID,
		"username":       p.Username,
		"organizationId": p.OrganizationID,
	})
}

// Dashboard is a minimal signed-in view for browser sessions.
func (h *AuthHandler) Dashboard(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok || !p.Authenticated() {
		c.Redirect(http.StatusFound, fmt.Sprintf("/auth/%s", h.provider.Name()))
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, "<h2>Welcome %s</h2><p>Organization: %s</p><p>Signed in at %s</p>",
		p.Username, p.OrganizationID, time.Now().UTC().Format(time.RFC3339))
}
