package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orgvault/orgvault/internal/models"
)

// principalKey is the gin context key holding the resolved models.Principal.
const principalKey = "principal"

// BridgeResolver resolves a CLI bridge token to the principal it was issued
// for. Satisfied by *bridge.Broker.
type BridgeResolver interface {
	Resolve(token string) (models.Principal, error)
}

// SessionResolver resolves a browser cookie token to a principal. Satisfied
// by an adapter over *websession.Service.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (models.Principal, error)
}

// Auth returns a Gin middleware that resolves the caller's principal from a
// Bearer bridge token or, failing that, the session cookie. Requests without
// a resolvable credential continue unauthenticated; RequirePrincipal guards
// the endpoints that need one. The response never says whether a presented
// token ever existed.
func Auth(bridge BridgeResolver, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth := c.GetHeader("Authorization"); auth != "" {
			var token string
			if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
				return
			}
			p, err := bridge.Resolve(token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			c.Set(principalKey, p)
			c.Next()
			return
		}

		if sessions != nil {
			if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
				p, err := sessions.Resolve(c.Request.Context(), cookie)
				if err == nil && p.Authenticated() {
					c.Set(principalKey, p)
				}
			}
		}
		c.Next()
	}
}

// sessionCookieName mirrors websession.CookieName; kept local to avoid the
// middleware importing the storage package.
const sessionCookieName = "orgvault_session"

// RequirePrincipal rejects requests that did not resolve to an authenticated
// principal with an organization scope.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok || !p.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal resolved by Auth, if any.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
