package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgvault/orgvault/internal/models"
)

type fakeBridge struct {
	tokens map[string]models.Principal
}

func (f *fakeBridge) Resolve(token string) (models.Principal, error) {
	if p, ok := f.tokens[token]; ok {
		return p, nil
	}
	return models.Principal{}, errors.New("token not found or expired")
}

type fakeSessions struct {
	tokens map[string]models.Principal
}

func (f *fakeSessions) Resolve(ctx context.Context, token string) (models.Principal, error) {
	if p, ok := f.tokens[token]; ok {
		return p, nil
	}
	return models.Principal{}, errors.New("no session")
}

func authedRouter(bridge BridgeResolver, sessions SessionResolver) *gin.Engine {
	r := gin.New()
	r.Use(Auth(bridge, sessions))
	r.GET("/protected", RequirePrincipal(), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"username": p.Username})
	})
	return r
}

func TestAuth_BearerToken(t *testing.T) {
	alice := models.Principal{UserID: "u1", OrganizationID: "o1", Username: "alice"}
	r := authedRouter(&fakeBridge{tokens: map[string]models.Principal{"abc123": alice}}, nil)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAuth_InvalidBearerToken(t *testing.T) {
	r := authedRouter(&fakeBridge{}, nil)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	// the response must not reveal whether the token ever existed
	assert.NotContains(t, w.Body.String(), "nope")
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	r := authedRouter(&fakeBridge{}, nil)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_SessionCookieFallback(t *testing.T) {
	alice := models.Principal{UserID: "u1", OrganizationID: "o1", Username: "alice"}
	r := authedRouter(&fakeBridge{}, &fakeSessions{tokens: map[string]models.Principal{"cookie-token": alice}})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestRequirePrincipal_NoCredential(t *testing.T) {
	r := authedRouter(&fakeBridge{}, &fakeSessions{})

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePrincipal_OrglessPrincipalRejected(t *testing.T) {
	orgless := models.Principal{UserID: "u1", Username: "alice"}
	r := authedRouter(&fakeBridge{tokens: map[string]models.Principal{"t": orgless}}, nil)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer t")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
