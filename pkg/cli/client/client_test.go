package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresServer(t *testing.T) {
	_, err := New()
	require.Error(t, err)

	_, err = New(WithServer(""))
	require.Error(t, err)
}

func TestResolveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/cli-token/abc123", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]string{
			"token":          "abc123",
			"userId":         "user_1",
			"username":       "alice",
			"organizationId": "org_1",
		})
	}))
	defer srv.Close()

	c, err := New(WithServer(srv.URL))
	require.NoError(t, err)

	id, err := c.ResolveToken(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.Equal(t, "org_1", id.OrganizationID)
}

func TestResolveTokenNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Token not found or expired"})
	}))
	defer srv.Close()

	c, err := New(WithServer(srv.URL))
	require.NoError(t, err)

	_, err = c.ResolveToken(context.Background(), "nope")
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, "Token not found or expired", httpErr.Message)
}

func TestSecretsUseBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]Secret{{ID: "s1", Key: "K", Value: "V"}})
		case http.MethodPost:
			var req map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "K", req["key"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Secret{ID: "s2", Key: req["key"], Value: req["value"]})
		}
	}))
	defer srv.Close()

	c, err := New(WithServer(srv.URL), WithToken("tok-1"))
	require.NoError(t, err)

	list, err := c.ListSecrets(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "K", list[0].Key)

	created, err := c.CreateSecret(context.Background(), "K", "V2")
	require.NoError(t, err)
	assert.Equal(t, "s2", created.ID)
}

func TestIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
	}))
	defer srv.Close()

	c, err := New(WithServer(srv.URL), WithToken("stale"))
	require.NoError(t, err)

	_, err = c.ListSecrets(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}
