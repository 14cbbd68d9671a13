package provider

import (
	"context"
	"fmt"

	"github.com/orgvault/orgvault/internal/config"
	"github.com/orgvault/orgvault/internal/models"
)

// Provider is an identity provider adapter: it builds the browser
// authorization URL and turns a callback code into a verified external
// identity.
type Provider interface {
	Name() string
	// AuthCodeURL returns the provider authorization URL. state is echoed
	// back by the provider at callback time.
	AuthCodeURL(state string) string
	// Exchange swaps the authorization code for a verified identity.
	Exchange(ctx context.Context, code string) (models.ExternalIdentity, error)
}

// New builds the configured provider adapter. Exactly one provider is active
// per deployment; the /auth/:provider path segment must match its name.
func New(ctx context.Context, cfg config.OAuthConfig) (Provider, error) {
	switch cfg.Provider {
	case "github", "":
		return NewGitHub(cfg), nil
	case "oidc":
		return NewOIDC(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Provider)
	}
}
