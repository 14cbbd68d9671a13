package provider

import (
	"context"
	"fmt"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/orgvault/orgvault/internal/config"
	"github.com/orgvault/orgvault/internal/models"
)

// OIDC authenticates users against any OpenID Connect issuer. The identity is
// taken from the UserInfo endpoint instead of a provider-specific API.
type OIDC struct {
	oauth    *oauth2.Config
	provider *gooidc.Provider
}

func NewOIDC(ctx context.Context, cfg config.OAuthConfig) (*OIDC, error) {
	if cfg.Issuer == "" {
		return nil, fmt.Errorf("oidc provider requires OAUTH_ISSUER")
	}
	p, err := gooidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}
	return &OIDC{
		provider: p,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     p.Endpoint(),
			RedirectURL:  cfg.CallbackBase + "/auth/oidc/callback",
			Scopes:       []string{gooidc.ScopeOpenID, "profile"},
		},
	}, nil
}

func (o *OIDC) Name() string { return "oidc" }

func (o *OIDC) AuthCodeURL(state string) string {
	return o.oauth.AuthCodeURL(state)
}

func (o *OIDC) Exchange(ctx context.Context, code string) (models.ExternalIdentity, error) {
	token, err := o.oauth.Exchange(ctx, code)
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("oidc token exchange: %w", err)
	}

	info, err := o.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("oidc userinfo: %w", err)
	}
	var claims struct {
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
	}
	if err := info.Claims(&claims); err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("oidc claims: %w", err)
	}
	username := claims.PreferredUsername
	if username == "" {
		username = claims.Name
	}
	if info.Subject == "" {
		return models.ExternalIdentity{}, fmt.Errorf("oidc userinfo missing subject")
	}

	return models.ExternalIdentity{
		ProviderID:  info.Subject,
		Username:    username,
		AccessToken: token.AccessToken,
	}, nil
}
