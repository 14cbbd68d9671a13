package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"github.com/orgvault/orgvault/internal/config"
	"github.com/orgvault/orgvault/internal/models"
)

// GitHub authenticates users through the GitHub OAuth web flow and reads the
// profile from the REST API.
type GitHub struct {
	oauth   *oauth2.Config
	apiBase string
	client  *http.Client
}

func NewGitHub(cfg config.OAuthConfig) *GitHub {
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     githuboauth.Endpoint,
			RedirectURL:  cfg.CallbackBase + "/auth/github/callback",
			Scopes:       []string{"user:email"},
		},
		apiBase: "https://api.github.com",
		client:  http.DefaultClient,
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for an access token and resolves the
// profile behind it.
func (g *GitHub) Exchange(ctx context.Context, code string) (models.ExternalIdentity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("github token exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+"/user", nil)
	if err != nil {
		return models.ExternalIdentity{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("github user fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return models.ExternalIdentity{}, fmt.Errorf("github user endpoint returned %d: %s", resp.StatusCode, string(b))
	}

	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("github user decode: %w", err)
	}
	if profile.ID == 0 {
		return models.ExternalIdentity{}, fmt.Errorf("github user response missing id")
	}

	return models.ExternalIdentity{
		ProviderID:  strconv.FormatInt(profile.ID, 10),
		Username:    profile.Login,
		AccessToken: token.AccessToken,
	}, nil
}
