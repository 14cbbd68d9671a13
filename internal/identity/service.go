package identity

import (
	"context"
	"fmt"

	"github.com/orgvault/orgvault/internal/models"
)

// Service resolves verified external identities into local users. Every user
// is created inside an organization; there is no org-less state, even
// transiently.
type Service struct {
	users      UserRepository
	orgs       OrgRepository
	defaultOrg string
}

func NewService(users UserRepository, orgs OrgRepository, defaultOrg string) *Service {
	if defaultOrg == "" {
		defaultOrg = "DefaultOrg"
	}
	return &Service{users: users, orgs: orgs, defaultOrg: defaultOrg}
}

// EnsureDefaultOrg makes the bootstrap organization exist. Called once at
// startup before the server accepts traffic; safe to call repeatedly.
func (s *Service) EnsureDefaultOrg(ctx context.Context) (*models.Organization, error) {
	org, err := s.orgs.FindOrCreateByName(ctx, s.defaultOrg)
	if err != nil {
		return nil, fmt.Errorf("ensure default organization: %w", err)
	}
	return org, nil
}

// ResolveExternal finds or creates the user for a verified external identity
// and returns it. The default organization is ensured first so the user is
// never persisted without one. The provider access token is refreshed on
// every login to keep the stored credential current.
func (s *Service) ResolveExternal(ctx context.Context, ext models.ExternalIdentity) (*models.User, error) {
	if ext.ProviderID == "" {
		return nil, fmt.Errorf("external identity has no provider id")
	}

	org, err := s.orgs.FindOrCreateByName(ctx, s.defaultOrg)
	if err != nil {
		return nil, fmt.Errorf("resolve organization: %w", err)
	}

	u := &models.User{
		ProviderID:     ext.ProviderID,
		Username:       ext.Username,
		AccessToken:    ext.AccessToken,
		OrganizationID: org.ID,
	}
	resolved, err := s.users.UpsertByProviderID(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return resolved, nil
}

// GetUser loads a user by local id. Returns nil when absent.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// CreateTeam creates an (optionally empty) team inside an organization.
func (s *Service) CreateTeam(ctx context.Context, orgID, name string) (*models.Team, error) {
	if orgID == "" || name == "" {
		return nil, fmt.Errorf("team requires an organization and a name")
	}
	return s.orgs.CreateTeam(ctx, &models.Team{Name: name, OrganizationID: orgID})
}

// AddTeamMember adds a user to a team. Members must belong to the team's own
// organization; cross-org membership is rejected.
func (s *Service) AddTeamMember(ctx context.Context, teamID, userID string) error {
	team, err := s.orgs.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return ErrNotFound
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.OrganizationID != team.OrganizationID {
		return fmt.Errorf("user %s is not in team organization", userID)
	}
	return s.orgs.AddTeamMember(ctx, teamID, userID)
}
