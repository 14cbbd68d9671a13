package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgvault/orgvault/internal/models"
)

var (
	// ErrUnauthorized is returned when the principal carries no organization
	// scope (or no principal is present at all).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation is returned when a required field is missing.
	ErrValidation = errors.New("key and value are required")
	// ErrNotFound is returned when a secret, or a grant target, is unknown.
	ErrNotFound = errors.New("secret not found")
)

// Service exposes the org-scoped secret store. Visibility is scoped at the
// organization level: every member of the owning organization sees every one
// of its secrets. The per-user/per-team grant sets are maintained by the
// Grant* operations but deliberately not consulted when listing.
type Service struct {
	repo  Repository
	users UserLookup
	teams TeamLookup
}

// UserLookup is the slice of the identity directory the grant operations
// need. Returns nil when the user does not exist.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// TeamLookup resolves teams for grant validation. Returns nil when absent.
type TeamLookup interface {
	GetTeam(ctx context.Context, id string) (*models.Team, error)
}

func NewService(repo Repository, users UserLookup, teams TeamLookup) *Service {
	return &Service{repo: repo, users: users, teams: teams}
}

// List returns all secrets owned by the principal's organization, oldest
// first. Grant sets do not narrow the result.
func (s *Service) List(ctx context.Context, p models.Principal) ([]models.Secret, error) {
	if p.OrganizationID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByOrg(ctx, p.OrganizationID)
}

// Create persists a new secret owned by the principal's organization. Keys
// are not unique within an organization; creating the same key twice yields
// two records.
func (s *Service) Create(ctx context.Context, p models.Principal, key, value string) (*models.Secret, error) {
	if p.OrganizationID == "" {
		return nil, ErrUnauthorized
	}
	if key == "" || value == "" {
		return nil, ErrValidation
	}
	secret := &models.Secret{
		Key:            key,
		Value:          value,
		OrganizationID: p.OrganizationID,
	}
	return s.repo.Create(ctx, secret)
}

// GrantUser records that a user may see a secret. The user must belong to
// the secret's organization.
func (s *Service) GrantUser(ctx context.Context, secretID, userID string) error {
	secret, err := s.repo.GetByID(ctx, secretID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrNotFound
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("grant user: %w", ErrNotFound)
	}
	if u.OrganizationID != secret.OrganizationID {
		return fmt.Errorf("user %s is outside the secret's organization", userID)
	}
	return s.repo.AddUserGrant(ctx, secretID, userID)
}

// GrantTeam records that a team may see a secret. The team must belong to
// the secret's organization.
func (s *Service) GrantTeam(ctx context.Context, secretID, teamID string) error {
	secret, err := s.repo.GetByID(ctx, secretID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrNotFound
	}
	team, err := s.teams.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return fmt.Errorf("grant team: %w", ErrNotFound)
	}
	if team.OrganizationID != secret.OrganizationID {
		return fmt.Errorf("team %s is outside the secret's organization", teamID)
	}
	return s.repo.AddTeamGrant(ctx, secretID, teamID)
}
