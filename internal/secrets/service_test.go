package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgvault/orgvault/internal/identity"
	"github.com/orgvault/orgvault/internal/models"
)

func newTestService(t *testing.T) (*Service, *identity.MemoryUserRepository, *identity.MemoryOrgRepository) {
	t.Helper()
	users := identity.NewMemoryUserRepository()
	orgs := identity.NewMemoryOrgRepository()
	return NewService(NewMemoryRepository(), users, orgs), users, orgs
}

func principal(orgID string) models.Principal {
	return models.Principal{UserID: "user_1", OrganizationID: orgID, Username: "alice"}
}

func TestCreateThenListSameOrg(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := principal("org_1")

	created, err := svc.Create(ctx, p, "DB_PASS", "s3cr3t")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "org_1", created.OrganizationID)
	assert.False(t, created.CreatedAt.IsZero())

	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "DB_PASS", list[0].Key)
	assert.Equal(t, "s3cr3t", list[0].Value)
}

func TestListScopedToOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, principal("org_1"), "A", "1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, principal("org_2"), "B", "2")
	require.NoError(t, err)

	list, err := svc.List(ctx, principal("org_1"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Key)

	// grants never widen visibility across organizations
	other, err := svc.List(ctx, principal("org_2"))
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "B", other[0].Key)
}

func TestDuplicateKeysPermitted(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := principal("org_1")

	_, err := svc.Create(ctx, p, "DB_PASS", "old")
	require.NoError(t, err)
	_, err = svc.Create(ctx, p, "DB_PASS", "new")
	require.NoError(t, err)

	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "old", list[0].Value)
	assert.Equal(t, "new", list[1].Value)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	p := principal("org_1")

	_, err := svc.Create(ctx, p, "", "value")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(ctx, p, "key", "")
	assert.ErrorIs(t, err, ErrValidation)

	// nothing was persisted
	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUnauthorizedWithoutOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	orgless := models.Principal{UserID: "user_1", Username: "alice"}

	_, err := svc.List(ctx, orgless)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Create(ctx, orgless, "k", "v")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGrantsStayInsideOrganization(t *testing.T) {
	svc, users, orgs := newTestService(t)
	ctx := context.Background()

	org, err := orgs.FindOrCreateByName(ctx, "DefaultOrg")
	require.NoError(t, err)
	other, err := orgs.FindOrCreateByName(ctx, "OtherOrg")
	require.NoError(t, err)

	member, err := users.UpsertByProviderID(ctx, &models.User{ProviderID: "42", Username: "alice", OrganizationID: org.ID})
	require.NoError(t, err)
	outsider, err := users.UpsertByProviderID(ctx, &models.User{ProviderID: "7", Username: "mallory", OrganizationID: other.ID})
	require.NoError(t, err)

	secret, err := svc.Create(ctx, models.Principal{UserID: member.ID, OrganizationID: org.ID, Username: "alice"}, "k", "v")
	require.NoError(t, err)

	require.NoError(t, svc.GrantUser(ctx, secret.ID, member.ID))
	assert.Error(t, svc.GrantUser(ctx, secret.ID, outsider.ID))

	team, err := orgs.CreateTeam(ctx, &models.Team{Name: "platform", OrganizationID: org.ID})
	require.NoError(t, err)
	foreign, err := orgs.CreateTeam(ctx, &models.Team{Name: "intruders", OrganizationID: other.ID})
	require.NoError(t, err)

	require.NoError(t, svc.GrantTeam(ctx, secret.ID, team.ID))
	assert.Error(t, svc.GrantTeam(ctx, secret.ID, foreign.ID))

	// grants do not filter the read path
	list, err := svc.List(ctx, models.Principal{UserID: "someone-else", OrganizationID: org.ID, Username: "bob"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{member.ID}, list[0].GrantedUserIDs)
	assert.Equal(t, []string{team.ID}, list[0].GrantedTeamIDs)
}

func TestGrantUnknownSecret(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.GrantUser(context.Background(), "missing", "user_1")
	assert.ErrorIs(t, err, ErrNotFound)
}
