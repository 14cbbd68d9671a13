package identity

import (
	"context"
	"testing"

	"github.com/orgvault/orgvault/internal/models"
)

func newTestService() *Service {
	return NewService(NewMemoryUserRepository(), NewMemoryOrgRepository(), "DefaultOrg")
}

func TestResolveExternalCreatesUserWithOrg(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, err := svc.ResolveExternal(ctx, models.ExternalIdentity{
		ProviderID:  "42",
		Username:    "alice",
		AccessToken: "gho_abc",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.ID == "" {
		t.Fatal("expected user to have an id assigned by the repository")
	}
	if u.OrganizationID == "" {
		t.Fatal("user created without an organization")
	}
	if u.Username != "alice" {
		t.Fatalf("unexpected username: %s", u.Username)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set: created=%v updated=%v", u.CreatedAt, u.UpdatedAt)
	}
}

func TestResolveExternalIsIdempotentPerProviderID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.ResolveExternal(ctx, models.ExternalIdentity{ProviderID: "42", Username: "alice", AccessToken: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.ResolveExternal(ctx, models.ExternalIdentity{ProviderID: "42", Username: "alice", AccessToken: "t2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("duplicate user created for one provider id: %s vs %s", first.ID, second.ID)
	}
	if second.AccessToken != "t2" {
		t.Fatalf("expected provider credential to be refreshed, got %q", second.AccessToken)
	}
	if first.OrganizationID != second.OrganizationID {
		t.Fatalf("organization changed across logins: %s vs %s", first.OrganizationID, second.OrganizationID)
	}
}

func TestResolveExternalUserIsFindableByProviderID(t *testing.T) {
	users := NewMemoryUserRepository()
	svc := NewService(users, NewMemoryOrgRepository(), "DefaultOrg")
	ctx := context.Background()

	created, err := svc.ResolveExternal(ctx, models.ExternalIdentity{ProviderID: "42", Username: "alice", AccessToken: "t1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found, err := users.GetByProviderID(ctx, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Fatalf("expected upserted user under provider id 42, got %+v", found)
	}

	missing, err := users.GetByProviderID(ctx, "999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown provider id, got %+v", missing)
	}
}

func TestResolveExternalRejectsEmptyProviderID(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ResolveExternal(context.Background(), models.ExternalIdentity{Username: "ghost"}); err == nil {
		t.Fatal("expected error for empty provider id")
	}
}

func TestEnsureDefaultOrgIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	first, err := svc.EnsureDefaultOrg(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.EnsureDefaultOrg(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("default org duplicated: %s vs %s", first.ID, second.ID)
	}
	if first.Name != "DefaultOrg" {
		t.Fatalf("unexpected default org name: %s", first.Name)
	}
}

func TestAddTeamMemberSameOrgOnly(t *testing.T) {
	users := NewMemoryUserRepository()
	orgs := NewMemoryOrgRepository()
	svc := NewService(users, orgs, "DefaultOrg")
	ctx := context.Background()

	u, err := svc.ResolveExternal(ctx, models.ExternalIdentity{ProviderID: "42", Username: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	team, err := svc.CreateTeam(ctx, u.OrganizationID, "platform")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddTeamMember(ctx, team.ID, u.ID); err != nil {
		t.Fatalf("expected same-org membership to succeed: %v", err)
	}

	// a user from another org must be rejected
	other, err := orgs.FindOrCreateByName(ctx, "OtherOrg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	outsider, err := users.UpsertByProviderID(ctx, &models.User{ProviderID: "7", Username: "mallory", OrganizationID: other.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddTeamMember(ctx, team.ID, outsider.ID); err == nil {
		t.Fatal("expected cross-org membership to be rejected")
	}
}
