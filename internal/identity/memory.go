package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orgvault/orgvault/internal/models"
)

// MemoryUserRepository is a simple in-memory UserRepository used for unit
// tests and local development without MongoDB.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	seq   int
	users map[string]*models.User // keyed by provider id
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

func (m *MemoryUserRepository) UpsertByProviderID(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := m.users[u.ProviderID]; ok {
		existing.Username = u.Username
		existing.AccessToken = u.AccessToken
		existing.UpdatedAt = now
		cp := *existing
		return &cp, nil
	}
	m.seq++
	created := *u
	created.ID = fmt.Sprintf("user_%d", m.seq)
	created.CreatedAt = now
	created.UpdatedAt = now
	m.users[u.ProviderID] = &created
	cp := created
	return &cp, nil
}

func (m *MemoryUserRepository) GetByProviderID(ctx context.Context, providerID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[providerID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// MemoryOrgRepository is the in-memory OrgRepository counterpart.
type MemoryOrgRepository struct {
	mu    sync.RWMutex
	seq   int
	orgs  map[string]*models.Organization // keyed by name
	teams map[string]*models.Team         // keyed by id
}

func NewMemoryOrgRepository() *MemoryOrgRepository {
	return &MemoryOrgRepository{
		orgs:  make(map[string]*models.Organization),
		teams: make(map[string]*models.Team),
	}
}

func (m *MemoryOrgRepository) FindOrCreateByName(ctx context.Context, name string) (*models.Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if org, ok := m.orgs[name]; ok {
		cp := *org
		return &cp, nil
	}
	m.seq++
	now := time.Now().UTC()
	org := &models.Organization{
		ID:        fmt.Sprintf("org_%d", m.seq),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.orgs[name] = org
	cp := *org
	return &cp, nil
}

func (m *MemoryOrgRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, org := range m.orgs {
		if org.ID == id {
			cp := *org
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryOrgRepository) CreateTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now().UTC()
	created := *team
	created.ID = fmt.Sprintf("team_%d", m.seq)
	created.CreatedAt = now
	created.UpdatedAt = now
	m.teams[created.ID] = &created
	cp := created
	return &cp, nil
}

func (m *MemoryOrgRepository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if team, ok := m.teams[id]; ok {
		cp := *team
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryOrgRepository) AddTeamMember(ctx context.Context, teamID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	team, ok := m.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	for _, id := range team.MemberIDs {
		if id == userID {
			return nil
		}
	}
	team.MemberIDs = append(team.MemberIDs, userID)
	team.UpdatedAt = time.Now().UTC()
	return nil
}
