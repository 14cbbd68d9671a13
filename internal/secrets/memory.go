package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/orgvault/orgvault/internal/models"
)

// MemoryRepository is a simple in-memory Repository used for unit tests and
// local development without MongoDB. Insertion order is preserved so listing
// is deterministic.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int
	order []string
	store map[string]*models.Secret
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.Secret)}
}

func (m *MemoryRepository) Create(ctx context.Context, secret *models.Secret) (*models.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now().UTC()
	created := *secret
	created.ID = fmt.Sprintf("secret_%d", m.seq)
	created.CreatedAt = now
	created.UpdatedAt = now
	m.store[created.ID] = &created
	m.order = append(m.order, created.ID)
	cp := created
	return &cp, nil
}

func (m *MemoryRepository) ListByOrg(ctx context.Context, orgID string) ([]models.Secret, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Secret{}
	for _, id := range m.order {
		if s := m.store[id]; s.OrganizationID == orgID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Secret, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.store[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) AddUserGrant(ctx context.Context, secretID, userID string) error {
	return m.addGrant(secretID, userID, true)
}

func (m *MemoryRepository) AddTeamGrant(ctx context.Context, secretID, teamID string) error {
	return m.addGrant(secretID, teamID, false)
}

func (m *MemoryRepository) addGrant(secretID, value string, user bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[secretID]
	if !ok {
		return ErrNotFound
	}
	set := &s.GrantedTeamIDs
	if user {
		set = &s.GrantedUserIDs
	}
	for _, v := range *set {
		if v == value {
			return nil
		}
	}
	*set = append(*set, value)
	s.UpdatedAt = time.Now().UTC()
	return nil
}
