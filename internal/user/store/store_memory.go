package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"spearow/internal/user/models"
)

// MemoryStore keeps accounts in memory, for tests and development.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
	order   []uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	return cloneUser(s.byID[id]), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.User, 0, len(s.order))
	for _, id := range s.order {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, cloneUser(s.byID[id]))
	}
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return fmt.Errorf("user %q already exists", user.Email)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := cloneUser(user)
	s.byID[stored.ID] = stored
	s.byEmail[stored.Email] = stored.ID
	s.order = append(s.order, stored.ID)
	return nil
}

func (s *MemoryStore) SetUserType(_ context.Context, id uuid.UUID, userType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	user.UserType = userType
	return nil
}

func (s *MemoryStore) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("user %s not found", id)
	}
	user.Verified = verified
	return nil
}

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}
