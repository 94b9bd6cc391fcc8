package user

import (
	"context"
	"fmt"
	"sync"

	"carehub/internal/auth/models"
	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested entity does not exist
// - Return ErrConflict when email or id number is already registered
// - Return wrapped errors with context for infrastructure failures
//
// InMemoryUserStore keeps users in memory for development and tests.
type InMemoryUserStore struct {
	mu         sync.RWMutex
	users      map[id.UserID]*models.User
	byEmail    map[string]id.UserID
	byIDNumber map[string]id.UserID
}

// New constructs an empty in-memory user store.
func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:      make(map[id.UserID]*models.User),
		byEmail:    make(map[string]id.UserID),
		byIDNumber: make(map[string]id.UserID),
	}
}

// Create inserts user. The uniqueness check and the insert happen under one
// lock so concurrent registrations of the same email cannot both succeed.
func (s *InMemoryUserStore) Create(_ context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user id already exists: %w", sentinel.ErrConflict)
	}
	if _, ok := s.byEmail[user.Email]; ok {
		return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
	}
	if _, ok := s.byIDNumber[user.IDNumber]; ok {
		return fmt.Errorf("id number already registered: %w", sentinel.ErrConflict)
	}

	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[user.Email] = user.ID
	s.byIDNumber[user.IDNumber] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if userID, ok := s.byEmail[email]; ok {
		u := *s.users[userID]
		return &u, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		u := *user
		return &u, nil
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

// Health always succeeds for the in-memory store.
func (s *InMemoryUserStore) Health(context.Context) error {
	return nil
}
