package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	authmodels "carehub/internal/auth/models"
	"carehub/internal/medication/models"
	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
	psync "carehub/pkg/platform/sync"
)

// UserFinder resolves the owner of a medication. The user stores satisfy it.
type UserFinder interface {
	FindByID(ctx context.Context, userID id.UserID) (*authmodels.User, error)
}

type userMedications struct {
	items []*models.Medication
}

// Error Contract:
// - Update and Delete return ErrNotFound when the id is unknown or owned by another user
// - Create returns ErrNotFound when the owning user does not exist
//
// InMemoryStore keeps medications in memory, grouped by owner in insertion order.
// The index lock only guards the owner map; each owner's list is guarded by
// its shard of locks.
type InMemoryStore struct {
	index  sync.Mutex
	byUser map[id.UserID]*userMedications
	locks  *psync.ShardedRWMutex
	users  UserFinder
}

// New constructs an empty in-memory medication store. A nil users skips the
// owner check on Create.
func New(users UserFinder) *InMemoryStore {
	return &InMemoryStore{
		byUser: make(map[id.UserID]*userMedications),
		locks:  psync.NewShardedRWMutex(),
		users:  users,
	}
}

func (s *InMemoryStore) bucket(userID id.UserID, create bool) *userMedications {
	s.index.Lock()
	defer s.index.Unlock()
	b := s.byUser[userID]
	if b == nil && create {
		b = &userMedications{}
		s.byUser[userID] = b
	}
	return b
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]*models.Medication, error) {
	b := s.bucket(userID, false)
	if b == nil {
		return []*models.Medication{}, nil
	}
	key := userID.String()
	s.locks.RLock(key)
	defer s.locks.RUnlock(key)

	out := make([]*models.Medication, 0, len(b.items))
	for _, m := range b.items {
		out = append(out, m.Clone())
	}
	slices.SortStableFunc(out, func(a, b *models.Medication) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Create(ctx context.Context, med *models.Medication) error {
	if med == nil {
		return fmt.Errorf("medication is required")
	}
	if s.users != nil {
		if _, err := s.users.FindByID(ctx, med.UserID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return fmt.Errorf("owner not found: %w", sentinel.ErrNotFound)
			}
			return fmt.Errorf("resolve owner: %w", err)
		}
	}

	b := s.bucket(med.UserID, true)
	key := med.UserID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)
	for _, existing := range b.items {
		if existing.ID == med.ID {
			return fmt.Errorf("medication id already exists: %w", sentinel.ErrConflict)
		}
	}
	b.items = append(b.items, med.Clone())
	return nil
}

// Update replaces name, dosage, frequency and reminders. ID, owner and
// CreatedAt are kept from the stored record.
func (s *InMemoryStore) Update(_ context.Context, med *models.Medication) (*models.Medication, error) {
	if med == nil {
		return nil, fmt.Errorf("medication is required")
	}
	b := s.bucket(med.UserID, false)
	if b == nil {
		return nil, fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
	}
	key := med.UserID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	for _, existing := range b.items {
		if existing.ID != med.ID {
			continue
		}
		existing.Name = med.Name
		existing.Dosage = med.Dosage
		existing.Frequency = med.Frequency
		existing.Reminders = slices.Clone(med.Reminders)
		return existing.Clone(), nil
	}
	return nil, fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID, medID id.MedicationID) error {
	b := s.bucket(userID, false)
	if b == nil {
		return fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
	}
	key := userID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	idx := slices.IndexFunc(b.items, func(m *models.Medication) bool { return m.ID == medID })
	if idx < 0 {
		return fmt.Errorf("medication not found: %w", sentinel.ErrNotFound)
	}
	b.items = slices.Delete(b.items, idx, idx+1)
	return nil
}
