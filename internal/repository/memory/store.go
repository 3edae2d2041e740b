// Package memory is a process-local storage backend. It enforces the same
// uniqueness and optimistic-lock rules as the PostgreSQL backend.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/accountd/internal/model"
)

// Store holds users. Only copies ever leave it.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*model.User
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		users: make(map[uuid.UUID]*model.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) find(id uuid.UUID) *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil
	}
	return u.Clone()
}

func (s *Store) findBy(criteria model.Criteria) ([]*model.User, error) {
	for k := range criteria {
		if _, ok := fieldGetters[k]; !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrUnknownCriteria, k)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []*model.User{}
	for _, u := range s.users {
		if u.DeletedAt != nil || !matches(u, criteria) {
			continue
		}
		users = append(users, u.Clone())
	}

	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

var fieldGetters = map[string]func(*model.User) string{
	"id":        func(u *model.User) string { return u.ID.String() },
	"email":     func(u *model.User) string { return u.Email },
	"firstName": func(u *model.User) string { return u.FirstName },
	"lastName":  func(u *model.User) string { return u.LastName },
}

func matches(u *model.User, criteria model.Criteria) bool {
	for k, want := range criteria {
		if fieldGetters[k](u) != want {
			return false
		}
	}
	return true
}

// apply validates every op against the current state and then commits all
// of them, or none.
func (s *Store) apply(ops []op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	staged := make(map[uuid.UUID]*model.User, len(s.users))
	for id, u := range s.users {
		staged[id] = u
	}

	type result struct {
		user   *model.User
		stored *model.User
	}
	results := make([]result, 0, len(ops))

	for _, o := range ops {
		u := o.user
		switch {
		case o.kind == opPersist && u.IsNew():
			stored := u.Clone()
			stored.ID = uuid.New()
			stored.Version = 1
			stored.CreatedAt = now
			stored.UpdatedAt = now
			stored.DeletedAt = nil
			if stored.Roles == nil {
				stored.Roles = []string{}
			}
			if emailTaken(staged, stored) {
				return fmt.Errorf("failed to create user: %w", model.ErrDuplicateEmail)
			}
			staged[stored.ID] = stored
			results = append(results, result{user: u, stored: stored})

		case o.kind == opPersist:
			current, ok := staged[u.ID]
			if !ok || current.DeletedAt != nil || current.Version != u.Version {
				return fmt.Errorf("failed to update user: %w", model.ErrVersionConflict)
			}
			stored := u.Clone()
			stored.Version = current.Version + 1
			stored.CreatedAt = current.CreatedAt
			stored.UpdatedAt = now
			stored.DeletedAt = nil
			if stored.Roles == nil {
				stored.Roles = []string{}
			}
			if emailTaken(staged, stored) {
				return fmt.Errorf("failed to update user: %w", model.ErrDuplicateEmail)
			}
			staged[stored.ID] = stored
			results = append(results, result{user: u, stored: stored})

		case o.kind == opRemove && u.IsNew():
			continue

		case o.kind == opRemove:
			current, ok := staged[u.ID]
			if !ok || current.DeletedAt != nil || current.Version != u.Version {
				return fmt.Errorf("failed to delete user: %w", model.ErrVersionConflict)
			}
			stored := current.Clone()
			deletedAt := now
			stored.DeletedAt = &deletedAt
			stored.Version = current.Version + 1
			stored.UpdatedAt = now
			staged[stored.ID] = stored
			results = append(results, result{user: u, stored: stored})
		}
	}

	s.users = staged
	for _, r := range results {
		r.user.ID = r.stored.ID
		r.user.Roles = append([]string{}, r.stored.Roles...)
		r.user.Version = r.stored.Version
		r.user.CreatedAt = r.stored.CreatedAt
		r.user.UpdatedAt = r.stored.UpdatedAt
		r.user.DeletedAt = r.stored.DeletedAt
	}
	return nil
}

func emailTaken(users map[uuid.UUID]*model.User, candidate *model.User) bool {
	for id, u := range users {
		if id != candidate.ID && u.DeletedAt == nil && u.Email == candidate.Email {
			return true
		}
	}
	return false
}

// Len returns the number of live users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, u := range s.users {
		if u.DeletedAt == nil {
			n++
		}
	}
	return n
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}
