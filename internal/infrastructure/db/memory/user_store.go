// Package memory provides a process-local ports.UserStore for the sandbox API.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clublink/usersync/internal/core/domain"
)

// UserStore keeps users in insertion order behind a mutex.
type UserStore struct {
	mu    sync.RWMutex
	users []*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{}
}

func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(user.Email, "") {
		return nil, domain.ErrUserExists
	}

	stored := *user
	stored.ID = uuid.NewString()
	s.users = append(s.users, &stored)

	clone := stored
	return &clone, nil
}

func (s *UserStore) Update(_ context.Context, id string, draft domain.Draft, updatedAt time.Time) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	if s.emailTakenLocked(draft.Email, id) {
		return nil, domain.ErrUserExists
	}

	u := s.users[i]
	u.Email = draft.Email
	u.Role = draft.Role
	u.ClerkID = draft.ClerkID
	u.UpdatedAt = domain.FormatTimestamp(updatedAt)

	clone := *u
	return &clone, nil
}

func (s *UserStore) Delete(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	removed := s.users[i]
	s.users = append(s.users[:i], s.users[i+1:]...)
	return removed, nil
}

// Ping always succeeds; the store lives in process memory.
func (s *UserStore) Ping(context.Context) error { return nil }

func (s *UserStore) indexLocked(id string) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// emailTakenLocked compares case-insensitively and ignores the user with exceptID.
func (s *UserStore) emailTakenLocked(email, exceptID string) bool {
	for _, u := range s.users {
		if u.ID != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
