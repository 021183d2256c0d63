package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/clublink/usersync/internal/core/domain"
	"github.com/clublink/usersync/internal/core/ports"
	"github.com/clublink/usersync/internal/metrics"
)

// UserService implements the sandbox API's user use cases on top of a store.
type UserService struct {
	store  ports.UserStore
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(store ports.UserStore, logger zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger, now: time.Now}
}

// List returns all users in store order.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	found, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(found))
	for _, u := range found {
		out = append(out, *u)
	}
	return out, nil
}

// Create stores a new user built from draft. The role defaults to member.
func (s *UserService) Create(ctx context.Context, draft domain.Draft) (*domain.User, error) {
	draft = draft.WithDefaults()
	if !draft.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	ts := domain.FormatTimestamp(s.now())
	user := &domain.User{
		Email:     draft.Email,
		Role:      draft.Role,
		ClerkID:   draft.ClerkID,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.SandboxMutationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Str("id", created.ID).Str("role", string(created.Role)).Msg("user created")
	return created, nil
}

// Update overwrites email, role and clerk ID of the user identified by id.
func (s *UserService) Update(ctx context.Context, id string, draft domain.Draft) (*domain.User, error) {
	draft = draft.WithDefaults()
	if !draft.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.store.Update(ctx, id, draft, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	metrics.SandboxMutationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Str("id", id).Msg("user updated")
	return updated, nil
}

// Delete removes the user identified by id.
func (s *UserService) Delete(ctx context.Context, id string) (*domain.User, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete user %s: %w", id, err)
	}

	metrics.SandboxMutationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Str("id", id).Msg("user deleted")
	return removed, nil
}
