package ports

import (
	"context"
	"time"

	"github.com/clublink/usersync/internal/core/domain"
)

// UserStore defines persistence for the sandbox API.
type UserStore interface {
	// List returns every user in insertion order.
	List(ctx context.Context) ([]*domain.User, error)
	// Create stores user and returns it with its assigned ID. Returns
	// domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update overwrites the mutable fields of the user identified by id.
	Update(ctx context.Context, id string, draft domain.Draft, updatedAt time.Time) (*domain.User, error)
	// Delete removes the user and returns the removed record.
	Delete(ctx context.Context, id string) (*domain.User, error)
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
