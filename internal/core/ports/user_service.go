package ports

import (
	"context"

	"github.com/clublink/usersync/internal/core/domain"
)

// UserService implements the sandbox API's use cases.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, draft domain.Draft) (*domain.User, error)
	Update(ctx context.Context, id string, draft domain.Draft) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
