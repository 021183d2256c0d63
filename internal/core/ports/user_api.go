package ports

import (
	"context"

	"github.com/clublink/usersync/internal/core/domain"
)

// UserAPI is the remote user-management contract the sync controller talks to.
//
// Transport failures (unreachable server, unparsable body) are returned as
// errors matching domain.ErrTransport. Application failures come back as an
// envelope with Success=false and a nil error.
type UserAPI interface {
	// Probe issues a bare GET against the base resource and returns the status code.
	Probe(ctx context.Context) (int, error)
	List(ctx context.Context) (domain.Envelope[[]domain.User], error)
	Create(ctx context.Context, draft domain.Draft) (domain.Envelope[domain.User], error)
	Update(ctx context.Context, id string, draft domain.Draft) (domain.Envelope[domain.User], error)
	Delete(ctx context.Context, id string) (domain.Envelope[domain.User], error)
}
