package client_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clublink/usersync/internal/api"
	"github.com/clublink/usersync/internal/core/domain"
	"github.com/clublink/usersync/internal/core/ports"
	"github.com/clublink/usersync/internal/core/service"
	"github.com/clublink/usersync/internal/infrastructure/db/memory"
	"github.com/clublink/usersync/internal/infrastructure/http/client"
)

func newSandbox(t *testing.T) string {
	t.Helper()
	store := memory.NewUserStore()
	svc := service.NewUserService(store, zerolog.Nop())
	router := api.NewRouter(svc, store, api.Options{Registry: prometheus.NewRegistry(), Logger: zerolog.Nop()})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL + api.DefaultPath
}

func TestSyncAgainstSandbox(t *testing.T) {
	ctx := context.Background()
	apiClient := client.New(newSandbox(t), zerolog.Nop())
	c := service.NewSyncController(apiClient, ports.AlwaysConfirm, zerolog.Nop())

	require.NoError(t, c.RefreshAll(ctx))
	snap := c.Snapshot()
	assert.Equal(t, domain.HealthHealthy, snap.Health)
	assert.Empty(t, snap.Users)

	require.NoError(t, c.CreateUser(ctx, domain.Draft{Email: "a@x.com", ClerkID: "c1"}))
	require.NoError(t, c.CreateUser(ctx, domain.Draft{Email: "b@x.com", ClerkID: "c2", Role: domain.RoleOwner}))
	snap = c.Snapshot()
	require.Len(t, snap.Users, 2)
	assert.Equal(t, "a@x.com", snap.Users[0].Email)
	assert.Equal(t, domain.RoleMember, snap.Users[0].Role)

	// Duplicate email is rejected by the server with its own message.
	c.BeginEdit(snap.Users[1])
	c.SetDraft(domain.Draft{Email: "a@x.com", ClerkID: "c2", Role: domain.RoleOwner})
	require.Error(t, c.Submit(ctx))
	assert.Equal(t, "duplicate email", c.Snapshot().ErrorMessage())
	assert.Equal(t, snap.Users, c.Snapshot().Users)

	c.SetDraft(domain.Draft{Email: "b2@x.com", ClerkID: "c2", Role: domain.RoleAdmin})
	require.NoError(t, c.Submit(ctx))
	snap = c.Snapshot()
	assert.Equal(t, "b2@x.com", snap.Users[1].Email)
	assert.Empty(t, snap.ErrorMessage())

	require.NoError(t, c.DeleteUser(ctx, snap.Users[0].ID))
	require.NoError(t, c.ListUsers(ctx))
	snap = c.Snapshot()
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "b2@x.com", snap.Users[0].Email)
}

func TestSyncAgainstUnreachableAPI(t *testing.T) {
	srv := httptest.NewServer(nil)
	base := srv.URL
	srv.Close()

	c := service.NewSyncController(client.New(base, zerolog.Nop()), nil, zerolog.Nop())
	err := c.RefreshAll(context.Background())
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, domain.HealthUnhealthy, snap.Health)
	assert.True(t, strings.HasPrefix(snap.ErrorMessage(), "Network error:"), snap.ErrorMessage())
	assert.False(t, snap.Loading)
}
