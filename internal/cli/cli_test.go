package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
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
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type sandbox struct {
	url string
	svc *service.UserService
}

func newSandbox(t *testing.T) sandbox {
	t.Helper()
	store := memory.NewUserStore()
	svc := service.NewUserService(store, zerolog.Nop())
	router := api.NewRouter(svc, store, api.Options{Registry: prometheus.NewRegistry(), Logger: zerolog.Nop()})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return sandbox{url: srv.URL + api.DefaultPath, svc: svc}
}

func (s sandbox) seed(t *testing.T, email, clerkID string) *domain.User {
	t.Helper()
	u, err := s.svc.Create(context.Background(), domain.Draft{Email: email, ClerkID: clerkID})
	require.NoError(t, err)
	return u
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

func TestHealth_Healthy(t *testing.T) {
	sb := newSandbox(t)

	out, err := run(t, "", "health", "--base-url", sb.url)
	require.NoError(t, err)
	assert.Contains(t, out, "API Healthy")
	assert.Contains(t, out, "Status: Connected")
}

func TestCreateThenList(t *testing.T) {
	sb := newSandbox(t)

	out, err := run(t, "", "create", "--base-url", sb.url, "--email", "a@x.com", "--clerk-id", "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "member")

	out, err = run(t, "", "list", "--base-url", sb.url)
	require.NoError(t, err)
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "c1")
}

func TestCreate_MissingClerkID(t *testing.T) {
	sb := newSandbox(t)

	_, err := run(t, "", "create", "--base-url", sb.url, "--email", "a@x.com")
	require.Error(t, err)
	assert.Equal(t, domain.MsgDraftIncomplete, err.Error())
}

func TestUpdate_KeepsUnsetFields(t *testing.T) {
	sb := newSandbox(t)
	u := sb.seed(t, "a@x.com", "c1")

	out, err := run(t, "", "update", "--base-url", sb.url, "--id", u.ID, "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "a@x.com")
	assert.Contains(t, out, "admin")
}

func TestUpdate_UnknownID(t *testing.T) {
	sb := newSandbox(t)

	_, err := run(t, "", "update", "--base-url", sb.url, "--id", "missing", "--role", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDelete_Declined(t *testing.T) {
	sb := newSandbox(t)
	u := sb.seed(t, "a@x.com", "c1")

	out, err := run(t, "n\n", "delete", "--base-url", sb.url, "--id", u.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")

	users, err := sb.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestDelete_Confirmed(t *testing.T) {
	sb := newSandbox(t)
	u := sb.seed(t, "a@x.com", "c1")

	out, err := run(t, "y\n", "delete", "--base-url", sb.url, "--id", u.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted user "+u.ID)

	users, err := sb.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDelete_YesSkipsPrompt(t *testing.T) {
	sb := newSandbox(t)
	u := sb.seed(t, "a@x.com", "c1")

	_, err := run(t, "", "delete", "--base-url", sb.url, "--id", u.ID, "--yes")
	require.NoError(t, err)

	users, err := sb.svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestRefresh_Unreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	base := srv.URL
	srv.Close()

	out, err := run(t, "", "refresh", "--base-url", base)
	require.Error(t, err)
	assert.Contains(t, out, "API Unhealthy")
	assert.Contains(t, out, "Status: Disconnected")
	assert.Contains(t, out, "Error: Network error:")
}

func TestList_PushesRunMetrics(t *testing.T) {
	sb := newSandbox(t)

	pushed := make(chan string, 1)
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		select {
		case pushed <- r.URL.Path + " " + string(raw):
		default:
		}
	}))
	t.Cleanup(gw.Close)

	_, err := run(t, "", "list", "--base-url", sb.url, "--pushgateway", gw.URL)
	require.NoError(t, err)

	select {
	case got := <-pushed:
		assert.True(t, strings.HasPrefix(got, "/metrics/job/usersync "), got)
		assert.Contains(t, got, "usersync_sync_operations_total")
	default:
		t.Fatal("expected metrics to be pushed after the run")
	}
}

// ---------------------------------------------------------------------------
// Confirmation prompt
// ---------------------------------------------------------------------------

func TestPromptConfirmer(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
		"yes":   true,
	}
	for input, want := range cases {
		var out bytes.Buffer
		confirm := promptConfirmer(strings.NewReader(input), &out)
		got := confirm(context.Background(), ports.PendingDelete{ID: "u1", Email: "a@x.com"})
		assert.Equal(t, want, got, "input %q", input)
		assert.Contains(t, out.String(), "a@x.com (u1)")
	}
}
