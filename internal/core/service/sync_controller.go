package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/clublink/usersync/internal/core/domain"
	"github.com/clublink/usersync/internal/core/ports"
	"github.com/clublink/usersync/internal/metrics"
)

const (
	opCheckHealth = "check_health"
	opList        = "list"
	opCreate      = "create"
	opUpdate      = "update"
	opDelete      = "delete"
)

var draftValidator = validator.New()

// Snapshot is a point-in-time copy of the controller's state. It is safe to
// retain and read after the controller has moved on.
type Snapshot struct {
	Users      []domain.User
	Health     domain.HealthState
	Loading    bool
	Refreshing bool
	// Err is the single active error, nil when none is displayed.
	Err       *domain.SyncError
	Draft     domain.Draft
	EditingID string
	FormOpen  bool
}

// ErrorMessage returns the active error message or "" when there is none.
func (s Snapshot) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Message
}

// SyncController owns the local mirror of the server's user list and the API
// health flag. Every mutation of that state happens on the resolution path of
// one of its operations; the last resolved write wins.
type SyncController struct {
	api     ports.UserAPI
	confirm ports.Confirmer
	log     zerolog.Logger

	mu         sync.Mutex
	users      []domain.User
	health     domain.HealthState
	inFlight   int
	refreshing bool
	lastErr    *domain.SyncError
	draft      domain.Draft
	editingID  string
	formOpen   bool
	seq        uint64

	// notifyMu orders delivery; delivered is the newest seq handed out.
	notifyMu  sync.Mutex
	delivered uint64

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(Snapshot)
}

// NewSyncController returns a controller in its initial state: empty list,
// health "checking", no error. A nil confirm declines every delete.
func NewSyncController(api ports.UserAPI, confirm ports.Confirmer, log zerolog.Logger) *SyncController {
	if confirm == nil {
		confirm = ports.NeverConfirm
	}
	return &SyncController{
		api:     api,
		confirm: confirm,
		log:     log,
		users:   []domain.User{},
		health:  domain.HealthChecking,
		draft:   domain.NewDraft(),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (c *SyncController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after state changes and returns
// a func that removes the registration. Snapshots arrive one at a time in the
// order the changes were made; one superseded while an earlier delivery was
// running is skipped, so the last snapshot seen always matches Snapshot().
// Listeners must not call mutating methods synchronously.
func (c *SyncController) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// CheckHealth probes the base resource once and records the result. A healthy
// result clears the error slot.
func (c *SyncController) CheckHealth(ctx context.Context) error {
	c.mutate(func() { c.health = domain.HealthChecking })

	start := time.Now()
	code, err := c.api.Probe(ctx)

	var serr *domain.SyncError
	switch {
	case err != nil:
		serr = domain.TransportError(opCheckHealth, err)
	case code < 200 || code > 299:
		serr = domain.StatusError(opCheckHealth, code)
	}

	c.mutate(func() {
		if serr != nil {
			c.health = domain.HealthUnhealthy
			c.lastErr = serr
			metrics.APIHealthy.Set(0)
			return
		}
		c.health = domain.HealthHealthy
		c.lastErr = nil
		metrics.APIHealthy.Set(1)
	})

	return c.finish(opCheckHealth, start, serr)
}

// ListUsers fetches the full user list and replaces the local mirror with it.
// On failure the existing list is kept.
func (c *SyncController) ListUsers(ctx context.Context) error {
	c.begin()
	return c.listUsers(ctx)
}

// listUsers runs a list whose begin has already been taken.
func (c *SyncController) listUsers(ctx context.Context) error {
	start := time.Now()
	env, err := c.api.List(ctx)

	var serr *domain.SyncError
	switch {
	case err != nil:
		serr = domain.TransportError(opList, err)
	case env.Success && env.Data != nil:
	default:
		serr = domain.ApplicationError(opList, env.Error, domain.MsgFetchUsersFailed)
	}

	c.end(func() {
		if serr != nil {
			c.lastErr = serr
			return
		}
		c.users = cloneUsers(*env.Data)
	})
	return c.finish(opList, start, serr)
}

// CreateUser submits draft and appends the server's record to the local list.
// A draft missing email or clerk ID fails without a network call.
func (c *SyncController) CreateUser(ctx context.Context, draft domain.Draft) error {
	draft = draft.WithDefaults()
	if err := draftValidator.Struct(draft); err != nil {
		serr := domain.ValidationError(opCreate)
		c.mutate(func() { c.lastErr = serr })
		return c.finish(opCreate, time.Time{}, serr)
	}

	c.begin()

	start := time.Now()
	env, err := c.api.Create(ctx, draft)

	var serr *domain.SyncError
	switch {
	case err != nil:
		serr = domain.TransportError(opCreate, err)
	case env.Success && env.Data != nil:
	default:
		serr = domain.ApplicationError(opCreate, env.Error, domain.MsgCreateFailed)
	}

	c.end(func() {
		if serr != nil {
			c.lastErr = serr
			return
		}
		created := *env.Data
		c.users = append(removeUser(c.users, created.ID), created)
		c.resetFormLocked()
	})
	return c.finish(opCreate, start, serr)
}

// UpdateUser submits draft for the user being edited and replaces the matching
// entry in place. It does nothing unless id is the active editing session.
func (c *SyncController) UpdateUser(ctx context.Context, id string, draft domain.Draft) error {
	c.mu.Lock()
	editing := c.editingID
	c.mu.Unlock()
	if id == "" || editing != id {
		c.log.Debug().Str("id", id).Str("editing", editing).Msg("update ignored: no matching edit session")
		return domain.ErrNoEditSession
	}

	c.begin()

	start := time.Now()
	env, err := c.api.Update(ctx, id, draft.WithDefaults())

	var serr *domain.SyncError
	switch {
	case err != nil:
		serr = domain.TransportError(opUpdate, err)
	case env.Success && env.Data != nil:
	default:
		serr = domain.ApplicationError(opUpdate, env.Error, domain.MsgUpdateFailed)
	}

	c.end(func() {
		if serr != nil {
			c.lastErr = serr
			return
		}
		updated := *env.Data
		for i := range c.users {
			if c.users[i].ID == id {
				c.users[i] = updated
			}
		}
		c.resetFormLocked()
	})
	return c.finish(opUpdate, start, serr)
}

// DeleteUser asks the confirmer for permission and, if granted, deletes the
// user remotely and drops it from the local list. A declined confirmation
// makes no call and changes nothing.
func (c *SyncController) DeleteUser(ctx context.Context, id string) error {
	pending := ports.PendingDelete{ID: id}
	c.mu.Lock()
	for _, u := range c.users {
		if u.ID == id {
			pending.Email = u.Email
			break
		}
	}
	c.mu.Unlock()

	if !c.confirm(ctx, pending) {
		metrics.SyncOperationsTotal.WithLabelValues(opDelete, "declined").Inc()
		c.log.Debug().Str("id", id).Msg("delete declined")
		return nil
	}

	c.begin()

	start := time.Now()
	env, err := c.api.Delete(ctx, id)

	var serr *domain.SyncError
	switch {
	case err != nil:
		serr = domain.TransportError(opDelete, err)
	case env.Success:
	default:
		serr = domain.ApplicationError(opDelete, env.Error, domain.MsgDeleteFailed)
	}

	c.end(func() {
		if serr != nil {
			c.lastErr = serr
			return
		}
		c.users = removeUser(c.users, id)
	})
	return c.finish(opDelete, start, serr)
}

// RefreshAll runs CheckHealth and ListUsers concurrently and returns once both
// have settled. A failure in one does not cancel the other.
func (c *SyncController) RefreshAll(ctx context.Context) error {
	c.mutate(func() { c.refreshing = true })
	defer c.mutate(func() { c.refreshing = false })

	// The list's clear must precede any health result.
	c.begin()

	var healthErr, listErr error
	var g errgroup.Group
	g.Go(func() error {
		healthErr = c.CheckHealth(ctx)
		return nil
	})
	g.Go(func() error {
		listErr = c.listUsers(ctx)
		return nil
	})
	_ = g.Wait()

	return errors.Join(healthErr, listErr)
}

// ── Form session ─────────────────────────────────────────────────────────────

// OpenCreate opens the form in create mode.
func (c *SyncController) OpenCreate() {
	c.mutate(func() {
		c.editingID = ""
		c.formOpen = true
	})
}

// BeginEdit opens the form populated from u and starts an editing session
// keyed by its ID.
func (c *SyncController) BeginEdit(u domain.User) {
	c.mutate(func() {
		c.draft = domain.DraftFrom(u)
		c.editingID = u.ID
		c.formOpen = true
	})
}

// CancelEdit closes the form and resets the draft and editing session.
func (c *SyncController) CancelEdit() {
	c.mutate(c.resetFormLocked)
}

// SetDraft replaces the form values.
func (c *SyncController) SetDraft(d domain.Draft) {
	c.mutate(func() { c.draft = d })
}

// Submit sends the current draft: an update when an edit session is active,
// a create otherwise.
func (c *SyncController) Submit(ctx context.Context) error {
	c.mu.Lock()
	draft, editing := c.draft, c.editingID
	c.mu.Unlock()

	if editing != "" {
		return c.UpdateUser(ctx, editing, draft)
	}
	return c.CreateUser(ctx, draft)
}

// ── internals ────────────────────────────────────────────────────────────────

// begin marks a list-mutating operation as outstanding and clears the error slot.
func (c *SyncController) begin() {
	c.mutate(func() {
		c.inFlight++
		c.lastErr = nil
	})
}

// end applies fn and releases the loading marker taken by begin.
func (c *SyncController) end(fn func()) {
	c.mutate(func() {
		fn()
		c.inFlight--
	})
}

func (c *SyncController) mutate(fn func()) {
	c.mu.Lock()
	fn()
	c.seq++
	seq := c.seq
	snap := c.snapshotLocked()
	metrics.CachedUsers.Set(float64(len(c.users)))
	c.mu.Unlock()

	c.notify(seq, snap)
}

func (c *SyncController) notify(seq uint64, snap Snapshot) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if seq <= c.delivered {
		return
	}
	c.delivered = seq

	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (c *SyncController) snapshotLocked() Snapshot {
	return Snapshot{
		Users:      cloneUsers(c.users),
		Health:     c.health,
		Loading:    c.inFlight > 0,
		Refreshing: c.refreshing,
		Err:        c.lastErr,
		Draft:      c.draft,
		EditingID:  c.editingID,
		FormOpen:   c.formOpen,
	}
}

func (c *SyncController) resetFormLocked() {
	c.draft = domain.NewDraft()
	c.editingID = ""
	c.formOpen = false
}

// finish records metrics and logs the outcome. It returns nil for a nil serr
// so callers never see a typed-nil error.
func (c *SyncController) finish(op string, start time.Time, serr *domain.SyncError) error {
	if !start.IsZero() {
		metrics.SyncOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
	if serr == nil {
		metrics.SyncOperationsTotal.WithLabelValues(op, "ok").Inc()
		c.log.Debug().Str("operation", op).Msg("sync operation succeeded")
		return nil
	}

	metrics.SyncOperationsTotal.WithLabelValues(op, string(serr.Kind)).Inc()
	c.log.Warn().
		Str("operation", op).
		Str("kind", string(serr.Kind)).
		AnErr("cause", serr.Err).
		Msg(serr.Message)
	return serr
}

func cloneUsers(in []domain.User) []domain.User {
	out := make([]domain.User, len(in))
	copy(out, in)
	return out
}

func removeUser(users []domain.User, id string) []domain.User {
	out := users[:0:0]
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}
