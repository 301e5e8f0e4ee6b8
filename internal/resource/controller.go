package resource

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/log"
	"github.com/pittsix/cmsctl/internal/session"
)

// LoadState tracks the collection fetch lifecycle.
type LoadState int

const (
	// LoadIdle means no fetch has been issued yet.
	LoadIdle LoadState = iota
	// Loading means a fetch is in flight.
	Loading
	// Loaded means the cache reflects the last successful fetch.
	Loaded
	// LoadFailed means the last fetch failed; the previous cache is
	// kept (stale-but-available over empty-on-error).
	LoadFailed
)

// DeletePhase tracks a delete interaction.
type DeletePhase int

const (
	// DeleteConfirming means the confirmation prompt is open.
	DeleteConfirming DeletePhase = iota
	// DeleteInFlight means the DELETE request was dispatched.
	DeleteInFlight
)

// DeleteConfirmation exists only for the duration of one delete
// interaction.
type DeleteConfirmation struct {
	TargetID    string
	TargetLabel string
	Phase       DeletePhase
}

// Controller mediates between UI actions and the backend for one
// resource type, holding the local collection cache. The cache reflects
// the last successful fetch plus locally-confirmed mutations; it never
// tracks other clients' concurrent writes (no push channel exists).
//
// Concurrent List calls are not deduplicated: the last response to
// arrive wins the cache. Known limitation, acceptable for
// single-operator usage.
type Controller[T any] struct {
	client   *api.Client
	sessions *session.Store
	desc     Descriptor[T]
	logger   *log.Logger

	mu         sync.Mutex
	items      []T
	loadState  LoadState
	loadErr    error
	form       *Form[T]
	confirm    *DeleteConfirmation
	submitting bool
}

// NewController creates a controller for one resource type. The session
// store may be nil for types without author stamping.
func NewController[T any](client *api.Client, sessions *session.Store, desc Descriptor[T], logger *log.Logger) *Controller[T] {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Controller[T]{
		client:   client,
		sessions: sessions,
		desc:     desc,
		logger:   logger.With("resource", desc.Kind),
	}
}

// List fetches the whole collection and replaces the cache wholesale on
// success. On failure the previous cache is kept and the error is
// recorded and returned.
func (c *Controller[T]) List(ctx context.Context) error {
	return c.list(ctx, c.desc.CollectionPath)
}

// ListMine fetches the listing scoped to the current session's author
// when the backend offers one for this type.
func (c *Controller[T]) ListMine(ctx context.Context) error {
	if c.desc.ScopedPath == "" {
		return errors.New(errors.ErrCodeResourceNotFound, c.desc.Kind+" has no scoped listing")
	}
	return c.list(ctx, c.desc.ScopedPath)
}

func (c *Controller[T]) list(ctx context.Context, path string) error {
	c.mu.Lock()
	c.loadState = Loading
	c.mu.Unlock()

	var raw []json.RawMessage
	err := c.client.Get(ctx, path, &raw)
	if err == nil {
		var items []T
		items, err = c.desc.decodeList(raw)
		if err == nil {
			c.mu.Lock()
			c.items = items
			c.loadState = Loaded
			c.loadErr = nil
			c.mu.Unlock()
			c.logger.Debug("collection loaded", "count", len(items))
			return nil
		}
	}

	c.mu.Lock()
	c.loadState = LoadFailed
	c.loadErr = err
	c.mu.Unlock()
	c.logger.WithError(err).Warn("collection fetch failed, keeping stale cache")
	return err
}

// Items returns a copy of the cached collection in server order.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// LoadState returns the collection fetch state.
func (c *Controller[T]) LoadState() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadState
}

// LoadError returns the error recorded by the last failed fetch.
func (c *Controller[T]) LoadError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// Get returns the cached entry with the given id.
func (c *Controller[T]) Get(id string) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexLocked(id); i >= 0 {
		return c.items[i], nil
	}
	var zero T
	return zero, errors.NewResourceNotFoundError(c.desc.Kind, id)
}

// BeginCreate opens an empty form for a new resource.
func (c *Controller[T]) BeginCreate() *Form[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = &Form[T]{}
	return c.form
}

// BeginEdit opens a form seeded from the cached entry with the given
// id. It fails when the id is not in the cache: a form must never be
// built from a stale or partial entry.
func (c *Controller[T]) BeginEdit(id string) (*Form[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return nil, errors.NewResourceNotFoundError(c.desc.Kind, id)
	}

	c.form = &Form[T]{Draft: c.items[i], editing: true}
	return c.form, nil
}

// Form returns the open form, nil when none.
func (c *Controller[T]) Form() *Form[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// CancelForm discards the pending form unconditionally.
func (c *Controller[T]) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = nil
}

// Validate runs the type's local field checks. Deterministic and
// side-effect-free; never touches the network.
func (c *Controller[T]) Validate(draft T) ValidationErrors {
	return c.desc.Validate(draft)
}

// Submit validates the open form and, when clean, issues the create
// (POST) or update (PUT). Validation failures abort before any network
// call and leave the form open, as do server rejections. On success the
// result is merged into the cache and the form closes.
func (c *Controller[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	c.mu.Lock()
	if c.form == nil {
		c.mu.Unlock()
		return zero, errors.New(errors.ErrCodeResourceRejected, "no form is open")
	}
	if c.submitting {
		c.mu.Unlock()
		return zero, errors.New(errors.ErrCodeResourceRejected, "a submit is already in flight")
	}

	if errs := c.desc.Validate(c.form.Draft); len(errs) > 0 {
		c.form.Errors = errs
		c.mu.Unlock()
		return zero, errs
	}
	c.form.Errors = nil

	draft := c.form.Draft
	editing := c.form.editing
	c.submitting = true
	c.mu.Unlock()

	// Author stamping happens now, at submit time, from the session's
	// current profile. Stamping at form-open time would go stale if the
	// session changed mid-edit.
	if c.desc.StampAuthor != nil && c.sessions != nil {
		if sess := c.sessions.Current(); sess.User != nil {
			c.desc.StampAuthor(&draft, sess.User)
		}
	}

	var data json.RawMessage
	var err error
	if editing {
		err = c.client.Put(ctx, c.desc.itemPath(c.desc.ID(draft)), c.desc.Payload(draft), &data)
	} else {
		err = c.client.Post(ctx, c.desc.CollectionPath, c.desc.Payload(draft), &data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		c.logger.WithError(err).Warn("submit rejected, form stays open")
		return zero, err
	}

	// Prefer the server's returned representation; synthesize from the
	// draft when the response body is empty or not a resource.
	result := draft
	if len(data) > 0 {
		if decoded, derr := c.desc.Decode(data); derr == nil && c.desc.ID(decoded) != "" {
			result = decoded
		}
	}

	c.mergeLocked(result)
	c.form = nil
	c.logger.Info("submit succeeded", "id", c.desc.ID(result))
	return result, nil
}

// RequestDelete opens a confirmation for the cached entry with the
// given id. It does not touch the server.
func (c *Controller[T]) RequestDelete(id string) (*DeleteConfirmation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i < 0 {
		return nil, errors.NewResourceNotFoundError(c.desc.Kind, id)
	}

	c.confirm = &DeleteConfirmation{
		TargetID:    id,
		TargetLabel: c.desc.Label(c.items[i]),
		Phase:       DeleteConfirming,
	}
	return c.confirm, nil
}

// ConfirmDelete issues the DELETE for the confirmed target. On success
// the entry leaves the cache and the confirmation closes; on failure
// the entry is untouched, the confirmation returns to Confirming, and
// the error is surfaced. A failed delete is never silently dropped.
func (c *Controller[T]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.confirm == nil {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeResourceRejected, "no delete is pending")
	}
	if c.confirm.Phase == DeleteInFlight {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeResourceRejected, "delete already in flight")
	}
	c.confirm.Phase = DeleteInFlight
	id := c.confirm.TargetID
	c.mu.Unlock()

	err := c.client.Delete(ctx, c.desc.itemPath(id))

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if c.confirm != nil {
			c.confirm.Phase = DeleteConfirming
		}
		c.logger.WithError(err).Warn("delete failed", "id", id)
		return err
	}

	if i := c.indexLocked(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
	c.confirm = nil
	c.logger.Info("deleted", "id", id)
	return nil
}

// CancelDelete discards the pending confirmation unconditionally.
func (c *Controller[T]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirm = nil
}

// Confirmation returns the pending delete confirmation, nil when none.
func (c *Controller[T]) Confirmation() *DeleteConfirmation {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirm == nil {
		return nil
	}
	copied := *c.confirm
	return &copied
}

// mergeLocked replaces the cache entry with a matching id, else
// appends.
func (c *Controller[T]) mergeLocked(item T) {
	if i := c.indexLocked(c.desc.ID(item)); i >= 0 {
		c.items[i] = item
		return
	}
	c.items = append(c.items, item)
}

func (c *Controller[T]) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range c.items {
		if c.desc.ID(item) == id {
			return i
		}
	}
	return -1
}
