// Package recents drives infinite-scroll consumption of the recent-files API
// and shapes the result into month-grouped sections.
package recents

import (
	"context"
	"errors"
	"sync"

	"github.com/printmate/printmate/internal/model"
)

var (
	ErrNoIdentity = errors.New("recents: identity required")
	ErrClosed     = errors.New("recents: controller closed")
	// ErrDiscarded is returned when a fetch completed after the identity changed
	// or the controller was closed; its result was dropped.
	ErrDiscarded = errors.New("recents: stale result discarded")
)

// Fetcher loads one page of a user's recent files.
type Fetcher interface {
	RecentFiles(ctx context.Context, userID, cursor string, limit int) (*model.Page, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoadingInitial
	StatusReady
	StatusLoadingMore
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoadingInitial:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusLoadingMore:
		return "loading-more"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// State is a point-in-time copy of the controller.
type State struct {
	Status   Status
	Identity *model.Identity
	Files    []*model.File
	Cursor   string
	HasMore  bool
	Total    int
	Err      error
}

func (s State) LoadingInitial() bool { return s.Status == StatusLoadingInitial }
func (s State) LoadingMore() bool    { return s.Status == StatusLoadingMore }

// Controller accumulates pages for one identity at a time.
// At most one fetch is in flight; results that arrive after an identity change
// or Close are discarded.
type Controller struct {
	fetcher  Fetcher
	pageSize int

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

type Option func(*Controller)

// WithPageSize sets the limit sent with every request. Zero lets the server decide.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		c.pageSize = n
	}
}

func NewController(fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{fetcher: fetcher, pageSize: 20}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount loads the first page for identity. Mounting the identity that is already
// mounted is a no-op; a different identity resets the accumulated list first.
func (c *Controller) Mount(ctx context.Context, identity *model.Identity) error {
	if identity == nil || identity.ID == "" {
		return ErrNoIdentity
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	cur := c.state.Identity
	if cur != nil && cur.ID == identity.ID && c.state.Status != StatusIdle && c.state.Status != StatusFailed {
		c.mu.Unlock()
		return nil
	}

	c.resetLocked()
	c.state.Identity = identity
	c.state.Status = StatusLoadingInitial
	gen, fetchCtx, cancel := c.beginLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	page, err := c.fetcher.RecentFiles(fetchCtx, identity.ID, "", c.pageSize)
	return c.finish(gen, page, err)
}

// Retry repeats the initial load after a failure.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	identity := c.state.Identity
	failed := c.state.Status == StatusFailed
	c.mu.Unlock()

	if !failed || identity == nil {
		return nil
	}
	return c.Mount(ctx, identity)
}

// SentinelVisible is the trailing-element visibility signal. It loads the next
// page when more exist and nothing is in flight; otherwise it is ignored and
// returns false.
func (c *Controller) SentinelVisible(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.closed || c.state.Status != StatusReady || !c.state.HasMore || c.state.Identity == nil {
		c.mu.Unlock()
		return false, nil
	}

	c.state.Status = StatusLoadingMore
	userID := c.state.Identity.ID
	cursor := c.state.Cursor
	gen, fetchCtx, cancel := c.beginLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	page, err := c.fetcher.RecentFiles(fetchCtx, userID, cursor, c.pageSize)
	return true, c.finish(gen, page, err)
}

// Close cancels any in-flight fetch and drops all state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.closed = true
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Files = append([]*model.File(nil), c.state.Files...)
	return s
}

// resetLocked invalidates the in-flight fetch and returns to Idle.
func (c *Controller) resetLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.state = State{Status: StatusIdle}
}

func (c *Controller) beginLocked(ctx context.Context) (uint64, context.Context, context.CancelFunc) {
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return c.generation, fetchCtx, cancel
}

func (c *Controller) finish(gen uint64, page *model.Page, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.closed {
		return ErrDiscarded
	}
	c.cancel = nil

	initial := c.state.Status == StatusLoadingInitial

	if err == nil && page == nil {
		err = errors.New("recents: empty response")
	}
	if err != nil {
		c.state.Err = err
		if initial {
			c.state.Status = StatusFailed
			c.state.Files = nil
			c.state.HasMore = false
		} else {
			// Keep what we have; hasMore stays so the next signal retries.
			c.state.Status = StatusReady
		}
		return err
	}

	if initial {
		c.state.Files = append([]*model.File(nil), page.Files...)
	} else {
		c.state.Files = append(c.state.Files, page.Files...)
	}

	c.state.Cursor = ""
	if page.NextCursor != nil {
		c.state.Cursor = *page.NextCursor
	}
	// A page claiming more without a cursor cannot be continued.
	c.state.HasMore = page.HasMore && c.state.Cursor != ""
	c.state.Total = page.Total
	c.state.Err = nil
	c.state.Status = StatusReady
	return nil
}
