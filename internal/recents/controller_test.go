package recents

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/printmate/printmate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedFetcher serves a fixed list per user, cursor being the next offset.
type pagedFetcher struct {
	mu     sync.Mutex
	files  map[string][]*model.File
	fail   map[int]error // call number (1-based) -> error
	calls  int
	cursor []string
}

func (f *pagedFetcher) RecentFiles(ctx context.Context, userID, cursor string, limit int) (*model.Page, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.cursor = append(f.cursor, cursor)
	err := f.fail[call]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	all := f.files[userID]
	start := 0
	if cursor != "" {
		_, _ = fmt.Sscanf(cursor, "%d", &start)
	}
	end := min(start+limit, len(all))

	page := &model.Page{Files: all[start:end], HasMore: end < len(all), Total: len(all)}
	if page.HasMore {
		next := fmt.Sprintf("%d", end)
		page.NextCursor = &next
	}
	return page, nil
}

func makeFiles(prefix string, n int) []*model.File {
	base := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	files := make([]*model.File, n)
	for i := range n {
		files[i] = &model.File{ID: fmt.Sprintf("%s-%02d", prefix, i), UploadedAt: base.Add(-time.Duration(i) * time.Hour)}
	}
	return files
}

var ada = &model.Identity{ID: "ada", Email: "ada@example.com"}

func TestControllerLoadsAllPages(t *testing.T) {
	fetcher := &pagedFetcher{files: map[string][]*model.File{"ada": makeFiles("a", 25)}}
	c := NewController(fetcher, WithPageSize(20))
	ctx := context.Background()

	require.NoError(t, c.Mount(ctx, ada))
	s := c.Snapshot()
	assert.Equal(t, StatusReady, s.Status)
	assert.Len(t, s.Files, 20)
	assert.True(t, s.HasMore)
	assert.Equal(t, 25, s.Total)

	started, err := c.SentinelVisible(ctx)
	require.NoError(t, err)
	assert.True(t, started)

	s = c.Snapshot()
	assert.Len(t, s.Files, 25)
	assert.False(t, s.HasMore)
	assert.Equal(t, "a-20", s.Files[20].ID, "pages append in order")

	// Terminal: no more fetches
	started, err = c.SentinelVisible(ctx)
	require.NoError(t, err)
	assert.False(t, started)
	assert.Equal(t, 2, fetcher.calls)
}

func TestControllerSecondPageNetworkError(t *testing.T) {
	netErr := errors.New("connection refused")
	fetcher := &pagedFetcher{
		files: map[string][]*model.File{"ada": makeFiles("a", 25)},
		fail:  map[int]error{2: netErr},
	}
	c := NewController(fetcher, WithPageSize(20))
	ctx := context.Background()

	require.NoError(t, c.Mount(ctx, ada))

	_, err := c.SentinelVisible(ctx)
	assert.ErrorIs(t, err, netErr)

	s := c.Snapshot()
	assert.Equal(t, StatusReady, s.Status)
	assert.Len(t, s.Files, 20)
	assert.True(t, s.HasMore)
	assert.ErrorIs(t, s.Err, netErr)

	// Retry by signalling again
	started, err := c.SentinelVisible(ctx)
	require.NoError(t, err)
	assert.True(t, started)
	s = c.Snapshot()
	assert.Len(t, s.Files, 25)
	assert.NoError(t, s.Err)
	assert.Equal(t, []string{"", "20", "20"}, fetcher.cursor)
}

func TestControllerInitialFailure(t *testing.T) {
	fetcher := &pagedFetcher{
		files: map[string][]*model.File{"ada": makeFiles("a", 3)},
		fail:  map[int]error{1: errors.New("timeout")},
	}
	c := NewController(fetcher)
	ctx := context.Background()

	require.Error(t, c.Mount(ctx, ada))
	s := c.Snapshot()
	assert.Equal(t, StatusFailed, s.Status)
	assert.Empty(t, s.Files)
	assert.Error(t, s.Err)

	started, err := c.SentinelVisible(ctx)
	assert.False(t, started)
	assert.NoError(t, err)

	require.NoError(t, c.Retry(ctx))
	assert.Len(t, c.Snapshot().Files, 3)
}

func TestControllerRejectsMissingIdentity(t *testing.T) {
	c := NewController(&pagedFetcher{})
	assert.ErrorIs(t, c.Mount(context.Background(), nil), ErrNoIdentity)
	assert.ErrorIs(t, c.Mount(context.Background(), &model.Identity{}), ErrNoIdentity)
}

// blockingFetcher parks every call until released.
type blockingFetcher struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
	page    *model.Page
}

func newBlockingFetcher(page *model.Page) *blockingFetcher {
	return &blockingFetcher{
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
		page:    page,
	}
}

func (f *blockingFetcher) RecentFiles(ctx context.Context, userID, cursor string, limit int) (*model.Page, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	f.started <- struct{}{}
	<-f.release
	return f.page, nil
}

func TestControllerSingleFlight(t *testing.T) {
	c := NewController(&pagedFetcher{files: map[string][]*model.File{"ada": makeFiles("a", 2)}}, WithPageSize(1))
	require.NoError(t, c.Mount(context.Background(), ada))

	blocking := newBlockingFetcher(&model.Page{Files: makeFiles("b", 1)})
	c.fetcher = blocking

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.SentinelVisible(context.Background())
	}()
	<-blocking.started

	assert.True(t, c.Snapshot().LoadingMore())
	for range 5 {
		started, err := c.SentinelVisible(context.Background())
		assert.False(t, started)
		assert.NoError(t, err)
	}

	close(blocking.release)
	<-done
	assert.Equal(t, 1, blocking.calls)
	assert.Len(t, c.Snapshot().Files, 2)
}

// cancelAwareFetcher blocks until its context is cancelled, then returns a page anyway.
type cancelAwareFetcher struct {
	started   chan struct{}
	cancelled chan struct{}
}

func (f *cancelAwareFetcher) RecentFiles(ctx context.Context, userID, cursor string, limit int) (*model.Page, error) {
	if userID != "ada" {
		return &model.Page{Files: makeFiles(userID, 1)}, nil
	}
	f.started <- struct{}{}
	<-ctx.Done()
	close(f.cancelled)
	return &model.Page{Files: makeFiles("stale", 5)}, nil
}

func TestControllerDiscardsResultAfterIdentityChange(t *testing.T) {
	fetcher := &cancelAwareFetcher{started: make(chan struct{}), cancelled: make(chan struct{})}
	c := NewController(fetcher)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Mount(context.Background(), ada) }()
	<-fetcher.started

	bob := &model.Identity{ID: "bob"}
	require.NoError(t, c.Mount(context.Background(), bob))
	<-fetcher.cancelled

	assert.ErrorIs(t, <-errCh, ErrDiscarded)
	s := c.Snapshot()
	assert.Equal(t, "bob", s.Identity.ID)
	require.Len(t, s.Files, 1)
	assert.Equal(t, "bob-00", s.Files[0].ID)
}

func TestControllerDiscardsResultAfterClose(t *testing.T) {
	fetcher := &cancelAwareFetcher{started: make(chan struct{}), cancelled: make(chan struct{})}
	c := NewController(fetcher)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Mount(context.Background(), ada) }()
	<-fetcher.started

	c.Close()
	<-fetcher.cancelled

	assert.ErrorIs(t, <-errCh, ErrDiscarded)
	s := c.Snapshot()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Files)
	assert.ErrorIs(t, c.Mount(context.Background(), ada), ErrClosed)
}

func TestControllerRemountSameIdentityIsNoop(t *testing.T) {
	fetcher := &pagedFetcher{files: map[string][]*model.File{"ada": makeFiles("a", 3)}}
	c := NewController(fetcher)

	require.NoError(t, c.Mount(context.Background(), ada))
	require.NoError(t, c.Mount(context.Background(), &model.Identity{ID: "ada"}))
	assert.Equal(t, 1, fetcher.calls)
}

func TestControllerHasMoreWithoutCursorStops(t *testing.T) {
	c := NewController(fetcherFunc(func(ctx context.Context, userID, cursor string, limit int) (*model.Page, error) {
		return &model.Page{Files: makeFiles("a", 1), HasMore: true}, nil
	}))

	require.NoError(t, c.Mount(context.Background(), ada))
	assert.False(t, c.Snapshot().HasMore)
}

type fetcherFunc func(ctx context.Context, userID, cursor string, limit int) (*model.Page, error)

func (f fetcherFunc) RecentFiles(ctx context.Context, userID, cursor string, limit int) (*model.Page, error) {
	return f(ctx, userID, cursor, limit)
}
