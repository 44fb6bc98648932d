package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeCatalogSource is a CatalogSource with func fields for failure injection.
type fakeCatalogSource struct {
	catalogFunc  func(ctx context.Context) ([]CatalogEntry, error)
	problemsFunc func(ctx context.Context) ([]string, error)

	catalogCalls  atomic.Int32
	problemsCalls atomic.Int32
}

func (f *fakeCatalogSource) FetchCatalog(ctx context.Context) ([]CatalogEntry, error) {
	f.catalogCalls.Add(1)
	if f.catalogFunc != nil {
		return f.catalogFunc(ctx)
	}
	return []CatalogEntry{}, nil
}

func (f *fakeCatalogSource) FetchProblemDeviceNames(ctx context.Context) ([]string, error) {
	f.problemsCalls.Add(1)
	if f.problemsFunc != nil {
		return f.problemsFunc(ctx)
	}
	return []string{}, nil
}

// fakeUpdateSource is an UpdateSource with a func field.
type fakeUpdateSource struct {
	fetchFunc func(ctx context.Context) ([]string, error)
	calls     atomic.Int32
}

func (f *fakeUpdateSource) FetchPendingUpdateTitles(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	if f.fetchFunc != nil {
		return f.fetchFunc(ctx)
	}
	return []string{}, nil
}

// fakeClock is a settable, goroutine-safe time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
