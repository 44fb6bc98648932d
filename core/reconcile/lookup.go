package reconcile

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CompletionFunc receives the final titles of a pending-update lookup.
type CompletionFunc func(titles []string)

// flight is one in-progress lookup. done is closed once the snapshot was replaced.
type flight struct {
	done      chan struct{}
	callbacks []CompletionFunc
}

// UpdateLookup coordinates the slow pending-update query.
//
// At most one query runs at a time. While it runs, callers can read the last
// snapshot without blocking, wait for the query to settle, or attach one-shot
// completion callbacks. The snapshot has its own TTL, separate from the catalog.
type UpdateLookup struct {
	source  UpdateSource
	ttl     time.Duration
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	titles  []string
	fetched time.Time
	current *flight
}

// NewUpdateLookup creates a coordinator for source. Every query is bounded by timeout.
func NewUpdateLookup(source UpdateSource, ttl, timeout time.Duration, logger *zap.Logger) *UpdateLookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateLookup{
		source:  source,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// StartBackgroundFetch launches a lookup unless the snapshot is fresh or one
// is already running. It reports whether a new lookup was started.
func (u *UpdateLookup) StartBackgroundFetch() bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.validLocked() {
		u.logger.Debug("Using cached update results", zap.Int("updates", len(u.titles)))
		return false
	}
	if u.current != nil {
		u.logger.Debug("Update lookup already in progress")
		return false
	}

	f := &flight{done: make(chan struct{})}
	u.current = f
	u.logger.Info("Starting background update lookup")

	go u.run(f)
	return true
}

// CurrentSnapshot returns the cached titles if still within TTL, else an empty set.
// It never blocks and never triggers a lookup.
func (u *UpdateLookup) CurrentSnapshot() []string {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.validLocked() {
		return []string{}
	}
	return append([]string{}, u.titles...)
}

// Await blocks until the in-flight lookup settles, then returns the current
// snapshot. With no lookup in flight it returns immediately. It returns early
// with the cached snapshot if ctx is done first.
func (u *UpdateLookup) Await(ctx context.Context) []string {
	u.mu.Lock()
	f := u.current
	u.mu.Unlock()

	if f != nil {
		select {
		case <-f.done:
		case <-ctx.Done():
			u.logger.Debug("Stopped waiting for update lookup", zap.Error(ctx.Err()))
		}
	}
	return u.CurrentSnapshot()
}

// OnComplete attaches a one-shot callback to the in-flight lookup.
// It returns false, without registering anything, when no lookup is in flight;
// callers then use CurrentSnapshot instead.
func (u *UpdateLookup) OnComplete(cb CompletionFunc) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.current == nil {
		return false
	}
	u.current.callbacks = append(u.current.callbacks, cb)
	return true
}

// InFlight reports whether a lookup is currently running.
func (u *UpdateLookup) InFlight() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.current != nil
}

// Diagnostics describes the cache state.
func (u *UpdateLookup) Diagnostics() CacheDiagnostics {
	u.mu.Lock()
	defer u.mu.Unlock()

	d := CacheDiagnostics{
		LastFetch:         u.fetched,
		CachedUpdateCount: len(u.titles),
		InFlight:          u.current != nil,
	}
	if u.validLocked() {
		d.IsValid = true
		remaining := u.ttl - u.now().Sub(u.fetched)
		d.RemainingTTLSeconds = int(math.Ceil(remaining.Seconds()))
	}
	return d
}

// Clear drops the cached snapshot. An in-flight lookup is not affected and
// will store its result when it settles.
func (u *UpdateLookup) Clear() {
	u.mu.Lock()
	u.titles = nil
	u.fetched = time.Time{}
	u.mu.Unlock()
}

func (u *UpdateLookup) validLocked() bool {
	if u.fetched.IsZero() || u.ttl == 0 {
		return false
	}
	return u.now().Sub(u.fetched) < u.ttl
}

// run executes one lookup. Timeouts and failures settle to an empty result.
func (u *UpdateLookup) run(f *flight) {
	titles := u.query()

	u.mu.Lock()
	u.titles = titles
	u.fetched = u.now()
	callbacks := f.callbacks
	f.callbacks = nil
	u.current = nil
	u.mu.Unlock()

	close(f.done)

	u.logger.Info("Update lookup complete", zap.Int("updates", len(titles)))
	if len(titles) > 0 {
		u.logger.Debug("Pending updates", zap.Strings("titles", titles))
	}

	for _, cb := range callbacks {
		u.invoke(cb, titles)
	}
}

type lookupOutcome struct {
	titles []string
	err    error
}

// query runs the source under the hard timeout. The source goroutine is
// abandoned if it ignores its context.
func (u *UpdateLookup) query() []string {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	out := make(chan lookupOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				out <- lookupOutcome{err: fmt.Errorf("update source panicked: %v", r)}
			}
		}()
		titles, err := u.source.FetchPendingUpdateTitles(ctx)
		out <- lookupOutcome{titles: titles, err: err}
	}()

	select {
	case o := <-out:
		switch {
		case errors.Is(o.err, context.DeadlineExceeded):
			u.logger.Warn("Update lookup timed out", zap.Duration("timeout", u.timeout))
			return []string{}
		case o.err != nil:
			u.logger.Warn("Update lookup failed", zap.Error(o.err))
			return []string{}
		case o.titles == nil:
			return []string{}
		}
		return o.titles
	case <-ctx.Done():
		u.logger.Warn("Update lookup timed out", zap.Duration("timeout", u.timeout))
		return []string{}
	}
}

// invoke runs one callback, containing its panic so remaining callbacks still run.
func (u *UpdateLookup) invoke(cb CompletionFunc, titles []string) {
	defer func() {
		if r := recover(); r != nil {
			u.logger.Error("Update completion callback panicked", zap.Any("panic", r))
		}
	}()
	cb(append([]string{}, titles...))
}
