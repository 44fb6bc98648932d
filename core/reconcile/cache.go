package reconcile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const catalogFlightKey = "catalog"

// catalogFetchTimeout bounds one shared catalog fetch.
const catalogFetchTimeout = 2 * time.Minute

// cachedCatalog is the compound cache entry of a CatalogStore.
type cachedCatalog struct {
	snapshot CatalogSnapshot
	ttl      time.Duration
}

// isExpired returns true if this entry has outlived its TTL.
func (c *cachedCatalog) isExpired(now time.Time) bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return now.Sub(c.snapshot.Fetched) > c.ttl
}

// CatalogStore holds the last fetched driver catalog and problem-device list.
// Both are cached together under one TTL clock and invalidated wholesale.
type CatalogStore struct {
	source CatalogSource
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	cache *cachedCatalog
	sf    singleflight.Group
}

// NewCatalogStore creates a store reading from source with the given TTL.
func NewCatalogStore(source CatalogSource, ttl time.Duration, logger *zap.Logger) *CatalogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogStore{
		source: source,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Catalog returns the cached catalog, fetching it if the cache expired.
func (s *CatalogStore) Catalog(ctx context.Context) []CatalogEntry {
	return s.Snapshot(ctx).Entries
}

// ProblemDeviceNames returns the cached problem-device names, fetching them if the cache expired.
func (s *CatalogStore) ProblemDeviceNames(ctx context.Context) []string {
	return s.Snapshot(ctx).Problems
}

// Snapshot returns one consistent catalog + problem list view.
// It never fails: fetch errors are logged and degrade to the last valid
// snapshot or to an empty one.
func (s *CatalogStore) Snapshot(ctx context.Context) CatalogSnapshot {
	// Fast path: check if cache exists and is fresh
	if snap, ok := s.fresh(); ok {
		return snap
	}

	// Slow path: fetch using singleflight to prevent stampedes
	result, _, _ := s.sf.Do(catalogFlightKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if snap, ok := s.fresh(); ok {
			return snap, nil
		}
		// The fetch is shared by every waiting caller, so it must not end
		// with the first caller's request.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), catalogFetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx), nil
	})

	return result.(CatalogSnapshot)
}

// Clear resets the store so the next read forces a fresh fetch.
func (s *CatalogStore) Clear() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
	s.logger.Debug("Catalog cache cleared")
}

func (s *CatalogStore) fresh() (CatalogSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cache == nil || s.cache.isExpired(s.now()) {
		return CatalogSnapshot{}, false
	}
	return s.cache.snapshot, true
}

// fetch queries the catalog and the problem list concurrently. The result is
// cached only when both queries succeed.
func (s *CatalogStore) fetch(ctx context.Context) CatalogSnapshot {
	var (
		entries     []CatalogEntry
		problems    []string
		catalogErr  error
		problemsErr error
		wg          sync.WaitGroup
	)

	start := s.now()
	s.logger.Debug("Fetching driver catalog")

	wg.Add(2)

	go func() {
		defer wg.Done()
		entries, catalogErr = s.source.FetchCatalog(ctx)
	}()

	go func() {
		defer wg.Done()
		problems, problemsErr = s.source.FetchProblemDeviceNames(ctx)
	}()

	wg.Wait()

	if catalogErr != nil || problemsErr != nil {
		if catalogErr != nil {
			s.logger.Warn("Driver catalog fetch failed", zap.Error(catalogErr))
			entries = nil
		}
		if problemsErr != nil {
			s.logger.Warn("Problem device fetch failed", zap.Error(problemsErr))
			problems = nil
		}
		// Nothing is cached; a stale snapshot still within TTL would have been
		// served by the fast path, so what succeeded is all we have.
		return CatalogSnapshot{
			Entries:  nonNilEntries(entries),
			Problems: nonNilStrings(problems),
		}
	}

	snap := CatalogSnapshot{
		Entries:  nonNilEntries(entries),
		Problems: nonNilStrings(problems),
		Fetched:  s.now(),
	}

	s.mu.Lock()
	s.cache = &cachedCatalog{snapshot: snap, ttl: s.ttl}
	s.mu.Unlock()

	s.logger.Info("Driver catalog fetched",
		zap.Int("drivers", len(snap.Entries)),
		zap.Int("problem_devices", len(snap.Problems)),
		zap.Duration("took", snap.Fetched.Sub(start)),
	)

	return snap
}

func nonNilEntries(e []CatalogEntry) []CatalogEntry {
	if e == nil {
		return []CatalogEntry{}
	}
	return e
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
