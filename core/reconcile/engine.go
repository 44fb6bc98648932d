package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// virtualAdapterHints mark software display adapters that have no real driver to check.
var virtualAdapterHints = []string{"oray", "virtual", "indirect", "basic display", "basic render"}

// LaterFunc receives the recomputed status map once the pending-update lookup settles.
type LaterFunc func(statuses map[string]DriverStatus)

// Engine combines the catalog, the pending-update lookup and a matcher into
// per-device driver statuses.
type Engine struct {
	catalog *CatalogStore
	updates *UpdateLookup
	matcher Matcher
	logger  *zap.Logger

	running atomic.Bool
}

// NewEngine creates an engine over the given components.
func NewEngine(catalog *CatalogStore, updates *UpdateLookup, matcher Matcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog: catalog,
		updates: updates,
		matcher: matcher,
		logger:  logger,
	}
}

// ReconcileAll computes a status for every device without waiting for the
// pending-update lookup. The returned map reflects one catalog snapshot and
// whatever update titles were known at call time.
//
// When onLater is set and a lookup is in flight, onLater later receives the map
// recomputed with the final titles against the same catalog snapshot. It is
// never invoked before the immediate map has been computed.
//
// Only one bulk pass runs at a time. A concurrent call is dropped and returns
// ErrReconcileInProgress.
func (e *Engine) ReconcileAll(ctx context.Context, devices []DeviceDescriptor, onLater LaterFunc) (map[string]DriverStatus, error) {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Warn("Driver check already in progress, skipping", zap.Int("devices", len(devices)))
		return nil, ErrReconcileInProgress
	}
	defer e.running.Store(false)

	e.updates.StartBackgroundFetch()

	// ready hands the catalog snapshot to the late callback. It is closed
	// without a value if the immediate pass does not complete.
	ready := make(chan CatalogSnapshot, 1)
	defer close(ready)
	if onLater != nil {
		devs := append([]DeviceDescriptor(nil), devices...)
		registered := e.updates.OnComplete(func(titles []string) {
			snap, ok := <-ready
			if !ok {
				e.logger.Warn("Driver check aborted, skipping late recomputation")
				return
			}
			e.logger.Info("Update lookup settled, recomputing driver statuses", zap.Int("updates", len(titles)))
			onLater(e.deriveAll(devs, snap, titles))
		})
		if !registered {
			e.logger.Debug("No update lookup in flight, statuses are final")
		}
	}

	snap := e.catalog.Snapshot(ctx)
	titles := e.updates.CurrentSnapshot()
	statuses := e.deriveAll(devices, snap, titles)
	ready <- snap

	e.logger.Info("Driver check complete",
		zap.Int("devices", len(devices)),
		zap.Int("drivers", len(snap.Entries)),
		zap.Int("updates", len(titles)),
	)

	return statuses, nil
}

// ReconcileOne computes the authoritative status of one device: it starts or
// joins the pending-update lookup and waits for it before deriving the status.
// It fails only when ctx ends before the lookup settles.
func (e *Engine) ReconcileOne(ctx context.Context, device DeviceDescriptor) (DriverStatus, error) {
	e.updates.StartBackgroundFetch()
	titles := e.updates.Await(ctx)
	if err := ctx.Err(); err != nil {
		return DriverStatus{}, fmt.Errorf("waiting for update lookup: %w", err)
	}

	snap := e.catalog.Snapshot(ctx)
	return e.derive(device, snap, titles), nil
}

// Explain reports how a device resolves against the cached catalog: the
// chosen entry, if any, and the top ranked candidates.
func (e *Engine) Explain(ctx context.Context, device DeviceDescriptor, limit int) Explanation {
	snap := e.catalog.Snapshot(ctx)

	ex := Explanation{
		Device:      device,
		CatalogSize: len(snap.Entries),
		Candidates:  e.matcher.Candidates(device.Name, device.Manufacturer, snap.Entries, limit),
	}
	if m, ok := e.matcher.Match(device.Name, device.Manufacturer, snap.Entries); ok {
		ex.Match = &m
	}
	return ex
}

// Invalidate clears the catalog and the pending-update snapshot so the next
// pass fetches both again.
func (e *Engine) Invalidate() {
	e.catalog.Clear()
	e.updates.Clear()
	e.logger.Info("Driver caches cleared")
}

// Diagnostics describes the pending-update cache.
func (e *Engine) Diagnostics() CacheDiagnostics {
	return e.updates.Diagnostics()
}

// Running reports whether a bulk pass is in progress.
func (e *Engine) Running() bool {
	return e.running.Load()
}

func (e *Engine) deriveAll(devices []DeviceDescriptor, snap CatalogSnapshot, titles []string) map[string]DriverStatus {
	statuses := make(map[string]DriverStatus, len(devices))
	for _, d := range devices {
		statuses[d.ID] = e.derive(d, snap, titles)
	}
	return statuses
}

func (e *Engine) derive(device DeviceDescriptor, snap CatalogSnapshot, titles []string) DriverStatus {
	var match *CatalogEntry
	if m, ok := e.matcher.Match(device.Name, device.Manufacturer, snap.Entries); ok {
		match = &m
	}

	status := Derive(device, match, snap.Problems, titles)
	e.logger.Debug("Driver status derived",
		zap.String("device_id", device.ID),
		zap.String("device", device.Name),
		zap.Bool("matched", match != nil),
		zap.String("status", string(status.Status)),
	)
	return status
}

// Derive is the status decision for one device given its catalog match (nil
// when none), the problem-device names and the pending-update titles.
func Derive(device DeviceDescriptor, match *CatalogEntry, problems, titles []string) DriverStatus {
	if IsVirtualAdapter(device.Name) {
		return DriverStatus{Installed: true, IsLatest: true, Status: StatusOK}
	}

	hint := hasUpdateHint(device, titles)

	if match != nil {
		needsUpdate := hint || hasProblem(device.Name, problems)
		s := DriverStatus{
			Installed:       true,
			Version:         match.Version,
			Date:            match.Date,
			IsLatest:        !needsUpdate,
			UpdateAvailable: needsUpdate,
			Status:          StatusOK,
		}
		if needsUpdate {
			s.Status = StatusOutdated
		}
		return s
	}

	if hint {
		return DriverStatus{UpdateAvailable: true, Status: StatusMissing}
	}
	return DriverStatus{Status: StatusUnknown}
}

// IsVirtualAdapter reports whether name looks like a software or indirect display adapter.
func IsVirtualAdapter(name string) bool {
	n := strings.ToLower(name)
	for _, hint := range virtualAdapterHints {
		if strings.Contains(n, hint) {
			return true
		}
	}
	return false
}

// hasProblem reports whether any problem-device name contains the device name.
func hasProblem(name string, problems []string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return false
	}
	for _, p := range problems {
		if strings.Contains(strings.ToLower(p), n) {
			return true
		}
	}
	return false
}

// hasUpdateHint reports whether any update title mentions the device name or
// manufacturer. Plain substring semantics apply: an empty manufacturer is
// contained in every title.
func hasUpdateHint(device DeviceDescriptor, titles []string) bool {
	name := strings.ToLower(device.Name)
	mfg := strings.ToLower(device.Manufacturer)
	for _, t := range titles {
		title := strings.ToLower(t)
		if strings.Contains(title, name) || strings.Contains(title, mfg) {
			return true
		}
	}
	return false
}
