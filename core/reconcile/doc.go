// Package reconcile decides the driver state of every device on the workstation.
//
// It pairs device descriptors from hardware inventory with the OS driver
// catalog and the pending updates offered by the update service, and produces a
// DriverStatus per device: ok, outdated, missing or unknown.
//
// # Architecture
//
// The package consists of four components:
//
// 1. CatalogStore: TTL cache over the bulk catalog and problem-device queries,
// with singleflight stampede protection. Fetch failures degrade to an empty,
// uncached snapshot and are never returned to callers.
//
// 2. UpdateLookup: single-flight coordinator for the slow pending-update query.
// Callers read the last snapshot without blocking, wait for the running query,
// or attach one-shot completion callbacks. Queries are bounded by a hard timeout
// that resolves to an empty result.
//
// 3. Matcher: pairs a device with at most one catalog entry. The production
// implementation lives in core/matcher.
//
// 4. Engine: composes the three into a fast bulk pass and an authoritative
// single-device pass.
//
// # Two-speed reconciliation
//
// ReconcileAll returns immediately with whatever update titles are cached, then
// hands a corrected map to its LaterFunc once the lookup settles:
//
//	statuses, err := engine.ReconcileAll(ctx, devices, func(final map[string]reconcile.DriverStatus) {
//	    store(final)
//	})
//
// ReconcileOne waits for the lookup and is used for per-device "check now" requests.
//
// # Status derivation
//
// Virtual display adapters (names containing oray, virtual, indirect, basic
// display or basic render) are always ok. A matched device is outdated when it
// is listed as a problem device or an update title mentions it, else ok. An
// unmatched device is missing when an update title mentions it, else unknown.
//
// # Collaborators
//
// Enumerator, CatalogSource, UpdateSource and Installer are implemented by
// core/platform. Catalog and update failures should wrap ErrIO or ErrParse;
// installers return *InstallError with the exit code.
package reconcile
