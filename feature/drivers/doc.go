// Package drivers exposes driver reconciliation over HTTP and to the CLI.
//
// # Service
//
// Service enumerates the inventory, runs passes through a reconcile.Engine and
// keeps the last applied status of every device. Passes are numbered; a pass
// is applied only if no newer one was, and the final recomputation of a pass
// replaces its initial result but never a newer pass.
//
// Every applied pass is optionally:
//   - saved to the driver_status_records table (History, gorm),
//   - uploaded as JSON to reports/<host>/ in object storage (Reports, minio),
//   - announced as a drivers.changed event (notify.Notifier).
//
// Failures of these side effects are logged and never fail the pass.
//
// # Routes
//
//	GET    /drivers                  devices with last known status
//	POST   /drivers/check            fast bulk check
//	POST   /drivers/check/:id        authoritative single device check
//	GET    /drivers/:id/candidates   match explanation
//	GET    /drivers/cache            pending-update cache diagnostics
//	DELETE /drivers/cache            clear caches
//	POST   /drivers/install          start install pipeline (202)
//	GET    /drivers/install          install progress
//	GET    /drivers/history          persisted status records
package drivers
