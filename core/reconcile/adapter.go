package reconcile

import "context"

// Enumerator lists the devices of the workstation.
// Implementations return fresh descriptors on every call.
type Enumerator interface {
	EnumerateDevices(ctx context.Context) ([]DeviceDescriptor, error)
}

// CatalogSource performs the bulk driver catalog queries.
// Failures should wrap ErrIO (process or query failure) or ErrParse (malformed output).
type CatalogSource interface {
	// FetchCatalog returns every installed driver known to the OS, in source order.
	FetchCatalog(ctx context.Context) ([]CatalogEntry, error)

	// FetchProblemDeviceNames returns the names of devices flagged with a driver
	// or configuration error.
	FetchProblemDeviceNames(ctx context.Context) ([]string, error)
}

// UpdateSource queries the pending driver updates of the update service.
// The query is slow; the context carries the deadline the implementation must honor.
type UpdateSource interface {
	FetchPendingUpdateTitles(ctx context.Context) ([]string, error)
}

// ProgressFunc receives install pipeline progress. Percent is in [0, 100].
type ProgressFunc func(message string, percent int)

// Installer runs the driver update pipeline.
// A failed run returns an *InstallError carrying the installer's exit code.
type Installer interface {
	RunInstallPipeline(ctx context.Context, onProgress ProgressFunc) error
}

// Matcher pairs a device with at most one catalog entry.
// Implementations must be deterministic for a given catalog order.
type Matcher interface {
	// Match returns the best entry for the device, or false when nothing qualifies.
	Match(name, manufacturer string, catalog []CatalogEntry) (CatalogEntry, bool)

	// Candidates ranks catalog entries by a diagnostic score, best first.
	// It never influences Match.
	Candidates(name, manufacturer string, catalog []CatalogEntry, limit int) []Candidate
}
