package reconcile

import "time"

// Category classifies a device for display and matching purposes.
type Category string

const (
	CategoryCPU     Category = "CPU"
	CategoryGPU     Category = "GPU"
	CategoryNetwork Category = "Network"
	CategoryAudio   Category = "Audio"
	CategoryUSB     Category = "USB"
	CategoryStorage Category = "Storage"
	CategoryOther   Category = "Other"
)

// DeviceDescriptor identifies one physical or logical device of an inventory pass.
// Descriptors are produced fresh by every enumeration and never mutated.
type DeviceDescriptor struct {
	// ID is unique within one inventory pass (e.g. "gpu-0"), not across passes.
	ID string `json:"id"`

	// Category is the device class.
	Category Category `json:"category"`

	// Name is the free-text device name used for matching.
	Name string `json:"name"`

	// Manufacturer is the free-text vendor name used for matching.
	Manufacturer string `json:"manufacturer"`
}

// CatalogEntry is one row of driver metadata as known to the OS.
type CatalogEntry struct {
	DeviceName   string `json:"device_name"`
	Manufacturer string `json:"manufacturer"`
	InfName      string `json:"inf_name"`
	RawDeviceID  string `json:"raw_device_id"`
	Version      string `json:"version"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// Status is the reconciled driver state of a device.
type Status string

const (
	// StatusOK means a driver is installed and no update is known.
	StatusOK Status = "ok"
	// StatusOutdated means a driver is installed but the device has a problem or a pending update.
	StatusOutdated Status = "outdated"
	// StatusMissing means no driver was found but an update is offered.
	StatusMissing Status = "missing"
	// StatusUnknown means no driver was found and nothing is offered.
	StatusUnknown Status = "unknown"
	// StatusChecking is the placeholder shown before a device was ever reconciled.
	StatusChecking Status = "checking"
)

// DriverStatus is the reconciled output for a single device.
// It is always replaced wholesale, keyed by DeviceDescriptor.ID.
type DriverStatus struct {
	Installed       bool   `json:"installed"`
	Version         string `json:"version,omitempty"`
	Date            string `json:"date,omitempty"`
	IsLatest        bool   `json:"is_latest"`
	IsLTS           bool   `json:"is_lts"`
	UpdateAvailable bool   `json:"update_available"`
	Status          Status `json:"status"`
}

// Checking returns the status callers should show before the first reconciliation.
func Checking() DriverStatus {
	return DriverStatus{Status: StatusChecking}
}

// CatalogSnapshot is one consistent view of the catalog and the problem-device list.
type CatalogSnapshot struct {
	// Entries is the catalog in source order. Match tie-breaks depend on this order.
	Entries []CatalogEntry

	// Problems holds the names of devices flagged with a configuration error.
	Problems []string

	// Fetched is when the snapshot was taken. Zero for an uncached, degraded snapshot.
	Fetched time.Time
}

// CacheDiagnostics describes the state of the pending-update cache.
type CacheDiagnostics struct {
	IsValid             bool      `json:"is_valid"`
	RemainingTTLSeconds int       `json:"remaining_ttl_seconds"`
	LastFetch           time.Time `json:"last_fetch"`
	CachedUpdateCount   int       `json:"cached_update_count"`
	InFlight            bool      `json:"in_flight"`
}

// Summary provides aggregate statistics for one reconciliation pass.
type Summary struct {
	// Total is the number of devices reconciled.
	Total int `json:"total"`

	// OK counts devices with an up-to-date driver.
	OK int `json:"ok"`

	// Outdated counts devices with an installed driver that needs an update.
	Outdated int `json:"outdated"`

	// Missing counts devices without a driver but with an offered update.
	Missing int `json:"missing"`

	// Unknown counts devices that could not be matched.
	Unknown int `json:"unknown"`

	// UpdatesAvailable counts devices flagged with UpdateAvailable.
	UpdatesAvailable int `json:"updates_available"`
}

// Candidate is a catalog entry ranked by the diagnostic match score.
type Candidate struct {
	Entry CatalogEntry `json:"entry"`
	Score int          `json:"score"`
}

// Explanation shows how one device resolves against the catalog.
type Explanation struct {
	Device      DeviceDescriptor `json:"device"`
	Match       *CatalogEntry    `json:"match,omitempty"`
	Candidates  []Candidate      `json:"candidates"`
	CatalogSize int              `json:"catalog_size"`
}
