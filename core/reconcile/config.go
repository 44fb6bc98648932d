package reconcile

import "time"

// Config holds the cache and timeout settings of the reconciliation core.
type Config struct {
	// CatalogTTLSeconds is how long a fetched catalog snapshot stays valid.
	CatalogTTLSeconds int `mapstructure:"catalog_ttl_seconds" default:"60"`
	// UpdateTTLSeconds is how long a pending-update snapshot stays valid.
	UpdateTTLSeconds int `mapstructure:"update_ttl_seconds" default:"60"`
	// UpdateTimeoutSeconds bounds one pending-update lookup.
	UpdateTimeoutSeconds int `mapstructure:"update_timeout_seconds" default:"15"`
	// InstallTimeoutMinutes bounds one install pipeline run.
	InstallTimeoutMinutes int `mapstructure:"install_timeout_minutes" default:"30"`
	// CandidateLimit is the number of ranked candidates returned by diagnostics.
	CandidateLimit int `mapstructure:"candidate_limit" default:"5"`
}

// CatalogTTL returns the catalog TTL, falling back to 60s.
func (c Config) CatalogTTL() time.Duration {
	return secondsOr(c.CatalogTTLSeconds, 60)
}

// UpdateTTL returns the pending-update TTL, falling back to 60s.
func (c Config) UpdateTTL() time.Duration {
	return secondsOr(c.UpdateTTLSeconds, 60)
}

// UpdateTimeout returns the pending-update lookup timeout, falling back to 15s.
func (c Config) UpdateTimeout() time.Duration {
	return secondsOr(c.UpdateTimeoutSeconds, 15)
}

// InstallTimeout returns the install pipeline timeout, falling back to 30m.
func (c Config) InstallTimeout() time.Duration {
	if c.InstallTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.InstallTimeoutMinutes) * time.Minute
}

// Limit returns the candidate limit, falling back to 5.
func (c Config) Limit() int {
	if c.CandidateLimit <= 0 {
		return 5
	}
	return c.CandidateLimit
}

func secondsOr(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
