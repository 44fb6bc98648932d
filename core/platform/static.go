package platform

import (
	"context"
	"fmt"

	"driver-manager/core/reconcile"
)

// Static serves an empty driver catalog and no pending updates. It stands in
// for the driver tooling on hosts that have none.
type Static struct {
	Entries  []reconcile.CatalogEntry
	Problems []string
	Titles   []string
}

var (
	_ reconcile.CatalogSource = Static{}
	_ reconcile.UpdateSource  = Static{}
	_ reconcile.Installer     = Static{}
)

// FetchCatalog returns a copy of Entries.
func (s Static) FetchCatalog(context.Context) ([]reconcile.CatalogEntry, error) {
	return append([]reconcile.CatalogEntry{}, s.Entries...), nil
}

// FetchProblemDeviceNames returns a copy of Problems.
func (s Static) FetchProblemDeviceNames(context.Context) ([]string, error) {
	return append([]string{}, s.Problems...), nil
}

// FetchPendingUpdateTitles returns a copy of Titles.
func (s Static) FetchPendingUpdateTitles(context.Context) ([]string, error) {
	return append([]string{}, s.Titles...), nil
}

// RunInstallPipeline always fails with reconcile.ErrUnsupported.
func (Static) RunInstallPipeline(context.Context, reconcile.ProgressFunc) error {
	return fmt.Errorf("driver installation: %w", reconcile.ErrUnsupported)
}
