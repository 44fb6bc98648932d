// Package windows implements the reconciliation collaborators on top of the
// Windows command line tools.
//
// # Collaborators
//
//   - CatalogSource queries Win32_PnPSignedDriver and the devices with a
//     non-zero ConfigManagerErrorCode through wmic.
//   - UpdateSource asks the Windows Update agent for pending driver updates.
//   - Installer runs the search, download and install script and maps its
//     output markers to progress percentages.
//   - Enumerator lists devices per WMI class.
//
// # Output decoding
//
// Every command goes through a Runner. ExecRunner decodes stdout from the
// console code page, GBK unless configured otherwise, and parses wmic's CSV
// output by header name.
//
// Usage:
//
//	runner := windows.NewExecRunner(nil)
//	source := windows.NewCatalogSource(runner, logger)
//	entries, err := source.FetchCatalog(ctx)
package windows
