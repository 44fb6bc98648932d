// Package platform selects the driver collaborators for the host.
//
// The server.platform setting picks them: "windows" uses the wmic and
// Windows Update backed implementations of package windows, "none" keeps only
// the gopsutil inventory and serves an empty catalog through Static. "auto"
// resolves to one of both from the running GOOS.
//
// Usage:
//
//	collab, err := platform.New(cfg.Server, cfg.Drivers, runtime.GOOS, logger)
//	if err != nil {
//		return err
//	}
//	devices, err := collab.Enumerator.EnumerateDevices(ctx)
//
// Subpackages:
//   - inventory: gopsutil enumerator and enumerator composition
//   - windows: wmic and PowerShell collaborators
package platform
