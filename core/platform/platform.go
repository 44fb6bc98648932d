package platform

import (
	"fmt"

	"driver-manager/core/platform/inventory"
	"driver-manager/core/platform/windows"
	"driver-manager/core/reconcile"
	"driver-manager/core/server"

	"go.uber.org/zap"
)

// Collaborators bundles the platform specific implementations the
// reconciliation engine and the drivers feature depend on.
type Collaborators struct {
	// Name is the resolved platform (windows or none).
	Name       string
	Enumerator reconcile.Enumerator
	Catalog    reconcile.CatalogSource
	Updates    reconcile.UpdateSource
	Installer  reconcile.Installer
}

// New resolves the configured platform for goos and builds its collaborators.
func New(cfg server.Config, drivers reconcile.Config, goos string, logger *zap.Logger) (*Collaborators, error) {
	if !cfg.IsValidPlatform() {
		return nil, fmt.Errorf("unsupported platform %q", cfg.Platform)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	name := cfg.Resolve(goos)
	logger = logger.With(zap.String("platform", name))

	switch name {
	case server.PlatformWindows:
		runner := windows.NewExecRunner(nil)
		logger.Info("Using Windows driver collaborators")
		return &Collaborators{
			Name: name,
			Enumerator: inventory.NewComposite(logger,
				inventory.New(logger, reconcile.CategoryCPU),
				windows.NewEnumerator(runner, logger),
			),
			Catalog:   windows.NewCatalogSource(runner, logger),
			Updates:   windows.NewUpdateSource(runner, logger),
			Installer: windows.NewInstaller(runner, drivers.InstallTimeout(), logger),
		}, nil
	default:
		logger.Info("No driver tooling on this platform, using inventory only")
		return &Collaborators{
			Name:       name,
			Enumerator: inventory.New(logger),
			Catalog:    Static{},
			Updates:    Static{},
			Installer:  Static{},
		}, nil
	}
}
