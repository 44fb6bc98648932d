package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"driver-manager/core/config"
	"driver-manager/core/database"
	"driver-manager/core/logger"
	"driver-manager/core/matcher"
	"driver-manager/core/notify"
	"driver-manager/core/platform"
	"driver-manager/core/reconcile"
	"driver-manager/core/storage"
	"driver-manager/feature/drivers"

	"go.uber.org/zap"
)

// appRuntime holds the wired service and the resources to release on exit.
type appRuntime struct {
	cfg      *config.Config
	logger   *zap.Logger
	platform string
	service  *drivers.Service
	closers  []func()
}

// Close waits for background installs and releases connections in reverse order.
func (r *appRuntime) Close() {
	r.service.Wait()
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

// loadRuntime loads the configuration and builds the drivers service with
// its optional history, report and notification collaborators.
func loadRuntime(ctx context.Context) (*appRuntime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	collab, err := platform.New(cfg.Server, cfg.Drivers, runtime.GOOS, logg)
	if err != nil {
		return nil, err
	}

	rt := &appRuntime{cfg: cfg, logger: logg, platform: collab.Name}
	opts := drivers.Options{CandidateLimit: cfg.Drivers.Limit()}

	// History (Optional)
	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			history := drivers.NewHistory(db, logg)
			if err := history.Migrate(); err != nil {
				logg.Warn("History table unavailable", zap.Error(err))
			} else {
				opts.History = history
				logg.Info("Status history enabled", zap.String("driver", cfg.Database.Driver))
			}
			if sqlDB, err := db.DB(); err == nil {
				rt.closers = append(rt.closers, func() { _ = sqlDB.Close() })
			}
		}
	}

	// Reports (Optional)
	if cfg.Storage.Enabled {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed", zap.Error(err))
		} else if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Report bucket unavailable", zap.Error(err))
		} else {
			opts.Reports = drivers.NewReports(client, cfg.Storage.Bucket, hostname(), cfg.Storage.Retain, logg)
			logg.Info("Report upload enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	// Notifications (Optional)
	if cfg.Notify.Enabled {
		if n, closeFn, err := notify.Connect(cfg.Notify, logg); err != nil {
			logg.Warn("Optional NATS connection failed", zap.Error(err))
		} else {
			opts.Notifier = n
			rt.closers = append(rt.closers, closeFn)
			logg.Info("Change notifications enabled", zap.String("subject", cfg.Notify.Subject))
		}
	}

	engine := reconcile.NewEngine(
		reconcile.NewCatalogStore(collab.Catalog, cfg.Drivers.CatalogTTL(), logg),
		reconcile.NewUpdateLookup(collab.Updates, cfg.Drivers.UpdateTTL(), cfg.Drivers.UpdateTimeout(), logg),
		matcher.New(),
		logg,
	)
	rt.service = drivers.NewService(engine, collab.Enumerator, collab.Installer, opts, logg)
	return rt, nil
}

func hostname() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}
