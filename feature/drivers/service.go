package drivers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"driver-manager/core/notify"
	"driver-manager/core/reconcile"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrDeviceNotFound is returned when a device id is not part of the inventory.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrInstallInProgress is returned when an install pipeline is already running.
	ErrInstallInProgress = errors.New("driver installation already in progress")
)

// sideEffectTimeout bounds history, report and notification writes of one pass.
const sideEffectTimeout = 30 * time.Second

// PassResult is the outcome of a bulk check.
type PassResult struct {
	Devices []DeviceStatus    `json:"devices"`
	Summary reconcile.Summary `json:"summary"`
	// Pending is set while the update lookup is still running; a final pass follows.
	Pending bool `json:"pending"`
}

// InstallState describes the current or last install pipeline run.
type InstallState struct {
	Running    bool       `json:"running"`
	Message    string     `json:"message"`
	Percent    int        `json:"percent"`
	Error      string     `json:"error,omitempty"`
	ExitCode   *int       `json:"exit_code,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Options carries the optional collaborators of the service.
type Options struct {
	// History persists every applied pass when set.
	History *History
	// Reports uploads every applied pass when set.
	Reports *Reports
	// Notifier announces applied passes. Nil discards them.
	Notifier notify.Notifier
	// CandidateLimit bounds Candidates. Non-positive selects 5.
	CandidateLimit int
}

// passOrder orders passes: a higher sequence wins, and within one sequence the
// final recomputation wins over the initial one.
type passOrder struct {
	seq   uint64
	final bool
}

func (p passOrder) before(o passOrder) bool {
	if p.seq != o.seq {
		return p.seq < o.seq
	}
	return !p.final && o.final
}

// Service exposes driver reconciliation to the HTTP handler and the CLI and
// keeps the last applied status of every device.
type Service struct {
	engine     *reconcile.Engine
	enumerator reconcile.Enumerator
	installer  reconcile.Installer
	history    *History
	reports    *Reports
	notifier   notify.Notifier
	limit      int
	logger     *zap.Logger

	seq      atomic.Uint64
	mu       sync.RWMutex
	statuses map[string]reconcile.DriverStatus
	applied  passOrder

	installing atomic.Bool
	install    InstallState
	wg         sync.WaitGroup
}

// NewService creates a drivers service.
func NewService(engine *reconcile.Engine, enumerator reconcile.Enumerator, installer reconcile.Installer, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = 5
	}
	return &Service{
		engine:     engine,
		enumerator: enumerator,
		installer:  installer,
		history:    opts.History,
		reports:    opts.Reports,
		notifier:   opts.Notifier,
		limit:      opts.CandidateLimit,
		logger:     logger,
		statuses:   make(map[string]reconcile.DriverStatus),
	}
}

// GetReconciledStatuses runs the fast bulk pass over devices and applies it.
// When the update lookup is still running, the recomputed map is applied once
// it settles and then handed to onLater, which may be nil.
func (s *Service) GetReconciledStatuses(ctx context.Context, devices []reconcile.DeviceDescriptor, onLater reconcile.LaterFunc) (map[string]reconcile.DriverStatus, error) {
	return s.reconcileAll(ctx, devices, notify.PhaseInitial, onLater)
}

func (s *Service) reconcileAll(ctx context.Context, devices []reconcile.DeviceDescriptor, phase notify.Phase, onLater reconcile.LaterFunc) (map[string]reconcile.DriverStatus, error) {
	order := passOrder{seq: s.seq.Add(1)}
	passID := uuid.NewString()
	devs := append([]reconcile.DeviceDescriptor(nil), devices...)

	statuses, err := s.engine.ReconcileAll(ctx, devs, func(final map[string]reconcile.DriverStatus) {
		s.apply(passID, passOrder{seq: order.seq, final: true}, notify.PhaseFinal, devs, final)
		if onLater != nil {
			onLater(final)
		}
	})
	if err != nil {
		return nil, err
	}

	s.apply(passID, order, phase, devs, statuses)
	return statuses, nil
}

// GetReconciledStatus runs the authoritative check of one device of devices.
func (s *Service) GetReconciledStatus(ctx context.Context, deviceID string, devices []reconcile.DeviceDescriptor) (reconcile.DriverStatus, error) {
	device, ok := findDevice(devices, deviceID)
	if !ok {
		return reconcile.DriverStatus{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	status, err := s.engine.ReconcileOne(ctx, device)
	if err != nil {
		return reconcile.DriverStatus{}, err
	}

	s.mu.Lock()
	prev, had := s.statuses[deviceID]
	s.statuses[deviceID] = status
	s.mu.Unlock()

	var changed []string
	if !had || prev != status {
		changed = []string{deviceID}
	}
	s.publish(uuid.NewString(), notify.PhaseSingle,
		[]reconcile.DeviceDescriptor{device},
		map[string]reconcile.DriverStatus{deviceID: status},
		changed,
	)
	return status, nil
}

// Devices enumerates the inventory and pairs every device with its last
// applied status, or the checking placeholder.
func (s *Service) Devices(ctx context.Context) ([]DeviceStatus, error) {
	devices, err := s.enumerator.EnumerateDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DeviceStatus, 0, len(devices))
	for _, d := range devices {
		st, ok := s.statuses[d.ID]
		if !ok {
			st = reconcile.Checking()
		}
		out = append(out, DeviceStatus{Device: d, Driver: st})
	}
	return out, nil
}

// CheckAll enumerates the inventory and runs the fast bulk pass over it.
func (s *Service) CheckAll(ctx context.Context, onLater reconcile.LaterFunc) (PassResult, error) {
	devices, err := s.enumerator.EnumerateDevices(ctx)
	if err != nil {
		return PassResult{}, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	statuses, err := s.GetReconciledStatuses(ctx, devices, onLater)
	if err != nil {
		return PassResult{}, err
	}

	return PassResult{
		Devices: pair(devices, statuses),
		Summary: reconcile.Summarize(statuses),
		Pending: s.engine.Diagnostics().InFlight,
	}, nil
}

// CheckDevice enumerates the inventory and runs the authoritative check of one device.
func (s *Service) CheckDevice(ctx context.Context, deviceID string) (DeviceStatus, error) {
	devices, err := s.enumerator.EnumerateDevices(ctx)
	if err != nil {
		return DeviceStatus{}, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	status, err := s.GetReconciledStatus(ctx, deviceID, devices)
	if err != nil {
		return DeviceStatus{}, err
	}
	device, _ := findDevice(devices, deviceID)
	return DeviceStatus{Device: device, Driver: status}, nil
}

// Candidates explains how one device resolves against the driver catalog.
func (s *Service) Candidates(ctx context.Context, deviceID string) (reconcile.Explanation, error) {
	devices, err := s.enumerator.EnumerateDevices(ctx)
	if err != nil {
		return reconcile.Explanation{}, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	device, ok := findDevice(devices, deviceID)
	if !ok {
		return reconcile.Explanation{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}
	return s.engine.Explain(ctx, device, s.limit), nil
}

// CacheDiagnostics describes the pending-update cache.
func (s *Service) CacheDiagnostics() reconcile.CacheDiagnostics {
	return s.engine.Diagnostics()
}

// InvalidateCaches drops the catalog and pending-update snapshots.
func (s *Service) InvalidateCaches() {
	s.engine.Invalidate()
}

// Statuses returns a copy of the last applied status map.
func (s *Service) Statuses() map[string]reconcile.DriverStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStatuses(s.statuses)
}

// History returns the newest persisted status records.
func (s *Service) History(ctx context.Context, limit int) ([]StatusRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, limit)
}

// TriggerInstallAll runs the install pipeline and blocks until it ends.
// On success the caches are cleared and a bulk pass runs again. A failed run
// returns the installer error, a *reconcile.InstallError for a non-zero exit.
func (s *Service) TriggerInstallAll(ctx context.Context, onProgress reconcile.ProgressFunc) error {
	if !s.beginInstall() {
		return ErrInstallInProgress
	}
	return s.runInstall(ctx, onProgress)
}

// StartInstall runs the install pipeline in the background. Progress is
// available through InstallProgress.
func (s *Service) StartInstall() error {
	if !s.beginInstall() {
		return ErrInstallInProgress
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.runInstall(context.Background(), nil)
	}()
	return nil
}

// InstallProgress returns the state of the current or last install run.
func (s *Service) InstallProgress() InstallState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.install
}

// Wait blocks until background installs have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) beginInstall() bool {
	if !s.installing.CompareAndSwap(false, true) {
		s.logger.Warn("Driver installation already running")
		return false
	}
	now := time.Now()
	s.mu.Lock()
	s.install = InstallState{Running: true, Message: "Starting driver installation", StartedAt: &now}
	s.mu.Unlock()
	return true
}

func (s *Service) runInstall(ctx context.Context, onProgress reconcile.ProgressFunc) error {
	defer s.installing.Store(false)

	s.logger.Info("Driver installation started")
	err := s.installer.RunInstallPipeline(ctx, func(message string, percent int) {
		s.mu.Lock()
		s.install.Message = message
		s.install.Percent = percent
		s.mu.Unlock()
		s.logger.Info("Install progress", zap.String("message", message), zap.Int("percent", percent))
		if onProgress != nil {
			onProgress(message, percent)
		}
	})
	if err != nil {
		s.logger.Error("Driver installation failed", zap.Error(err))
		s.finishInstall(err)
		return err
	}

	s.engine.Invalidate()
	if devices, err := s.enumerator.EnumerateDevices(ctx); err != nil {
		s.logger.Warn("Failed to enumerate devices after install", zap.Error(err))
	} else if _, err := s.reconcileAll(ctx, devices, notify.PhaseInstall, nil); err != nil {
		s.logger.Warn("Failed to recheck drivers after install", zap.Error(err))
	}

	s.logger.Info("Driver installation finished")
	s.finishInstall(nil)
	return nil
}

func (s *Service) finishInstall(err error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.install.Running = false
	s.install.FinishedAt = &now
	if err == nil {
		s.install.Percent = 100
		return
	}
	s.install.Error = err.Error()
	var installErr *reconcile.InstallError
	if errors.As(err, &installErr) {
		code := installErr.ExitCode
		s.install.ExitCode = &code
	}
}

// apply stores a bulk pass unless a newer one was already applied, then
// records and announces it.
func (s *Service) apply(passID string, order passOrder, phase notify.Phase, devices []reconcile.DeviceDescriptor, statuses map[string]reconcile.DriverStatus) {
	s.mu.Lock()
	if !s.applied.before(order) {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale pass",
			zap.String("pass_id", passID),
			zap.String("phase", string(phase)),
			zap.Uint64("seq", order.seq),
		)
		return
	}
	changed := reconcile.Changed(s.statuses, statuses)
	s.statuses = cloneStatuses(statuses)
	s.applied = order
	s.mu.Unlock()

	s.publish(passID, phase, devices, statuses, changed)
}

// publish writes history, uploads a report and notifies. Failures are logged.
func (s *Service) publish(passID string, phase notify.Phase, devices []reconcile.DeviceDescriptor, statuses map[string]reconcile.DriverStatus, changed []string) {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()

	l := s.logger.With(zap.String("pass_id", passID), zap.String("phase", string(phase)))

	if s.history != nil {
		if err := s.history.Save(ctx, passID, phase, devices, statuses); err != nil {
			l.Warn("Failed to save status history", zap.Error(err))
		}
	}

	report := buildReport(passID, phase, devices, statuses)
	if s.reports != nil {
		if _, err := s.reports.Upload(ctx, report); err != nil {
			l.Warn("Failed to upload report", zap.Error(err))
		}
	}

	if changed == nil {
		changed = []string{}
	}
	err := s.notifier.Notify(ctx, notify.Change{
		PassID:    passID,
		Phase:     phase,
		DeviceIDs: changed,
		Total:     report.Summary.Total,
		Updates:   report.Summary.UpdatesAvailable,
		Timestamp: report.GeneratedAt,
	})
	if err != nil {
		l.Warn("Failed to publish change event", zap.Error(err))
	}

	l.Info("Driver statuses applied",
		zap.Int("devices", report.Summary.Total),
		zap.Int("changed", len(changed)),
		zap.Int("updates", report.Summary.UpdatesAvailable),
	)
}

func findDevice(devices []reconcile.DeviceDescriptor, id string) (reconcile.DeviceDescriptor, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return reconcile.DeviceDescriptor{}, false
}

func pair(devices []reconcile.DeviceDescriptor, statuses map[string]reconcile.DriverStatus) []DeviceStatus {
	out := make([]DeviceStatus, 0, len(devices))
	for _, d := range devices {
		if st, ok := statuses[d.ID]; ok {
			out = append(out, DeviceStatus{Device: d, Driver: st})
		}
	}
	return out
}

func cloneStatuses(in map[string]reconcile.DriverStatus) map[string]reconcile.DriverStatus {
	out := make(map[string]reconcile.DriverStatus, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func sortedIDs(statuses map[string]reconcile.DriverStatus) []string {
	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
