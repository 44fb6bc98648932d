package drivers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"driver-manager/core/matcher"
	"driver-manager/core/notify"
	"driver-manager/core/platform"
	"driver-manager/core/reconcile"
)

var testDevices = []reconcile.DeviceDescriptor{
	{ID: "gpu-0", Category: reconcile.CategoryGPU, Name: "NVIDIA GeForce RTX 3060", Manufacturer: "NVIDIA"},
	{ID: "gpu-1", Category: reconcile.CategoryGPU, Name: "Oray Display Adapter", Manufacturer: "Oray"},
	{ID: "audio-0", Category: reconcile.CategoryAudio, Name: "Realtek Audio", Manufacturer: "Realtek"},
}

var testCatalog = []reconcile.CatalogEntry{
	{DeviceName: "NVIDIA GeForce RTX 3060", Manufacturer: "NVIDIA", Version: "31.0.15.3623", Date: "2023-06-01", Status: "OK"},
}

type stubEnumerator struct {
	devices []reconcile.DeviceDescriptor
	err     error
}

func (s stubEnumerator) EnumerateDevices(context.Context) ([]reconcile.DeviceDescriptor, error) {
	return append([]reconcile.DeviceDescriptor(nil), s.devices...), s.err
}

// countingCatalog wraps platform.Static and counts catalog queries.
type countingCatalog struct {
	platform.Static
	calls atomic.Int32
}

func (c *countingCatalog) FetchCatalog(ctx context.Context) ([]reconcile.CatalogEntry, error) {
	c.calls.Add(1)
	return c.Static.FetchCatalog(ctx)
}

// gatedUpdates returns titles once release is closed.
type gatedUpdates struct {
	titles  []string
	release chan struct{}
}

func (g *gatedUpdates) FetchPendingUpdateTitles(ctx context.Context) ([]string, error) {
	select {
	case <-g.release:
		return g.titles, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type stubInstaller struct {
	steps []int
	err   error
	gate  chan struct{}
}

func (s *stubInstaller) RunInstallPipeline(ctx context.Context, onProgress reconcile.ProgressFunc) error {
	if s.gate != nil {
		<-s.gate
	}
	for _, p := range s.steps {
		onProgress("step", p)
	}
	return s.err
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []notify.Change
}

func (r *recordingNotifier) Notify(_ context.Context, change notify.Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return nil
}

func (r *recordingNotifier) phases() []notify.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Phase, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Phase
	}
	return out
}

type fixture struct {
	service  *Service
	catalog  *countingCatalog
	notifier *recordingNotifier
}

func newFixture(t *testing.T, updates reconcile.UpdateSource, installer reconcile.Installer, opts Options) *fixture {
	t.Helper()

	catalog := &countingCatalog{Static: platform.Static{Entries: testCatalog}}
	if updates == nil {
		updates = platform.Static{}
	}
	if installer == nil {
		installer = &stubInstaller{}
	}
	notifier := &recordingNotifier{}
	opts.Notifier = notifier

	engine := reconcile.NewEngine(
		reconcile.NewCatalogStore(catalog, time.Minute, nil),
		reconcile.NewUpdateLookup(updates, time.Minute, 2*time.Second, nil),
		matcher.New(),
		nil,
	)
	svc := NewService(engine, stubEnumerator{devices: testDevices}, installer, opts, nil)
	t.Cleanup(svc.Wait)

	return &fixture{service: svc, catalog: catalog, notifier: notifier}
}
