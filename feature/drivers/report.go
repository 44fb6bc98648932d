package drivers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"driver-manager/core/notify"
	"driver-manager/core/reconcile"
	"driver-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// reportTimeLayout sorts lexicographically in time order.
const reportTimeLayout = "20060102T150405.000000000Z"

// DeviceStatus pairs a device with its driver status.
type DeviceStatus struct {
	Device reconcile.DeviceDescriptor `json:"device"`
	Driver reconcile.DriverStatus     `json:"driver"`
}

// Report is the JSON document uploaded after a pass.
type Report struct {
	PassID      string            `json:"pass_id"`
	Phase       notify.Phase      `json:"phase"`
	Host        string            `json:"host"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     reconcile.Summary `json:"summary"`
	Devices     []DeviceStatus    `json:"devices"`
}

// Reports uploads pass reports to object storage and prunes old ones.
type Reports struct {
	client storage.Client
	bucket string
	host   string
	retain int
	logger *zap.Logger
}

// NewReports creates a report uploader. retain is the number of reports kept
// for host; zero keeps all of them.
func NewReports(client storage.Client, bucket, host string, retain int, logger *zap.Logger) *Reports {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reports{client: client, bucket: bucket, host: host, retain: retain, logger: logger}
}

func (r *Reports) prefix() string {
	return fmt.Sprintf("reports/%s/", r.host)
}

// Upload stores report under reports/<host>/<time>-<phase>.json and returns the key.
func (r *Reports) Upload(ctx context.Context, report Report) (string, error) {
	if report.Host == "" {
		report.Host = r.host
	}
	if report.GeneratedAt.IsZero() {
		report.GeneratedAt = time.Now()
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	key := fmt.Sprintf("%s%s-%s.json", r.prefix(), report.GeneratedAt.UTC().Format(reportTimeLayout), report.Phase)
	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", key, err)
	}

	r.logger.Debug("Report uploaded", zap.String("key", key), zap.Int("bytes", len(payload)))

	if err := r.prune(ctx); err != nil {
		r.logger.Warn("Failed to prune reports", zap.Error(err))
	}
	return key, nil
}

// prune removes the oldest reports of the host beyond the retention count.
func (r *Reports) prune(ctx context.Context) error {
	if r.retain <= 0 {
		return nil
	}

	var keys []string
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Prefix: r.prefix(), Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	if len(keys) <= r.retain {
		return nil
	}

	sort.Strings(keys)
	for _, key := range keys[:len(keys)-r.retain] {
		if err := r.client.RemoveObject(ctx, r.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove report %s: %w", key, err)
		}
		r.logger.Debug("Report pruned", zap.String("key", key))
	}
	return nil
}

// buildReport assembles a report from a status map in device order.
func buildReport(passID string, phase notify.Phase, devices []reconcile.DeviceDescriptor, statuses map[string]reconcile.DriverStatus) Report {
	return Report{
		PassID:      passID,
		Phase:       phase,
		GeneratedAt: time.Now(),
		Summary:     reconcile.Summarize(statuses),
		Devices:     pair(devices, statuses),
	}
}
