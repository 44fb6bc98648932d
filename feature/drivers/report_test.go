package drivers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"driver-manager/core/notify"
	"driver-manager/core/reconcile"
	"driver-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func objectChan(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestReports_Upload(t *testing.T) {
	client := new(mocks.Client)
	var body []byte

	client.On("PutObject", mock.Anything, "driver-reports",
		"reports/pc-1/20240301T120000.000000000Z-final.json",
		mock.Anything, mock.Anything,
		mock.MatchedBy(func(o minio.PutObjectOptions) bool { return o.ContentType == "application/json" }),
	).Run(func(args mock.Arguments) {
		body, _ = io.ReadAll(args.Get(3).(io.Reader))
	}).Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", mock.Anything, "driver-reports", mock.Anything).
		Return(objectChan("reports/pc-1/20240301T120000.000000000Z-final.json"))

	r := NewReports(client, "driver-reports", "pc-1", 5, nil)
	statuses := map[string]reconcile.DriverStatus{"gpu-0": {Status: reconcile.StatusOutdated, UpdateAvailable: true}}
	report := buildReport("pass-1", notify.PhaseFinal, testDevices, statuses)
	report.GeneratedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	key, err := r.Upload(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "reports/pc-1/20240301T120000.000000000Z-final.json", key)

	var decoded Report
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "pc-1", decoded.Host)
	assert.Equal(t, "pass-1", decoded.PassID)
	assert.Equal(t, 1, decoded.Summary.UpdatesAvailable)
	require.Len(t, decoded.Devices, 1)
	assert.Equal(t, "gpu-0", decoded.Devices[0].Device.ID)

	client.AssertExpectations(t)
}

func TestReports_Prune(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", mock.Anything, "bucket",
		mock.MatchedBy(func(o minio.ListObjectsOptions) bool { return o.Prefix == "reports/pc-1/" && o.Recursive }),
	).Return(objectChan(
		"reports/pc-1/20240301T120003.000000000Z-initial.json",
		"reports/pc-1/20240301T120001.000000000Z-initial.json",
		"reports/pc-1/20240301T120002.000000000Z-final.json",
		"reports/pc-1/20240301T120004.000000000Z-final.json",
	))
	client.On("RemoveObject", mock.Anything, "bucket", "reports/pc-1/20240301T120001.000000000Z-initial.json", mock.Anything).Return(nil)
	client.On("RemoveObject", mock.Anything, "bucket", "reports/pc-1/20240301T120002.000000000Z-final.json", mock.Anything).Return(nil)

	r := NewReports(client, "bucket", "pc-1", 2, nil)
	_, err := r.Upload(context.Background(), Report{Phase: notify.PhaseFinal})
	require.NoError(t, err)

	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "RemoveObject", 2)
}

func TestReports_NoRetentionSkipsListing(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	r := NewReports(client, "bucket", "pc-1", 0, nil)
	key, err := r.Upload(context.Background(), Report{Phase: notify.PhaseInitial})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "reports/pc-1/"))
	assert.True(t, strings.HasSuffix(key, "-initial.json"))
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

func TestReports_UploadError(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	r := NewReports(client, "bucket", "pc-1", 5, nil)
	_, err := r.Upload(context.Background(), Report{Phase: notify.PhaseInitial})
	assert.ErrorContains(t, err, "access denied")
}

func TestService_UploadsReports(t *testing.T) {
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "bucket", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	f := newFixture(t, nil, nil, Options{Reports: NewReports(client, "bucket", "pc-1", 0, nil)})

	_, err := f.service.CheckDevice(context.Background(), "gpu-0")
	require.NoError(t, err)

	client.AssertCalled(t, "PutObject", mock.Anything, "bucket",
		mock.MatchedBy(func(key string) bool { return strings.HasSuffix(key, "-single.json") }),
		mock.Anything, mock.Anything, mock.Anything)
}
