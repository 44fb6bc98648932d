// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow interface used to archive
// reconciliation reports. Both AWS S3 and self-hosted MinIO instances work.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: verify or create the report bucket (EnsureBucket).
//   - PutObject: uploads a report.
//   - ListObjects / RemoveObject: enumerate and prune old reports.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
