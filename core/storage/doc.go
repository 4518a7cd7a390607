// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface so the published item
// tree can be mirrored to AWS S3 or a self-hosted MinIO instance, and so the
// mirror can be unit tested with the mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: ensure the target bucket.
//   - PutObject: upload one document.
//   - ListObjects / RemoveObjects: prune objects no longer published.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
