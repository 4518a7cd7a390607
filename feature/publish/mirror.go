package publish

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"item-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BucketMirror uploads the output tree to object storage.
type BucketMirror struct {
	client  storage.Client
	bucket  string
	region  string
	prefix  string
	root    string
	workers int
	logger  *zap.Logger
}

// NewBucketMirror creates a mirror of root into cfg.Bucket under cfg.Prefix.
func NewBucketMirror(client storage.Client, cfg storage.Config, root string, workers int, logger *zap.Logger) *BucketMirror {
	if workers <= 0 {
		workers = 1
	}
	return &BucketMirror{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		prefix:  cfg.Prefix,
		root:    root,
		workers: workers,
		logger:  logger,
	}
}

// Name identifies the notifier in logs.
func (m *BucketMirror) Name() string {
	return "bucket-mirror"
}

// Notify uploads every file under the root, then removes objects under the
// prefix that no longer exist locally.
func (m *BucketMirror) Notify(ctx context.Context, runID string) error {
	created, err := storage.EnsureBucket(ctx, m.client, m.bucket, m.region)
	if err != nil {
		return err
	}
	if created {
		m.logger.Info("Bucket created", zap.String("bucket", m.bucket))
	}

	var files []string
	err = filepath.WalkDir(m.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", m.root, err)
	}

	var mu sync.Mutex
	uploaded := make(map[string]struct{}, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, f := range files {
		g.Go(func() error {
			key, err := m.upload(gctx, f, runID)
			if err != nil {
				return err
			}
			mu.Lock()
			uploaded[key] = struct{}{}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	removed, err := m.prune(ctx, uploaded)
	if err != nil {
		return err
	}
	m.logger.Info("Bucket mirrored",
		zap.String("bucket", m.bucket),
		zap.Int("uploaded", len(uploaded)),
		zap.Int("removed", removed))
	return nil
}

func (m *BucketMirror) objectKey(file string) (string, error) {
	rel, err := filepath.Rel(m.root, file)
	if err != nil {
		return "", err
	}
	return storage.ObjectKey(m.prefix, filepath.ToSlash(rel)), nil
}

func (m *BucketMirror) upload(ctx context.Context, file, runID string) (string, error) {
	key, err := m.objectKey(file)
	if err != nil {
		return "", err
	}
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType:  contentType(file),
		UserMetadata: map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

func (m *BucketMirror) prune(ctx context.Context, keep map[string]struct{}) (int, error) {
	listPrefix := storage.ListPrefix(m.prefix)

	var stale []minio.ObjectInfo
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: listPrefix, Recursive: true}) {
		if obj.Err != nil {
			return 0, fmt.Errorf("list objects: %w", obj.Err)
		}
		if _, ok := keep[obj.Key]; !ok {
			stale = append(stale, obj)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(stale))
	for _, obj := range stale {
		objectsCh <- obj
	}
	close(objectsCh)

	for rErr := range m.client.RemoveObjects(ctx, m.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rErr.Err != nil {
			return 0, fmt.Errorf("remove %s: %w", rErr.ObjectName, rErr.Err)
		}
	}
	return len(stale), nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
