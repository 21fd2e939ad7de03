package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
)

const noSuchKey = "NoSuchKey"

// MinIO keeps objects in a single bucket.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates the bucket when it does not exist yet.
func NewMinIO(ctx context.Context, client *minio.Client, bucket string) (*MinIO, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		zerolog.Ctx(ctx).Info().Str("bucket", bucket).Msg("created bucket")
	}
	return &MinIO{client: client, bucket: bucket}, nil
}

type minioObject struct {
	*minio.Object
	size int64
}

func (o *minioObject) Size() int64 {
	return o.size
}

func translate(err error, key string) error {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	return err
}

func (m *MinIO) Open(ctx context.Context, key string) (Object, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translate(err, key)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, translate(err, key)
	}
	return &minioObject{Object: obj, size: info.Size}, nil
}

func (m *MinIO) Put(ctx context.Context, key, localPath string) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}
	info, err := m.client.FPutObject(ctx, m.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: ContentType(key),
	})
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}
	return info.Size, nil
}

func (m *MinIO) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: ContentType(key),
	})
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}
	return info.Size, nil
}

func (m *MinIO) Exists(ctx context.Context, key string) (bool, error) {
	key, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	_, err = m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return false, nil
	}
	return false, err
}

// Delete succeeds for missing keys; S3 DELETE is idempotent.
func (m *MinIO) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinIO) Fetch(ctx context.Context, key, dir string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, path.Base(key))
	if err := m.client.FGetObject(ctx, m.bucket, key, dst, minio.GetObjectOptions{}); err != nil {
		return "", translate(err, key)
	}
	return dst, nil
}
