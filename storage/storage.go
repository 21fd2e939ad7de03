// Package storage places and reads media files by key. Keys are slash
// separated and relative, e.g. videos/720p/clip_720p.mp4.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"videoflix/config"
)

const (
	DriverLocal = "local"
	DriverMinIO = "minio"
)

var (
	ErrNotExist   = errors.New("object does not exist")
	ErrInvalidKey = errors.New("invalid storage key")
)

// Object is an open, seekable media file. Callers must Close it.
type Object interface {
	io.ReadSeekCloser
	Size() int64
}

type Store interface {
	// Open returns a handle on the object stored at key.
	Open(ctx context.Context, key string) (Object, error)
	// Put copies the local file into the store. Readers never observe a
	// partially written object.
	Put(ctx context.Context, key, localPath string) (int64, error)
	// Save stores everything read from r at key.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes the object. A missing object is not an error.
	Delete(ctx context.Context, key string) error
	// Fetch returns a local path holding the object's bytes, downloading it
	// into dir if needed. The returned file must not be modified.
	Fetch(ctx context.Context, key, dir string) (string, error)
}

// New builds the store selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case DriverLocal, "":
		return NewLocal(cfg.Storage.MediaRoot)
	case DriverMinIO:
		client, err := config.NewMinio(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		return NewMinIO(ctx, client, cfg.MinIO.Bucket)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s (supported: local, minio)", cfg.Storage.Driver)
	}
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// ContentType maps the media extensions this service writes to a MIME type.
func ContentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".mp4":
		return "video/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
