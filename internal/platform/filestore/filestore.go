package filestore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned by Open, Stat and Delete when no file is stored under key.
var ErrNotExist = errors.New("stored file does not exist")

// Store persists uploaded model files under opaque slash-separated keys.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (*FileInfo, error)
	Delete(ctx context.Context, key string) error
	Kind() string
}

type FileInfo struct {
	Size        int64
	ContentType string
	Updated     time.Time
}
