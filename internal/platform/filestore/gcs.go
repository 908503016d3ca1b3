package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yungbote/bexps-backend/internal/platform/gcp"
)

type gcsStore struct {
	bucket gcp.BucketService
}

// NewGCSStore adapts a bucket client to Store.
func NewGCSStore(bucket gcp.BucketService) Store {
	return &gcsStore{bucket: bucket}
}

func (s *gcsStore) Kind() string { return "gcs" }

func (s *gcsStore) Put(ctx context.Context, key string, r io.Reader) error {
	return s.bucket.UploadFile(ctx, key, r)
}

func (s *gcsStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.bucket.DownloadFile(ctx, key)
	if err != nil {
		return nil, translateGCSErr(err)
	}
	return rc, nil
}

func (s *gcsStore) Stat(ctx context.Context, key string) (*FileInfo, error) {
	attrs, err := s.bucket.GetObjectAttrs(ctx, key)
	if err != nil {
		return nil, translateGCSErr(err)
	}
	contentType := attrs.ContentType
	if contentType == "" {
		contentType = gcp.ContentTypeForKey(key)
	}
	return &FileInfo{Size: attrs.Size, ContentType: contentType, Updated: attrs.Updated}, nil
}

func (s *gcsStore) Delete(ctx context.Context, key string) error {
	return translateGCSErr(s.bucket.DeleteFile(ctx, key))
}

func translateGCSErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gcp.ErrObjectNotExist) {
		return fmt.Errorf("%v: %w", err, ErrNotExist)
	}
	return err
}
