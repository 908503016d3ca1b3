package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/bexps-backend/internal/platform/gcp"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode}, StorageProviderBootstrapErrorInvalidMode},
		{"missing bucket", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingBucket}, StorageProviderBootstrapErrorMissingBucket},
		{"missing emulator host", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", &gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidEmulatorHost}, StorageProviderBootstrapErrorInvalidEmulatorHost},
		{"connect failed", errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, tc.err)
			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
		})
	}
}

func TestResolveFileStoreLocal(t *testing.T) {
	store, err := resolveFileStore(logger.Nop(), Config{FileStoreMode: FileStoreModeLocal, FileStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("resolveFileStore: %v", err)
	}
	if store.Kind() != "local" {
		t.Fatalf("kind: want local got %q", store.Kind())
	}
}

func TestResolveFileStoreInvalidMode(t *testing.T) {
	_, err := resolveFileStore(logger.Nop(), Config{FileStoreMode: "s3"})
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("code: want=%q got=%q (err=%v)", StorageProviderBootstrapErrorInvalidMode, code, err)
	}
}

func TestResolveFileStoreGCSModes(t *testing.T) {
	orig := newBucketServiceWithConfig
	t.Cleanup(func() { newBucketServiceWithConfig = orig })

	var captured gcp.ObjectStorageConfig
	newBucketServiceWithConfig = func(_ *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		captured = cfg
		return &testBucketService{}, nil
	}

	store, err := resolveFileStore(logger.Nop(), Config{FileStoreMode: FileStoreModeGCS, ModelBucket: "models"})
	if err != nil {
		t.Fatalf("resolveFileStore gcs: %v", err)
	}
	if store.Kind() != "gcs" || captured.Mode != gcp.ObjectStorageModeGCS || captured.Bucket != "models" {
		t.Fatalf("gcs: kind=%q cfg=%+v", store.Kind(), captured)
	}

	_, err = resolveFileStore(logger.Nop(), Config{
		FileStoreMode:       FileStoreModeGCSEmulator,
		ModelBucket:         "models",
		StorageEmulatorHost: "http://fake-gcs:4443",
	})
	if err != nil {
		t.Fatalf("resolveFileStore emulator: %v", err)
	}
	if captured.Mode != gcp.ObjectStorageModeGCSEmulator || captured.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator: cfg=%+v", captured)
	}
}

func TestResolveFileStoreGCSConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want StorageProviderBootstrapErrorCode
	}{
		{"missing bucket", Config{FileStoreMode: FileStoreModeGCS}, StorageProviderBootstrapErrorMissingBucket},
		{"missing emulator host", Config{FileStoreMode: FileStoreModeGCSEmulator, ModelBucket: "m"}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid emulator host", Config{FileStoreMode: FileStoreModeGCSEmulator, ModelBucket: "m", StorageEmulatorHost: "not-a-url"}, StorageProviderBootstrapErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveFileStore(logger.Nop(), tc.cfg)
			if code := storageProviderBootstrapErrorCode(err); err == nil || code != tc.want {
				t.Fatalf("code: want=%q got=%q (err=%v)", tc.want, code, err)
			}
		})
	}
}

type testBucketService struct{}

func (t *testBucketService) UploadFile(ctx context.Context, key string, file io.Reader) error {
	return nil
}

func (t *testBucketService) DeleteFile(ctx context.Context, key string) error {
	return nil
}

func (t *testBucketService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (t *testBucketService) GetObjectAttrs(ctx context.Context, key string) (*gcp.ObjectAttrs, error) {
	return &gcp.ObjectAttrs{}, nil
}

func (t *testBucketService) BucketName() string { return "test" }
