package app

import (
	"reflect"
	"testing"

	"github.com/yungbote/bexps-backend/internal/data/db"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "FILE_STORE_MODE", "MODEL_FILE_EXTENSIONS", "MAX_UPLOAD_BYTES", "REDIS_ADDR", "DB_DRIVER"} {
		t.Setenv(key, "")
	}
	cfg := LoadConfig(logger.Nop())

	if cfg.Port != "8080" || cfg.FileStoreMode != FileStoreModeLocal || cfg.RedisAddr != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ModelExtensions, []string{".ifc"}) {
		t.Fatalf("extensions: %v", cfg.ModelExtensions)
	}
	if cfg.MaxUploadBytes != 512<<20 || cfg.IngestBatchSize != 1000 {
		t.Fatalf("limits: upload=%d batch=%d", cfg.MaxUploadBytes, cfg.IngestBatchSize)
	}
	if cfg.DB.Driver != db.DriverPostgres {
		t.Fatalf("db driver: %q", cfg.DB.Driver)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("FILE_STORE_MODE", "GCS")
	t.Setenv("MODEL_GCS_BUCKET_NAME", "models")
	t.Setenv("MODEL_FILE_EXTENSIONS", ".ifc, .ifczip")
	t.Setenv("INGEST_BATCH_SIZE", "250")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := LoadConfig(logger.Nop())
	if cfg.FileStoreMode != FileStoreModeGCS || cfg.ModelBucket != "models" {
		t.Fatalf("file store: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.ModelExtensions, []string{".ifc", ".ifczip"}) {
		t.Fatalf("extensions: %v", cfg.ModelExtensions)
	}
	if cfg.IngestBatchSize != 250 || !cfg.Otel.Enabled {
		t.Fatalf("batch=%d otel=%v", cfg.IngestBatchSize, cfg.Otel.Enabled)
	}
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.SQLitePath != "/tmp/x.db" {
		t.Fatalf("db: %+v", cfg.DB)
	}
}
