package app

import (
	"strings"

	"github.com/yungbote/bexps-backend/internal/data/db"
	"github.com/yungbote/bexps-backend/internal/http/handlers"
	"github.com/yungbote/bexps-backend/internal/http/middleware"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/envutil"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/realtime/bus"
	"github.com/yungbote/bexps-backend/internal/services"
)

const (
	FileStoreModeLocal       = "local"
	FileStoreModeGCS         = "gcs"
	FileStoreModeGCSEmulator = "gcs_emulator"
)

type Config struct {
	Port string
	DB   db.Options

	FileStoreMode       string
	FileStoreDir        string
	ModelBucket         string
	StorageEmulatorHost string

	ModelExtensions    []string
	MaxUploadBytes     int64
	IngestBatchSize    int
	MaxIngestBodyBytes int64

	RedisAddr    string
	RedisChannel string

	CORSOrigins []string
	Otel        observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port: envutil.String("PORT", "8080", log),
		DB:   db.OptionsFromEnv(log),

		FileStoreMode:       strings.ToLower(envutil.String("FILE_STORE_MODE", FileStoreModeLocal, log)),
		FileStoreDir:        envutil.String("FILE_STORE_DIR", "./media", log),
		ModelBucket:         envutil.String("MODEL_GCS_BUCKET_NAME", "", log),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", "", log),

		ModelExtensions:    envutil.List("MODEL_FILE_EXTENSIONS", services.DefaultModelExtensions, log),
		MaxUploadBytes:     envutil.Int64("MAX_UPLOAD_BYTES", services.DefaultMaxUploadBytes, log),
		IngestBatchSize:    envutil.Int("INGEST_BATCH_SIZE", services.DefaultIngestBatchSize, log),
		MaxIngestBodyBytes: envutil.Int64("MAX_INGEST_BODY_BYTES", handlers.DefaultMaxIngestBodyBytes, log),

		RedisAddr:    envutil.String("REDIS_ADDR", "", log),
		RedisChannel: envutil.String("REDIS_CHANNEL", bus.DefaultChannel, log),

		CORSOrigins: envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultAllowedOrigins, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "bexps-backend", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "dev", log),
			Exporter:    envutil.String("OTEL_EXPORTER", observability.ExporterOTLP, log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", true, log),
			SampleRatio: envutil.Float("OTEL_SAMPLE_RATIO", 1.0, log),
		},
	}
}
