package app

import (
	"github.com/yungbote/bexps-backend/internal/http"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	tracingName := ""
	if cfg.Otel.Enabled {
		tracingName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		TracingServiceName: tracingName,
		CORSOrigins:        cfg.CORSOrigins,
		HealthHandler:      handlers.Health,
		BuildingHandler:    handlers.Building,
		LocationHandler:    handlers.Location,
		ModelHandler:       handlers.Model,
		IngestHandler:      handlers.Ingest,
		EquipmentHandler:   handlers.Equipment,
	})
}
