package app

import (
	httpH "github.com/yungbote/bexps-backend/internal/http/handlers"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Building  *httpH.BuildingHandler
	Location  *httpH.LocationHandler
	Model     *httpH.ModelHandler
	Ingest    *httpH.IngestHandler
	Equipment *httpH.EquipmentHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Building:  httpH.NewBuildingHandler(log, services.Catalog),
		Location:  httpH.NewLocationHandler(log, services.Catalog),
		Model:     httpH.NewModelHandler(log, services.Model, cfg.MaxUploadBytes),
		Ingest:    httpH.NewIngestHandler(log, services.Catalog, services.Ingestion, cfg.MaxIngestBodyBytes),
		Equipment: httpH.NewEquipmentHandler(log, services.Equipment),
	}
}
