package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/services"
)

type Services struct {
	Catalog   services.CatalogService
	Model     services.ModelService
	Ingestion services.IngestionService
	Equipment services.EquipmentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	catalog := services.NewCatalogService(db, log, repos.Building, repos.Location, repos.User, repos.IFCModel, repos.ElementType)
	model := services.NewModelService(
		db,
		log,
		services.ModelServiceConfig{
			Extensions:     cfg.ModelExtensions,
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
		catalog,
		repos.IFCModel,
		repos.User,
		clients.Files,
		clients.Events,
		metrics,
	)
	ingestion := services.NewIngestionService(
		db,
		log,
		cfg.IngestBatchSize,
		catalog,
		repos.IFCModel,
		repos.ElementType,
		repos.Element,
		clients.Events,
		metrics,
	)
	equipment := services.NewEquipmentService(db, log, catalog, repos.IFCModel, repos.ElementType, repos.Element, metrics)

	return Services{
		Catalog:   catalog,
		Model:     model,
		Ingestion: ingestion,
		Equipment: equipment,
	}
}
