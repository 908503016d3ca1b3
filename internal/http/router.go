package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/bexps-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bexps-backend/internal/http/middleware"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	// TracingServiceName enables otelgin spans when non-empty.
	TracingServiceName string
	CORSOrigins        []string

	HealthHandler    *httpH.HealthHandler
	BuildingHandler  *httpH.BuildingHandler
	LocationHandler  *httpH.LocationHandler
	ModelHandler     *httpH.ModelHandler
	IngestHandler    *httpH.IngestHandler
	EquipmentHandler *httpH.EquipmentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingServiceName != "" {
		r.Use(otelgin.Middleware(cfg.TracingServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Buildings
		if cfg.BuildingHandler != nil {
			api.GET("/buildings", cfg.BuildingHandler.ListBuildings)
			api.GET("/buildings/:building_id", cfg.BuildingHandler.GetBuilding)
		}

		location := api.Group("/buildings/:building_id/locations/:location_id")

		if cfg.LocationHandler != nil {
			location.GET("", cfg.LocationHandler.GetLocation)
		}

		// Models
		if cfg.ModelHandler != nil {
			location.POST("/upload-ifc", cfg.ModelHandler.Upload)
			location.POST("/ifc/:ifc_id/delete", cfg.ModelHandler.Delete)
			location.GET("/ifc/:ifc_id/file", cfg.ModelHandler.Download)
		}

		// Element ingestion
		if cfg.IngestHandler != nil {
			location.POST("/ifc/:ifc_id/elements", cfg.IngestHandler.Ingest)
		}

		// Equipment
		if cfg.EquipmentHandler != nil {
			location.GET("/equipment", cfg.EquipmentHandler.Browse)
			location.GET("/equipment/export", cfg.EquipmentHandler.Export)
		}
	}

	return r
}
