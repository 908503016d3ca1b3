package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/http/response"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/services"
)

type BuildingHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewBuildingHandler(log *logger.Logger, catalog services.CatalogService) *BuildingHandler {
	return &BuildingHandler{
		log:     log.With("handler", "BuildingHandler"),
		catalog: catalog,
	}
}

// GET /api/buildings
func (h *BuildingHandler) ListBuildings(c *gin.Context) {
	list, err := h.catalog.ListBuildings(c.Request.Context())
	if err != nil {
		logUnexpected(h.log, "ListBuildings failed", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"buildings": list})
}

// GET /api/buildings/:building_id
func (h *BuildingHandler) GetBuilding(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id")
	if !ok {
		return
	}
	view, err := h.catalog.BuildingDetail(c.Request.Context(), ids[0])
	if err != nil {
		logUnexpected(h.log, "GetBuilding failed", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}
