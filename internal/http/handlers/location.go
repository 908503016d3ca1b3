package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/http/response"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/services"
)

type LocationHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewLocationHandler(log *logger.Logger, catalog services.CatalogService) *LocationHandler {
	return &LocationHandler{
		log:     log.With("handler", "LocationHandler"),
		catalog: catalog,
	}
}

// GET /api/buildings/:building_id/locations/:location_id
func (h *LocationHandler) GetLocation(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id")
	if !ok {
		return
	}
	view, err := h.catalog.LocationDetail(c.Request.Context(), ids[0], ids[1])
	if err != nil {
		logUnexpected(h.log, "GetLocation failed", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"building": view.Building,
		"location": view.Location,
		"models":   view.Models,
		"notices":  popFlash(c),
	})
}
