package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/http/response"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type EquipmentHandler struct {
	log       *logger.Logger
	equipment services.EquipmentService
}

func NewEquipmentHandler(log *logger.Logger, equipment services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{
		log:       log.With("handler", "EquipmentHandler"),
		equipment: equipment,
	}
}

// equipmentQuery reads ifc, q and type. An ifc value that is present but not
// a positive integer is answered with 404.
func equipmentQuery(c *gin.Context) (services.EquipmentQuery, bool) {
	q := services.EquipmentQuery{
		Q:    c.Query("q"),
		Type: c.Query("type"),
	}
	if raw, present := c.GetQuery("ifc"); present && raw != "" {
		id, ok := parseID(raw)
		if !ok {
			response.RespondAPIError(c, apierr.NotFound("model"))
			return q, false
		}
		q.ModelID = &id
	}
	return q, true
}

// GET /api/buildings/:building_id/locations/:location_id/equipment
func (h *EquipmentHandler) Browse(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id")
	if !ok {
		return
	}
	q, ok := equipmentQuery(c)
	if !ok {
		return
	}
	view, err := h.equipment.Browse(c.Request.Context(), ids[0], ids[1], q)
	if err != nil {
		logUnexpected(h.log, "Browse failed", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/buildings/:building_id/locations/:location_id/equipment/export
func (h *EquipmentHandler) Export(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id")
	if !ok {
		return
	}
	q, ok := equipmentQuery(c)
	if !ok {
		return
	}
	out, err := h.equipment.Export(c.Request.Context(), ids[0], ids[1], q)
	if err != nil {
		logUnexpected(h.log, "Export failed", err)
		response.RespondAPIError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.FileName))
	c.Data(http.StatusOK, xlsxContentType, out.Content)
}
