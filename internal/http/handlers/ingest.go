package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/http/response"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/services"
)

const DefaultMaxIngestBodyBytes int64 = 256 << 20

type IngestHandler struct {
	log          *logger.Logger
	catalog      services.CatalogService
	ingestion    services.IngestionService
	maxBodyBytes int64
}

func NewIngestHandler(log *logger.Logger, catalog services.CatalogService, ingestion services.IngestionService, maxBodyBytes int64) *IngestHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxIngestBodyBytes
	}
	return &IngestHandler{
		log:          log.With("handler", "IngestHandler"),
		catalog:      catalog,
		ingestion:    ingestion,
		maxBodyBytes: maxBodyBytes,
	}
}

// POST /api/buildings/:building_id/locations/:location_id/ifc/:ifc_id/elements
func (h *IngestHandler) Ingest(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id", "ifc_id")
	if !ok {
		return
	}

	// An unknown building, location or model is reported before any problem with the body.
	if _, err := h.catalog.ResolveModel(c.Request.Context(), ids[0], ids[1], ids[2]); err != nil {
		logUnexpected(h.log, "Ingest failed", err)
		response.RespondAPIError(c, err)
		return
	}

	mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil || mediaType != "application/json" {
		response.RespondAPIError(c, apierr.BadRequest("unsupported_content_type",
			errors.New("content type must be application/json")))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "request_too_large", err))
			return
		}
		response.RespondAPIError(c, apierr.BadRequest("invalid_json", err))
		return
	}

	res, err := h.ingestion.Ingest(c.Request.Context(), ids[0], ids[1], ids[2], body)
	if err != nil {
		logUnexpected(h.log, "Ingest failed", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"ok":      true,
		"created": res.Created,
		"skipped": res.Skipped,
	})
}
