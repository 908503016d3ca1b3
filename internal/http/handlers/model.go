package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bexps-backend/internal/http/response"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/services"
)

const multipartMemory = 32 << 20

type ModelHandler struct {
	log            *logger.Logger
	models         services.ModelService
	maxUploadBytes int64
}

// NewModelHandler caps request bodies slightly above maxUploadBytes so the
// service can still report an oversized file as a field error.
func NewModelHandler(log *logger.Logger, models services.ModelService, maxUploadBytes int64) *ModelHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = services.DefaultMaxUploadBytes
	}
	return &ModelHandler{
		log:            log.With("handler", "ModelHandler"),
		models:         models,
		maxUploadBytes: maxUploadBytes,
	}
}

// POST /api/buildings/:building_id/locations/:location_id/upload-ifc
func (h *ModelHandler) Upload(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartMemory)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondAPIError(c, apierr.New(http.StatusRequestEntityTooLarge, "request_too_large", err))
			return
		}
		response.RespondAPIError(c, apierr.BadRequest("invalid_multipart_form", err))
		return
	}
	defer func() {
		if c.Request.MultipartForm != nil {
			_ = c.Request.MultipartForm.RemoveAll()
		}
	}()

	in := services.UploadInput{
		ModelName:       c.PostForm("model_name"),
		UploadedByEmail: c.PostForm("uploaded_by"),
	}
	var file multipart.File
	if fh, err := c.FormFile("ifc_file"); err == nil {
		file, err = fh.Open()
		if err != nil {
			h.log.Error("open uploaded file failed", "error", err)
			response.RespondAPIError(c, err)
			return
		}
		defer file.Close()
		in.FileName = filepath.Base(fh.Filename)
		in.Size = fh.Size
		in.Reader = file
	} else if !errors.Is(err, http.ErrMissingFile) {
		response.RespondAPIError(c, apierr.BadRequest("invalid_multipart_form", err))
		return
	}

	if _, err := h.models.Upload(c.Request.Context(), ids[0], ids[1], in); err != nil {
		logUnexpected(h.log, "Upload failed", err)
		response.RespondAPIError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, locationURL(ids[0], ids[1]))
}

// POST /api/buildings/:building_id/locations/:location_id/ifc/:ifc_id/delete
func (h *ModelHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id", "ifc_id")
	if !ok {
		return
	}
	name, err := h.models.Delete(c.Request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		logUnexpected(h.log, "Delete failed", err)
		response.RespondAPIError(c, err)
		return
	}
	addFlash(c, "Deleted: "+name)
	c.Redirect(http.StatusSeeOther, locationURL(ids[0], ids[1]))
}

// GET /api/buildings/:building_id/locations/:location_id/ifc/:ifc_id/file
func (h *ModelHandler) Download(c *gin.Context) {
	ids, ok := pathIDs(c, "building_id", "location_id", "ifc_id")
	if !ok {
		return
	}
	mf, err := h.models.OpenFile(c.Request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		logUnexpected(h.log, "Download failed", err)
		response.RespondAPIError(c, err)
		return
	}
	defer mf.Reader.Close()

	name := mf.Model.FileName
	if name == "" {
		name = filepath.Base(*mf.Model.FileKey)
	}
	size := mf.Size
	if size <= 0 {
		size = -1
	}
	contentType := mf.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, mf.Reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}
