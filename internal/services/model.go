package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/db"
	"github.com/yungbote/bexps-backend/internal/data/repos"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/filestore"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/realtime/bus"
)

const (
	DefaultMaxUploadBytes int64 = 512 << 20

	msgRequired = "This field is required."
)

var DefaultModelExtensions = []string{".ifc"}

type ModelServiceConfig struct {
	// Extensions are matched case-insensitively against the upload's file name.
	Extensions     []string
	MaxUploadBytes int64
}

type UploadInput struct {
	ModelName string
	FileName  string
	Size      int64
	// Reader is nil when no file was sent. It is read twice: once to hash
	// and once to store.
	Reader          io.ReadSeeker
	UploadedByEmail string
}

// ModelFile is an open stored file. Size and ContentType come from the
// file store, not from the upload record.
type ModelFile struct {
	Model       *types.IFCModel
	Reader      io.ReadCloser
	Size        int64
	ContentType string
}

type ModelService interface {
	Upload(ctx context.Context, buildingID, locationID uint, in UploadInput) (*types.IFCModel, error)
	Delete(ctx context.Context, buildingID, locationID, modelID uint) (string, error)
	OpenFile(ctx context.Context, buildingID, locationID, modelID uint) (*ModelFile, error)
}

type modelService struct {
	db      *gorm.DB
	log     *logger.Logger
	cfg     ModelServiceConfig
	catalog CatalogService
	models  repos.IFCModelRepo
	users   repos.UserRepo
	files   filestore.Store
	events  bus.Bus
	metrics *observability.Metrics
}

func NewModelService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg ModelServiceConfig,
	catalog CatalogService,
	models repos.IFCModelRepo,
	users repos.UserRepo,
	files filestore.Store,
	events bus.Bus,
	metrics *observability.Metrics,
) ModelService {
	serviceLog := baseLog.With("service", "ModelService")
	cfg.Extensions = normalizeExtensions(cfg.Extensions)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if events == nil {
		events = bus.NewNoopBus()
	}
	return &modelService{
		db:      db,
		log:     serviceLog,
		cfg:     cfg,
		catalog: catalog,
		models:  models,
		users:   users,
		files:   files,
		events:  events,
		metrics: metrics,
	}
}

func normalizeExtensions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, ext := range in {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultModelExtensions...)
	}
	return out
}

// matchExtension returns the recognized extension the file name ends with.
func (s *modelService) matchExtension(fileName string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(fileName))
	for _, ext := range s.cfg.Extensions {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return ext, true
		}
	}
	return "", false
}

func (s *modelService) Upload(ctx context.Context, buildingID, locationID uint, in UploadInput) (*types.IFCModel, error) {
	b, loc, err := s.catalog.ResolveLocation(ctx, buildingID, locationID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	fields := map[string]string{}
	modelName := strings.TrimSpace(in.ModelName)
	if modelName == "" {
		fields["model_name"] = msgRequired
	}
	ext := ""
	switch {
	case in.Reader == nil || strings.TrimSpace(in.FileName) == "":
		fields["ifc_file"] = msgRequired
	case in.Size > s.cfg.MaxUploadBytes:
		fields["ifc_file"] = fmt.Sprintf("File is too large (max %d bytes).", s.cfg.MaxUploadBytes)
	default:
		matched, ok := s.matchExtension(in.FileName)
		if !ok {
			fields["ifc_file"] = fmt.Sprintf("Unsupported file extension. Allowed: %s.", strings.Join(s.cfg.Extensions, ", "))
		}
		ext = matched
	}

	var uploadedByID *uint
	if email := strings.TrimSpace(in.UploadedByEmail); email != "" {
		u, err := s.users.GetByEmail(dbc, email)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if u == nil {
			fields["uploaded_by"] = "Unknown user."
		} else {
			uploadedByID = &u.ID
		}
	}
	if len(fields) > 0 {
		s.metrics.ObserveUpload("invalid", 0)
		return nil, apierr.Validation(fields)
	}

	sum, size, err := hashContent(in.Reader)
	if err != nil {
		return nil, fmt.Errorf("hash upload: %w", err)
	}
	existing, err := s.models.GetBySHA256(dbc, sum)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if existing != nil {
		s.metrics.ObserveUpload("duplicate", 0)
		return nil, apierr.Conflict("duplicate_model_file", fmt.Errorf("this file was already uploaded as model %d", existing.ID))
	}

	key := fmt.Sprintf("ifc/%d/%d/%s%s", b.ID, loc.ID, uuid.NewString(), ext)
	if err := s.files.Put(ctx, key, in.Reader); err != nil {
		s.metrics.ObserveUpload("error", 0)
		return nil, fmt.Errorf("store model file: %w", err)
	}

	model := &types.IFCModel{
		BuildingID:   b.ID,
		LocationID:   loc.ID,
		ModelName:    modelName,
		FileKey:      &key,
		FileName:     path.Base(strings.ReplaceAll(in.FileName, "\\", "/")),
		SizeBytes:    size,
		SHA256:       sum,
		Status:       types.ModelStatusUploaded,
		UploadedByID: uploadedByID,
	}
	if _, err := s.models.Create(dbc, model); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.log.Error("Compensating file delete failed", "file_key", key, "error", delErr)
		}
		err = db.Classify(err)
		if errors.Is(err, db.ErrDuplicate) {
			s.metrics.ObserveUpload("duplicate", 0)
			return nil, apierr.Conflict("duplicate_model_file", fmt.Errorf("this file was already uploaded: %w", err))
		}
		s.metrics.ObserveUpload("error", 0)
		return nil, fmt.Errorf("create model: %w", err)
	}

	s.metrics.ObserveUpload("ok", size)
	s.log.Info("Model uploaded",
		"building_id", b.ID,
		"location_id", loc.ID,
		"model_id", model.ID,
		"size_bytes", size,
		"store", s.files.Kind(),
	)
	publishModelEvent(ctx, s.events, s.metrics, s.log, bus.ModelEvent{
		Type:       bus.EventModelUploaded,
		BuildingID: b.ID,
		LocationID: loc.ID,
		ModelID:    model.ID,
		ModelName:  model.ModelName,
	})
	return model, nil
}

// hashContent reads r to the end and rewinds it.
func hashContent(r io.ReadSeeker) (string, int64, error) {
	h := sha256.New()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", 0, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

func (s *modelService) Delete(ctx context.Context, buildingID, locationID, modelID uint) (string, error) {
	model, err := s.catalog.ResolveModel(ctx, buildingID, locationID, modelID)
	if err != nil {
		return "", err
	}

	if model.HasFile() {
		if err := s.files.Delete(ctx, *model.FileKey); err != nil && !errors.Is(err, filestore.ErrNotExist) {
			s.metrics.IncOrphanedFile()
			s.log.Warn("Model file delete failed",
				"model_id", model.ID,
				"file_key", *model.FileKey,
				"orphan_risk", true,
				"error", err,
			)
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.models.DeleteByID(dbctx.Context{Ctx: ctx, Tx: tx}, model.ID)
	})
	if err != nil {
		err = db.Classify(err)
		if errors.Is(err, db.ErrNotFound) {
			return "", apierr.NotFound("model")
		}
		return "", fmt.Errorf("delete model: %w", err)
	}

	s.metrics.IncModelDeleted()
	s.log.Info("Model deleted", "model_id", model.ID, "building_id", model.BuildingID, "location_id", model.LocationID)
	publishModelEvent(ctx, s.events, s.metrics, s.log, bus.ModelEvent{
		Type:       bus.EventModelDeleted,
		BuildingID: model.BuildingID,
		LocationID: model.LocationID,
		ModelID:    model.ID,
		ModelName:  model.ModelName,
	})
	return model.ModelName, nil
}

func (s *modelService) OpenFile(ctx context.Context, buildingID, locationID, modelID uint) (*ModelFile, error) {
	model, err := s.catalog.ResolveModel(ctx, buildingID, locationID, modelID)
	if err != nil {
		return nil, err
	}
	if !model.HasFile() {
		return nil, apierr.NotFound("model file")
	}
	info, err := s.files.Stat(ctx, *model.FileKey)
	if err != nil {
		if errors.Is(err, filestore.ErrNotExist) {
			return nil, apierr.NotFound("model file")
		}
		return nil, fmt.Errorf("stat model file: %w", err)
	}
	rc, err := s.files.Open(ctx, *model.FileKey)
	if err != nil {
		if errors.Is(err, filestore.ErrNotExist) {
			return nil, apierr.NotFound("model file")
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	return &ModelFile{Model: model, Reader: rc, Size: info.Size, ContentType: info.ContentType}, nil
}
