package buildings

import (
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type IFCModelRepo interface {
	Create(dbc dbctx.Context, model *types.IFCModel) (*types.IFCModel, error)
	GetByID(dbc dbctx.Context, id uint) (*types.IFCModel, error)
	GetInLocation(dbc dbctx.Context, buildingID, locationID, modelID uint) (*types.IFCModel, error)
	GetBySHA256(dbc dbctx.Context, sum string) (*types.IFCModel, error)
	ListByBuilding(dbc dbctx.Context, buildingID uint) ([]*types.IFCModel, error)
	ListByLocation(dbc dbctx.Context, locationID uint) ([]*types.IFCModel, error)
	LatestForLocation(dbc dbctx.Context, locationID uint) (*types.IFCModel, error)
	MarkParsed(dbc dbctx.Context, id uint, at time.Time) error
	MarkErrorIfUnparsed(dbc dbctx.Context, id uint) (bool, error)
	DeleteByID(dbc dbctx.Context, id uint) error
}

type ifcModelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIFCModelRepo(db *gorm.DB, baseLog *logger.Logger) IFCModelRepo {
	repoLog := baseLog.With("repo", "IFCModelRepo")
	return &ifcModelRepo{db: db, log: repoLog}
}

func (r *ifcModelRepo) Create(dbc dbctx.Context, model *types.IFCModel) (*types.IFCModel, error) {
	if model.Status == "" {
		model.Status = types.ModelStatusUploaded
	}
	if err := dbc.Conn(r.db).Omit("Building", "Location", "UploadedBy").Create(model).Error; err != nil {
		return nil, err
	}
	return model, nil
}

func (r *ifcModelRepo) GetByID(dbc dbctx.Context, id uint) (*types.IFCModel, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.IFCModel
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

// GetInLocation returns the model only when it is attached to both the
// building and the location; nil, nil otherwise.
func (r *ifcModelRepo) GetInLocation(dbc dbctx.Context, buildingID, locationID, modelID uint) (*types.IFCModel, error) {
	if buildingID == 0 || locationID == 0 || modelID == 0 {
		return nil, nil
	}
	var row types.IFCModel
	if err := dbc.Conn(r.db).
		Where("id = ? AND building_id = ? AND location_id = ?", modelID, buildingID, locationID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *ifcModelRepo) GetBySHA256(dbc dbctx.Context, sum string) (*types.IFCModel, error) {
	sum = strings.ToLower(strings.TrimSpace(sum))
	if sum == "" {
		return nil, nil
	}
	var row types.IFCModel
	if err := dbc.Conn(r.db).Where("sha256 = ?", sum).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *ifcModelRepo) ListByBuilding(dbc dbctx.Context, buildingID uint) ([]*types.IFCModel, error) {
	results := []*types.IFCModel{}
	if buildingID == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Preload("Location").
		Where("building_id = ?", buildingID).
		Order("uploaded_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ifcModelRepo) ListByLocation(dbc dbctx.Context, locationID uint) ([]*types.IFCModel, error) {
	results := []*types.IFCModel{}
	if locationID == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("location_id = ?", locationID).
		Order("uploaded_at DESC").
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ifcModelRepo) LatestForLocation(dbc dbctx.Context, locationID uint) (*types.IFCModel, error) {
	if locationID == 0 {
		return nil, nil
	}
	var row types.IFCModel
	if err := dbc.Conn(r.db).
		Where("location_id = ?", locationID).
		Order("uploaded_at DESC").
		Order("id DESC").
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

// MarkParsed touches only status and parsed_at.
func (r *ifcModelRepo) MarkParsed(dbc dbctx.Context, id uint, at time.Time) error {
	res := dbc.Conn(r.db).
		Model(&types.IFCModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    types.ModelStatusParsed,
			"parsed_at": at.UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkErrorIfUnparsed flips an `uploaded` model to `error`. Parsed models are
// left alone. Reports whether a row changed.
func (r *ifcModelRepo) MarkErrorIfUnparsed(dbc dbctx.Context, id uint) (bool, error) {
	res := dbc.Conn(r.db).
		Model(&types.IFCModel{}).
		Where("id = ? AND status = ?", id, types.ModelStatusUploaded).
		Update("status", types.ModelStatusError)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByID removes the model's elements and then the model. Run it inside a
// transaction to make the pair atomic.
func (r *ifcModelRepo) DeleteByID(dbc dbctx.Context, id uint) error {
	conn := dbc.Conn(r.db)
	if err := conn.Where("ifc_model_id = ?", id).Delete(&types.ModelElement{}).Error; err != nil {
		return err
	}
	res := conn.Where("id = ?", id).Delete(&types.IFCModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
