package buildings

import (
	"gorm.io/gorm"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type LocationRepo interface {
	Create(dbc dbctx.Context, location *types.Location) (*types.Location, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Location, error)
	GetInBuilding(dbc dbctx.Context, buildingID, locationID uint) (*types.Location, error)
	ListByBuilding(dbc dbctx.Context, buildingID uint) ([]*types.Location, error)
}

type locationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLocationRepo(db *gorm.DB, baseLog *logger.Logger) LocationRepo {
	repoLog := baseLog.With("repo", "LocationRepo")
	return &locationRepo{db: db, log: repoLog}
}

func (r *locationRepo) Create(dbc dbctx.Context, location *types.Location) (*types.Location, error) {
	if err := dbc.Conn(r.db).Omit("Building", "Parent").Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}

func (r *locationRepo) GetByID(dbc dbctx.Context, id uint) (*types.Location, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Location
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

// GetInBuilding returns nil, nil unless the location exists and belongs to the building.
func (r *locationRepo) GetInBuilding(dbc dbctx.Context, buildingID, locationID uint) (*types.Location, error) {
	if buildingID == 0 || locationID == 0 {
		return nil, nil
	}
	var row types.Location
	if err := dbc.Conn(r.db).
		Where("id = ? AND building_id = ?", locationID, buildingID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *locationRepo) ListByBuilding(dbc dbctx.Context, buildingID uint) ([]*types.Location, error) {
	results := []*types.Location{}
	if buildingID == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Preload("Parent").
		Where("building_id = ?", buildingID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
