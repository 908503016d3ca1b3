package buildings

import (
	"gorm.io/gorm"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type BuildingRepo interface {
	Create(dbc dbctx.Context, building *types.Building) (*types.Building, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Building, error)
	ListOrderedByName(dbc dbctx.Context) ([]*types.Building, error)
}

type buildingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBuildingRepo(db *gorm.DB, baseLog *logger.Logger) BuildingRepo {
	repoLog := baseLog.With("repo", "BuildingRepo")
	return &buildingRepo{db: db, log: repoLog}
}

func (r *buildingRepo) Create(dbc dbctx.Context, building *types.Building) (*types.Building, error) {
	if err := dbc.Conn(r.db).Create(building).Error; err != nil {
		return nil, err
	}
	return building, nil
}

// GetByID returns nil, nil when the building does not exist.
func (r *buildingRepo) GetByID(dbc dbctx.Context, id uint) (*types.Building, error) {
	if id == 0 {
		return nil, nil
	}
	var row types.Building
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *buildingRepo) ListOrderedByName(dbc dbctx.Context) ([]*types.Building, error) {
	results := []*types.Building{}
	if err := dbc.Conn(r.db).Order("name ASC").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
