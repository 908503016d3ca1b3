package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/repos/buildings"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type BuildingRepo = buildings.BuildingRepo
type LocationRepo = buildings.LocationRepo
type UserRepo = buildings.UserRepo

type IFCModelRepo = buildings.IFCModelRepo
type ElementTypeRepo = buildings.ElementTypeRepo
type ElementRepo = buildings.ElementRepo
type ElementFilter = buildings.ElementFilter

func NewBuildingRepo(db *gorm.DB, baseLog *logger.Logger) BuildingRepo {
	return buildings.NewBuildingRepo(db, baseLog)
}
func NewLocationRepo(db *gorm.DB, baseLog *logger.Logger) LocationRepo {
	return buildings.NewLocationRepo(db, baseLog)
}
func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return buildings.NewUserRepo(db, baseLog)
}

func NewIFCModelRepo(db *gorm.DB, baseLog *logger.Logger) IFCModelRepo {
	return buildings.NewIFCModelRepo(db, baseLog)
}
func NewElementTypeRepo(db *gorm.DB, baseLog *logger.Logger) ElementTypeRepo {
	return buildings.NewElementTypeRepo(db, baseLog)
}
func NewElementRepo(db *gorm.DB, baseLog *logger.Logger) ElementRepo {
	return buildings.NewElementRepo(db, baseLog)
}
