package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/repos"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type Repos struct {
	Building    repos.BuildingRepo
	Location    repos.LocationRepo
	User        repos.UserRepo
	IFCModel    repos.IFCModelRepo
	ElementType repos.ElementTypeRepo
	Element     repos.ElementRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Building:    repos.NewBuildingRepo(db, log),
		Location:    repos.NewLocationRepo(db, log),
		User:        repos.NewUserRepo(db, log),
		IFCModel:    repos.NewIFCModelRepo(db, log),
		ElementType: repos.NewElementTypeRepo(db, log),
		Element:     repos.NewElementRepo(db, log),
	}
}
