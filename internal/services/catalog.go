package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/repos"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type BuildingView struct {
	Building  *types.Building   `json:"building"`
	Locations []*types.Location `json:"locations"`
	Models    []*types.IFCModel `json:"models"`
}

type LocationView struct {
	Building *types.Building   `json:"building"`
	Location *types.Location   `json:"location"`
	Models   []*types.IFCModel `json:"models"`
}

type CatalogService interface {
	ListBuildings(ctx context.Context) ([]*types.Building, error)
	BuildingDetail(ctx context.Context, buildingID uint) (*BuildingView, error)
	LocationDetail(ctx context.Context, buildingID, locationID uint) (*LocationView, error)

	ResolveLocation(ctx context.Context, buildingID, locationID uint) (*types.Building, *types.Location, error)
	ResolveModel(ctx context.Context, buildingID, locationID, modelID uint) (*types.IFCModel, error)

	CreateBuilding(ctx context.Context, b *types.Building) (*types.Building, error)
	CreateLocation(ctx context.Context, loc *types.Location) (*types.Location, error)
	UpsertUser(ctx context.Context, u *types.User) (*types.User, error)
	UpsertElementTypes(ctx context.Context, labels map[string]string) (map[string]*types.ElementType, error)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	buildings    repos.BuildingRepo
	locations    repos.LocationRepo
	users        repos.UserRepo
	models       repos.IFCModelRepo
	elementTypes repos.ElementTypeRepo
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	buildings repos.BuildingRepo,
	locations repos.LocationRepo,
	users repos.UserRepo,
	models repos.IFCModelRepo,
	elementTypes repos.ElementTypeRepo,
) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	return &catalogService{
		db:           db,
		log:          serviceLog,
		buildings:    buildings,
		locations:    locations,
		users:        users,
		models:       models,
		elementTypes: elementTypes,
	}
}

func (s *catalogService) ListBuildings(ctx context.Context) ([]*types.Building, error) {
	list, err := s.buildings.ListOrderedByName(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return list, nil
}

func (s *catalogService) BuildingDetail(ctx context.Context, buildingID uint) (*BuildingView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	b, err := s.buildings.GetByID(dbc, buildingID)
	if err != nil {
		return nil, fmt.Errorf("load building: %w", err)
	}
	if b == nil {
		return nil, apierr.NotFound("building")
	}

	view := &BuildingView{Building: b}
	g, gctx := errgroup.WithContext(ctx)
	if inTransaction(s.db) {
		// One transaction connection cannot serve two queries at once.
		g.SetLimit(1)
	}
	g.Go(func() error {
		locs, err := s.locations.ListByBuilding(dbctx.Context{Ctx: gctx}, b.ID)
		if err != nil {
			return fmt.Errorf("list locations: %w", err)
		}
		view.Locations = locs
		return nil
	})
	g.Go(func() error {
		models, err := s.models.ListByBuilding(dbctx.Context{Ctx: gctx}, b.ID)
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		view.Models = models
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *catalogService) LocationDetail(ctx context.Context, buildingID, locationID uint) (*LocationView, error) {
	b, loc, err := s.ResolveLocation(ctx, buildingID, locationID)
	if err != nil {
		return nil, err
	}
	models, err := s.models.ListByLocation(dbctx.Context{Ctx: ctx}, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return &LocationView{Building: b, Location: loc, Models: models}, nil
}

func (s *catalogService) ResolveLocation(ctx context.Context, buildingID, locationID uint) (*types.Building, *types.Location, error) {
	dbc := dbctx.Context{Ctx: ctx}
	b, err := s.buildings.GetByID(dbc, buildingID)
	if err != nil {
		return nil, nil, fmt.Errorf("load building: %w", err)
	}
	if b == nil {
		return nil, nil, apierr.NotFound("building")
	}
	loc, err := s.locations.GetInBuilding(dbc, b.ID, locationID)
	if err != nil {
		return nil, nil, fmt.Errorf("load location: %w", err)
	}
	if loc == nil {
		return nil, nil, apierr.NotFound("location")
	}
	return b, loc, nil
}

func (s *catalogService) ResolveModel(ctx context.Context, buildingID, locationID, modelID uint) (*types.IFCModel, error) {
	if _, _, err := s.ResolveLocation(ctx, buildingID, locationID); err != nil {
		return nil, err
	}
	m, err := s.models.GetInLocation(dbctx.Context{Ctx: ctx}, buildingID, locationID, modelID)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if m == nil {
		return nil, apierr.NotFound("model")
	}
	return m, nil
}

func (s *catalogService) CreateBuilding(ctx context.Context, b *types.Building) (*types.Building, error) {
	if b == nil || strings.TrimSpace(b.Name) == "" {
		return nil, apierr.Validation(map[string]string{"name": "This field is required."})
	}
	b.Name = strings.TrimSpace(b.Name)
	created, err := s.buildings.Create(dbctx.Context{Ctx: ctx}, b)
	if err != nil {
		return nil, fmt.Errorf("create building: %w", err)
	}
	s.log.Info("Building created", "building_id", created.ID)
	return created, nil
}

// CreateLocation rejects a parent that is missing or belongs to another building.
func (s *catalogService) CreateLocation(ctx context.Context, loc *types.Location) (*types.Location, error) {
	if loc == nil {
		return nil, apierr.Validation(map[string]string{"name": "This field is required."})
	}
	fields := map[string]string{}
	loc.Name = strings.TrimSpace(loc.Name)
	loc.LocationType = strings.TrimSpace(loc.LocationType)
	if loc.Name == "" {
		fields["name"] = "This field is required."
	}
	if loc.LocationType == "" {
		fields["location_type"] = "This field is required."
	}

	dbc := dbctx.Context{Ctx: ctx}
	b, err := s.buildings.GetByID(dbc, loc.BuildingID)
	if err != nil {
		return nil, fmt.Errorf("load building: %w", err)
	}
	if b == nil {
		return nil, apierr.NotFound("building")
	}
	if loc.ParentID != nil {
		parent, err := s.locations.GetInBuilding(dbc, b.ID, *loc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("load parent location: %w", err)
		}
		if parent == nil {
			fields["parent_id"] = "Parent location must belong to the same building."
		}
	}
	if len(fields) > 0 {
		return nil, apierr.Validation(fields)
	}

	created, err := s.locations.Create(dbc, loc)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	s.log.Info("Location created", "building_id", b.ID, "location_id", created.ID)
	return created, nil
}

func (s *catalogService) UpsertUser(ctx context.Context, u *types.User) (*types.User, error) {
	if u == nil || strings.TrimSpace(u.Email) == "" {
		return nil, apierr.Validation(map[string]string{"email": "This field is required."})
	}
	saved, err := s.users.UpsertByEmail(dbctx.Context{Ctx: ctx}, u)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return saved, nil
}

func (s *catalogService) UpsertElementTypes(ctx context.Context, labels map[string]string) (map[string]*types.ElementType, error) {
	clean := make(map[string]string, len(labels))
	for code, label := range labels {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		clean[code] = label
	}
	out, err := s.elementTypes.UpsertByCodes(dbctx.Context{Ctx: ctx}, clean)
	if err != nil {
		return nil, fmt.Errorf("upsert element types: %w", err)
	}
	return out, nil
}

func inTransaction(db *gorm.DB) bool {
	if db == nil || db.Statement == nil {
		return false
	}
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}
