package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/repos"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type EquipmentQuery struct {
	// ModelID selects a model explicitly; nil means the latest upload.
	ModelID *uint
	Q       string
	Type    string
}

type EquipmentView struct {
	Building      *types.Building       `json:"building"`
	Location      *types.Location       `json:"location"`
	Models        []*types.IFCModel     `json:"models"`
	SelectedModel *types.IFCModel       `json:"selected_model"`
	Elements      []*types.ModelElement `json:"elements"`
	Q             string                `json:"q"`
	Type          string                `json:"type"`
	TypeChoices   []*types.ElementType  `json:"type_choices"`
}

type EquipmentExport struct {
	FileName string
	Content  []byte
}

type EquipmentService interface {
	Browse(ctx context.Context, buildingID, locationID uint, q EquipmentQuery) (*EquipmentView, error)
	Export(ctx context.Context, buildingID, locationID uint, q EquipmentQuery) (*EquipmentExport, error)
}

type equipmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	catalog      CatalogService
	models       repos.IFCModelRepo
	elementTypes repos.ElementTypeRepo
	elements     repos.ElementRepo
	metrics      *observability.Metrics
}

func NewEquipmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog CatalogService,
	models repos.IFCModelRepo,
	elementTypes repos.ElementTypeRepo,
	elements repos.ElementRepo,
	metrics *observability.Metrics,
) EquipmentService {
	serviceLog := baseLog.With("service", "EquipmentService")
	return &equipmentService{
		db:           db,
		log:          serviceLog,
		catalog:      catalog,
		models:       models,
		elementTypes: elementTypes,
		elements:     elements,
		metrics:      metrics,
	}
}

func (s *equipmentService) Browse(ctx context.Context, buildingID, locationID uint, q EquipmentQuery) (*EquipmentView, error) {
	b, loc, err := s.catalog.ResolveLocation(ctx, buildingID, locationID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	view := &EquipmentView{
		Building:    b,
		Location:    loc,
		Q:           strings.TrimSpace(q.Q),
		Type:        strings.TrimSpace(q.Type),
		Elements:    []*types.ModelElement{},
		TypeChoices: []*types.ElementType{},
	}

	models, err := s.models.ListByLocation(dbc, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	view.Models = models

	if q.ModelID != nil {
		selected, err := s.models.GetInLocation(dbc, b.ID, loc.ID, *q.ModelID)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if selected == nil {
			return nil, apierr.NotFound("model")
		}
		view.SelectedModel = selected
	} else if len(models) > 0 {
		latest, err := s.models.LatestForLocation(dbc, loc.ID)
		if err != nil {
			return nil, fmt.Errorf("load latest model: %w", err)
		}
		view.SelectedModel = latest
	}

	if view.SelectedModel != nil {
		elements, err := s.elements.Search(dbc, repos.ElementFilter{
			ModelID:  view.SelectedModel.ID,
			Query:    view.Q,
			TypeCode: view.Type,
		})
		if err != nil {
			return nil, fmt.Errorf("search elements: %w", err)
		}
		view.Elements = elements
	}

	if len(models) > 0 {
		choices, err := s.elementTypes.DistinctForLocation(dbc, loc.ID)
		if err != nil {
			return nil, fmt.Errorf("list type choices: %w", err)
		}
		view.TypeChoices = choices
	}
	return view, nil
}

func (s *equipmentService) Export(ctx context.Context, buildingID, locationID uint, q EquipmentQuery) (*EquipmentExport, error) {
	view, err := s.Browse(ctx, buildingID, locationID, q)
	if err != nil {
		return nil, err
	}
	content, err := BuildEquipmentWorkbook(view.Elements)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	s.metrics.IncExport()
	name := fmt.Sprintf("equipment-%d-%d.xlsx", view.Building.ID, view.Location.ID)
	if view.SelectedModel != nil {
		name = fmt.Sprintf("equipment-%d-%d-%d.xlsx", view.Building.ID, view.Location.ID, view.SelectedModel.ID)
	}
	return &EquipmentExport{FileName: name, Content: content}, nil
}
