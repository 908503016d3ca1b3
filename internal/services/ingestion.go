package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/bexps-backend/internal/data/db"
	"github.com/yungbote/bexps-backend/internal/data/repos"
	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/observability"
	"github.com/yungbote/bexps-backend/internal/platform/apierr"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
	"github.com/yungbote/bexps-backend/internal/realtime/bus"
)

const DefaultIngestBatchSize = 1000

type IngestResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type IngestionService interface {
	Ingest(ctx context.Context, buildingID, locationID, modelID uint, body []byte) (*IngestResult, error)
}

type ingestionService struct {
	db           *gorm.DB
	log          *logger.Logger
	batchSize    int
	catalog      CatalogService
	models       repos.IFCModelRepo
	elementTypes repos.ElementTypeRepo
	elements     repos.ElementRepo
	events       bus.Bus
	metrics      *observability.Metrics
}

func NewIngestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	batchSize int,
	catalog CatalogService,
	models repos.IFCModelRepo,
	elementTypes repos.ElementTypeRepo,
	elements repos.ElementRepo,
	events bus.Bus,
	metrics *observability.Metrics,
) IngestionService {
	serviceLog := baseLog.With("service", "IngestionService")
	if batchSize <= 0 {
		batchSize = DefaultIngestBatchSize
	}
	if events == nil {
		events = bus.NewNoopBus()
	}
	return &ingestionService{
		db:           db,
		log:          serviceLog,
		batchSize:    batchSize,
		catalog:      catalog,
		models:       models,
		elementTypes: elementTypes,
		elements:     elements,
		events:       events,
		metrics:      metrics,
	}
}

// parsedItem is one well-formed entry of the payload.
type parsedItem struct {
	ifcID    *int64
	globalID string
	name     string
	typeCode string
	label    string
	raw      []byte
}

// parsePayload walks {"elements": {<group>: [item, ...]}}. Entries that do
// not have the expected shape are counted as skipped.
func parsePayload(body []byte) ([]parsedItem, int, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var top interface{}
	if err := dec.Decode(&top); err != nil {
		return nil, 0, apierr.BadRequest("invalid_json", fmt.Errorf("request body is not valid JSON: %w", err))
	}
	if dec.More() {
		return nil, 0, apierr.BadRequest("invalid_json", errors.New("request body has trailing data"))
	}
	obj, ok := top.(map[string]interface{})
	if !ok {
		return nil, 0, apierr.BadRequest("invalid_payload", errors.New("request body must be a JSON object"))
	}
	groups, ok := obj["elements"].(map[string]interface{})
	if !ok {
		return nil, 0, nil
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	items := []parsedItem{}
	skipped := 0
	for _, name := range names {
		list, ok := groups[name].([]interface{})
		if !ok {
			skipped++
			continue
		}
		for _, entry := range list {
			item, ok := entry.(map[string]interface{})
			if !ok {
				skipped++
				continue
			}
			p, ok := parseItem(item)
			if !ok {
				skipped++
				continue
			}
			items = append(items, p)
		}
	}
	return items, skipped, nil
}

func parseItem(item map[string]interface{}) (parsedItem, bool) {
	globalID := stringField(item, "globalId")
	typeCode := stringField(item, "ifcType")
	if globalID == "" || typeCode == "" {
		return parsedItem{}, false
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return parsedItem{}, false
	}
	label := stringField(item, "type")
	if label == "" {
		label = typeCode
	}
	name, _ := item["name"].(string)
	return parsedItem{
		ifcID:    intField(item, "ifcId"),
		globalID: globalID,
		name:     name,
		typeCode: typeCode,
		label:    label,
		raw:      raw,
	}, true
}

func stringField(item map[string]interface{}, key string) string {
	s, _ := item[key].(string)
	return strings.TrimSpace(s)
}

// intField accepts an integral JSON number or a numeric string.
func intField(item map[string]interface{}, key string) *int64 {
	var (
		v   int64
		err error
	)
	switch x := item[key].(type) {
	case json.Number:
		v, err = x.Int64()
	case string:
		v, err = strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	return &v
}

func (s *ingestionService) Ingest(ctx context.Context, buildingID, locationID, modelID uint, body []byte) (*IngestResult, error) {
	model, err := s.catalog.ResolveModel(ctx, buildingID, locationID, modelID)
	if err != nil {
		return nil, err
	}

	items, skipped, err := parsePayload(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		s.log.Info("Ingest skipped malformed entries", "model_id", model.ID, "skipped", skipped)
	}

	labels := map[string]string{}
	for _, it := range items {
		if _, seen := labels[it.typeCode]; !seen {
			labels[it.typeCode] = it.label
		}
	}

	start := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		byCode, err := s.elementTypes.UpsertByCodes(dbc, labels)
		if err != nil {
			return fmt.Errorf("resolve element types: %w", err)
		}

		rows := make([]*types.ModelElement, 0, len(items))
		for _, it := range items {
			et := byCode[it.typeCode]
			if et == nil {
				return fmt.Errorf("element type %q not resolved", it.typeCode)
			}
			rows = append(rows, &types.ModelElement{
				IFCModelID:    model.ID,
				ElementTypeID: et.ID,
				ElementType:   et,
				IFCID:         it.ifcID,
				GlobalID:      it.globalID,
				Name:          it.name,
				Raw:           datatypes.JSON(it.raw),
			})
		}

		if err := s.models.MarkParsed(dbc, model.ID, time.Now()); err != nil {
			return fmt.Errorf("mark parsed: %w", err)
		}
		if err := s.elements.CreateInBatches(dbc, rows, s.batchSize); err != nil {
			return fmt.Errorf("create elements: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveIngest("error", 0, skipped, time.Since(start))
		s.markFailed(ctx, model.ID)
		err = db.Classify(err)
		if errors.Is(err, db.ErrDuplicate) {
			return nil, apierr.Conflict("duplicate_element", fmt.Errorf("elements already ingested for this model: %w", err))
		}
		s.log.Error("Ingest failed", "model_id", model.ID, "error", err)
		return nil, fmt.Errorf("ingest elements: %w", err)
	}

	result := &IngestResult{Created: len(items), Skipped: skipped}
	s.metrics.ObserveIngest("ok", result.Created, result.Skipped, time.Since(start))
	s.log.Info("Ingest complete", "model_id", model.ID, "created", result.Created, "skipped", result.Skipped)
	publishModelEvent(ctx, s.events, s.metrics, s.log, bus.ModelEvent{
		Type:       bus.EventModelParsed,
		BuildingID: model.BuildingID,
		LocationID: model.LocationID,
		ModelID:    model.ID,
		ModelName:  model.ModelName,
		Created:    result.Created,
	})
	return result, nil
}

// markFailed flips a still-uploaded model to error after a rolled back ingest.
func (s *ingestionService) markFailed(ctx context.Context, modelID uint) {
	changed, err := s.models.MarkErrorIfUnparsed(dbctx.Context{Ctx: ctx, Tx: s.db}, modelID)
	if err != nil {
		s.log.Warn("Could not mark model as failed", "model_id", modelID, "error", err)
		return
	}
	if changed {
		s.log.Info("Model marked as failed", "model_id", modelID)
	}
}
