package buildings

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

const DefaultBatchSize = 1000

// ElementFilter narrows a Search. Query is a case-insensitive substring
// matched against name, global id, ifc id and the type's code and label,
// folded in Go against the stored search_text column.
// TypeCode is an exact match. Empty fields do not filter.
type ElementFilter struct {
	ModelID  uint
	Query    string
	TypeCode string
}

type ElementRepo interface {
	CreateInBatches(dbc dbctx.Context, rows []*types.ModelElement, batchSize int) error
	CountByModel(dbc dbctx.Context, modelID uint) (int64, error)
	Search(dbc dbctx.Context, f ElementFilter) ([]*types.ModelElement, error)
}

type elementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementRepo(db *gorm.DB, baseLog *logger.Logger) ElementRepo {
	repoLog := baseLog.With("repo", "ElementRepo")
	return &elementRepo{db: db, log: repoLog}
}

func (r *elementRepo) CreateInBatches(dbc dbctx.Context, rows []*types.ModelElement, batchSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return dbc.Conn(r.db).Omit("IFCModel", "ElementType").CreateInBatches(rows, batchSize).Error
}

func (r *elementRepo) CountByModel(dbc dbctx.Context, modelID uint) (int64, error) {
	var n int64
	if err := dbc.Conn(r.db).
		Model(&types.ModelElement{}).
		Where("ifc_model_id = ?", modelID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *elementRepo) Search(dbc dbctx.Context, f ElementFilter) ([]*types.ModelElement, error) {
	results := []*types.ModelElement{}
	if f.ModelID == 0 {
		return results, nil
	}

	q := dbc.Conn(r.db).
		Model(&types.ModelElement{}).
		Select("model_element.*").
		Joins("JOIN element_type ON element_type.id = model_element.element_type_id").
		Where("model_element.ifc_model_id = ?", f.ModelID)

	if code := strings.TrimSpace(f.TypeCode); code != "" {
		q = q.Where("element_type.code = ?", code)
	}
	if text := strings.TrimSpace(f.Query); text != "" {
		pattern := "%" + escapeLike(types.FoldSearchQuery(text)) + "%"
		q = q.Where("model_element.search_text LIKE ? ESCAPE '\\'", pattern)
	}

	if err := q.
		Preload("ElementType").
		Order("element_type.code ASC").
		Order("model_element.name ASC").
		Order("CASE WHEN model_element.ifc_id IS NULL THEN 1 ELSE 0 END ASC").
		Order("model_element.ifc_id ASC").
		Order("model_element.id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
