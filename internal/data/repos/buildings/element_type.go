package buildings

import (
	"sort"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/bexps-backend/internal/domain"
	"github.com/yungbote/bexps-backend/internal/platform/dbctx"
	"github.com/yungbote/bexps-backend/internal/platform/logger"
)

type ElementTypeRepo interface {
	UpsertByCodes(dbc dbctx.Context, labels map[string]string) (map[string]*types.ElementType, error)
	GetByCode(dbc dbctx.Context, code string) (*types.ElementType, error)
	ListByCodes(dbc dbctx.Context, codes []string) ([]*types.ElementType, error)
	DistinctForLocation(dbc dbctx.Context, locationID uint) ([]*types.ElementType, error)
	Delete(dbc dbctx.Context, code string) error
}

type elementTypeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewElementTypeRepo(db *gorm.DB, baseLog *logger.Logger) ElementTypeRepo {
	repoLog := baseLog.With("repo", "ElementTypeRepo")
	return &elementTypeRepo{db: db, log: repoLog}
}

// UpsertByCodes inserts the codes that do not exist yet and returns every
// requested code mapped to its row. Labels of existing codes are kept.
func (r *elementTypeRepo) UpsertByCodes(dbc dbctx.Context, labels map[string]string) (map[string]*types.ElementType, error) {
	out := make(map[string]*types.ElementType, len(labels))
	if len(labels) == 0 {
		return out, nil
	}

	codes := make([]string, 0, len(labels))
	for code := range labels {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([]types.ElementType, 0, len(codes))
	for _, code := range codes {
		label := strings.TrimSpace(labels[code])
		if label == "" {
			label = code
		}
		rows = append(rows, types.ElementType{Code: code, Label: label})
	}

	conn := dbc.Conn(r.db)
	if err := conn.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(&rows).Error; err != nil {
		return nil, err
	}

	existing, err := r.ListByCodes(dbc, codes)
	if err != nil {
		return nil, err
	}
	for _, et := range existing {
		out[et.Code] = et
	}
	return out, nil
}

func (r *elementTypeRepo) GetByCode(dbc dbctx.Context, code string) (*types.ElementType, error) {
	if code == "" {
		return nil, nil
	}
	var row types.ElementType
	if err := dbc.Conn(r.db).Where("code = ?", code).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *elementTypeRepo) ListByCodes(dbc dbctx.Context, codes []string) ([]*types.ElementType, error) {
	results := []*types.ElementType{}
	if len(codes) == 0 {
		return results, nil
	}
	if err := dbc.Conn(r.db).
		Where("code IN ?", codes).
		Order("code ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// DistinctForLocation lists the types used by elements of any model in the
// location, ordered by code.
func (r *elementTypeRepo) DistinctForLocation(dbc dbctx.Context, locationID uint) ([]*types.ElementType, error) {
	results := []*types.ElementType{}
	if locationID == 0 {
		return results, nil
	}
	conn := dbc.Conn(r.db)
	used := conn.
		Model(&types.ModelElement{}).
		Select("model_element.element_type_id").
		Joins("JOIN ifc_model ON ifc_model.id = model_element.ifc_model_id").
		Where("ifc_model.location_id = ?", locationID)
	if err := conn.
		Where("id IN (?)", used).
		Order("code ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Delete fails with a foreign-key violation while any element references the code.
func (r *elementTypeRepo) Delete(dbc dbctx.Context, code string) error {
	res := dbc.Conn(r.db).Where("code = ?", code).Delete(&types.ElementType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
