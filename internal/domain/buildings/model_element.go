package buildings

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ModelElement is one item parsed out of an IFCModel. (IFCModelID, GlobalID)
// is unique.
type ModelElement struct {
	ID            uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	IFCModelID    uint         `gorm:"column:ifc_model_id;not null;uniqueIndex:uq_model_elements_model_global,priority:1" json:"ifc_model_id"`
	IFCModel      *IFCModel    `gorm:"constraint:OnDelete:CASCADE;foreignKey:IFCModelID;references:ID" json:"-"`
	ElementTypeID uint         `gorm:"column:element_type_id;not null;index" json:"element_type_id"`
	ElementType   *ElementType `gorm:"constraint:OnDelete:RESTRICT;foreignKey:ElementTypeID;references:ID" json:"element_type,omitempty"`

	IFCID    *int64         `gorm:"column:ifc_id" json:"ifc_id"`
	GlobalID string         `gorm:"column:global_id;size:64;not null;uniqueIndex:uq_model_elements_model_global,priority:2" json:"global_id"`
	Name     string         `gorm:"column:name;size:255;not null;default:''" json:"name"`
	Raw      datatypes.JSON `gorm:"column:raw" json:"raw,omitempty"`

	// SearchText holds the searchable fields lower-cased in Go, so matching
	// does not depend on the database's case folding.
	SearchText string `gorm:"column:search_text;type:text;not null;default:''" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ModelElement) TableName() string { return "model_element" }

// searchSep never appears in a folded query, so a match cannot span two fields.
const searchSep = "\x1f"

// FoldSearchQuery lower-cases a free-text query the same way SearchText is built.
func FoldSearchQuery(q string) string {
	return strings.ReplaceAll(strings.ToLower(q), searchSep, "")
}

// RefreshSearchText rebuilds SearchText from the element and its type.
func (e *ModelElement) RefreshSearchText(et *ElementType) {
	parts := []string{e.Name, e.GlobalID, "", "", ""}
	if e.IFCID != nil {
		parts[2] = strconv.FormatInt(*e.IFCID, 10)
	}
	if et != nil {
		parts[3] = et.Code
		parts[4] = et.Label
	}
	e.SearchText = strings.ToLower(strings.Join(parts, searchSep))
}

func (e *ModelElement) BeforeCreate(tx *gorm.DB) error {
	et := e.ElementType
	if et == nil || et.ID != e.ElementTypeID {
		var loaded ElementType
		err := tx.Session(&gorm.Session{NewDB: true}).
			Select("id", "code", "label").
			Take(&loaded, e.ElementTypeID).Error
		switch {
		case err == nil:
			et = &loaded
		case errors.Is(err, gorm.ErrRecordNotFound):
			// the foreign key rejects the row on insert
			et = nil
		default:
			return err
		}
	}
	e.RefreshSearchText(et)
	return nil
}
