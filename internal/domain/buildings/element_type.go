package buildings

// ElementType is the catalog entry for an element category code such as
// IFCWALL. Rows are created lazily by ingestion.
type ElementType struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Code  string `gorm:"column:code;size:64;not null;uniqueIndex" json:"code"`
	Label string `gorm:"column:label;size:128;not null" json:"label"`
}

func (ElementType) TableName() string { return "element_type" }
