package buildings

import "time"

const (
	ModelStatusUploaded = "uploaded"
	ModelStatusParsed   = "parsed"
	ModelStatusError    = "error"
)

// IFCModel is one uploaded building-model file. SHA256 is unique across all
// models so the same content can never be registered twice.
type IFCModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BuildingID uint      `gorm:"not null;index" json:"building_id"`
	Building   *Building `gorm:"constraint:OnDelete:CASCADE;foreignKey:BuildingID;references:ID" json:"building,omitempty"`
	LocationID uint      `gorm:"not null;index" json:"location_id"`
	Location   *Location `gorm:"constraint:OnDelete:CASCADE;foreignKey:LocationID;references:ID" json:"location,omitempty"`

	ModelName string  `gorm:"column:model_name;size:255;not null" json:"model_name"`
	FileKey   *string `gorm:"column:file_key;size:512" json:"file_key,omitempty"`
	FileName  string  `gorm:"column:file_name;size:255" json:"file_name"`
	SizeBytes int64   `gorm:"column:size_bytes" json:"size_bytes"`
	SHA256    string  `gorm:"column:sha256;size:64;not null;uniqueIndex" json:"sha256"`

	UploadedAt   time.Time  `gorm:"column:uploaded_at;autoCreateTime;index" json:"uploaded_at"`
	Status       string     `gorm:"column:status;size:32;not null;default:'uploaded'" json:"status"`
	ParsedAt     *time.Time `gorm:"column:parsed_at" json:"parsed_at,omitempty"`
	UploadedByID *uint      `gorm:"column:uploaded_by_id;index" json:"uploaded_by_id,omitempty"`
	UploadedBy   *User      `gorm:"constraint:OnDelete:SET NULL;foreignKey:UploadedByID;references:ID" json:"uploaded_by,omitempty"`
}

func (IFCModel) TableName() string { return "ifc_model" }

func (m *IFCModel) HasFile() bool {
	return m != nil && m.FileKey != nil && *m.FileKey != ""
}
