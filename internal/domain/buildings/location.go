package buildings

// Location is a floor, room or zone inside a Building, optionally nested
// under another Location of the same Building.
type Location struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BuildingID   uint      `gorm:"not null;index" json:"building_id"`
	Building     *Building `gorm:"constraint:OnDelete:CASCADE;foreignKey:BuildingID;references:ID" json:"building,omitempty"`
	Name         string    `gorm:"column:name;size:255;not null" json:"name"`
	LocationType string    `gorm:"column:location_type;size:64;not null" json:"location_type"`
	ParentID     *uint     `gorm:"index" json:"parent_id,omitempty"`
	Parent       *Location `gorm:"constraint:OnDelete:SET NULL;foreignKey:ParentID;references:ID" json:"parent,omitempty"`
}

func (Location) TableName() string { return "location" }
