package buildings

// Building is the root of the physical hierarchy.
type Building struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;size:255;not null;index" json:"name"`
	Address     string `gorm:"column:address;type:text" json:"address"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (Building) TableName() string { return "building" }
